package handlers

import (
	"net/http"
	"strconv"

	"github.com/EnzokuChakra/social-land-sub003/internal/cache"
	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
	"github.com/EnzokuChakra/social-land-sub003/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// VerificationStatus is the derived status served through the ephemeral
// cache on profile reads.
type VerificationStatus struct {
	Verified bool   `json:"verified"`
	Status   string `json:"status"`
}

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	blockRepository  repositories.BlockRepository
	visibility       *services.VisibilityService
	statusCache      *cache.StatusCache
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	blockRepo repositories.BlockRepository,
	visibility *services.VisibilityService,
	statusCache *cache.StatusCache,
) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		followRepository: followRepo,
		blockRepository:  blockRepo,
		visibility:       visibility,
		statusCache:      statusCache,
	}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/search", h.SearchUsers)
}

// GetUser returns another account's profile, gated by the visibility
// resolver. A blocked or banned subject is reported as not found so the
// denial cause does not leak; a private subject yields only the minimal
// public summary.
func (h *UserHandler) GetUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	verdict, err := h.visibility.CanViewUser(currentUserID, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	switch verdict {
	case services.DenyBlocked, services.DenyBanned:
		return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
	case services.DenyPrivate:
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"data": echo.Map{
				"user":       user.ToCompact(),
				"is_private": true,
			},
		})
	}

	status, err := h.verificationStatus(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":         user,
			"verification": status,
		},
	})
}

// GetFollowers lists accepted followers of user :id, visibility-gated
func (h *UserHandler) GetFollowers(c echo.Context) error {
	return h.listRelated(c, h.followRepository.GetFollowers)
}

// GetFollowing lists accounts user :id follows, visibility-gated
func (h *UserHandler) GetFollowing(c echo.Context) error {
	return h.listRelated(c, h.followRepository.GetFollowing)
}

func (h *UserHandler) listRelated(c echo.Context, fetch func(uint) ([]models.User, error)) error {
	currentUserID := getUserIDFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	verdict, err := h.visibility.CanView(currentUserID, uint(id))
	if err != nil {
		return serviceError(err)
	}
	if verdict != services.Allow {
		return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
	}

	users, err := fetch(uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	compact := make([]models.UserCompact, len(users))
	for i, u := range users {
		compact[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": compact}})
}

// SearchUsers searches profiles, hiding accounts with a block in either direction
func (h *UserHandler) SearchUsers(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	exclude, err := h.blockRepository.GetBlockedIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	users, err := h.userRepository.SearchUsers(query, exclude)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.UserCompact, 0, len(users))
	for _, u := range users {
		blocked, err := h.blockRepository.ExistsBetween(currentUserID, u.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if blocked {
			continue
		}
		results = append(results, u.ToCompact())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": results}})
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": user}})
}

// UpdateProfile updates the authenticated user's profile. Any change is
// followed by invalidation of the subject's cached status before the
// write is acknowledged.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.IsPrivate != nil {
		user.IsPrivate = *req.IsPrivate
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.statusCache.InvalidateSubject(user.ID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": user}})
}

func (h *UserHandler) verificationStatus(userID uint) (*VerificationStatus, error) {
	value, err := h.statusCache.Get(cache.Key(userID, "verification"), func() (any, error) {
		user, err := h.userRepository.GetUserByID(userID)
		if err != nil {
			return nil, err
		}
		return &VerificationStatus{Verified: user.Verified, Status: user.Status}, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*VerificationStatus), nil
}
