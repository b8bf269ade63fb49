package handlers

import (
	"net/http"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
	"github.com/EnzokuChakra/social-land-sub003/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	visibility     *services.VisibilityService
	notifier       *services.NotifierService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	visibility *services.VisibilityService,
	notifier *services.NotifierService,
) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		visibility:     visibility,
		notifier:       notifier,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/users/:id/posts", h.GetUserPosts)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post; @mentions in the content notify each
// mentioned account the author can see
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post := &models.Post{
		UserID:    currentUserID,
		Content:   req.Content,
		ImageURLs: req.ImageURLs,
		VideoURLs: req.VideoURLs,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifier.MentionsDetected(currentUserID, req.Content, post.ID.Hex(), "post")

	return c.JSON(http.StatusCreated, post)
}

// GetPost returns a single post, visibility-gated on its owner
func (h *PostHandler) GetPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	verdict, err := h.visibility.CanView(currentUserID, post.UserID)
	if err != nil {
		return serviceError(err)
	}
	if verdict != services.Allow {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	return c.JSON(http.StatusOK, post)
}

// GetUserPosts lists a user's posts, visibility-gated
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	targetID, err := parseUserID(c)
	if err != nil {
		return err
	}

	verdict, err := h.visibility.CanView(currentUserID, targetID)
	if err != nil {
		return serviceError(err)
	}
	if verdict != services.Allow {
		return echo.NewHTTPError(http.StatusNotFound, "User profile not found")
	}

	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), targetID, 0, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"posts": posts}})
}

// DeletePost deletes the current user's own post
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot delete another user's post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

func parseUserID(c echo.Context) (uint, error) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return id, nil
}
