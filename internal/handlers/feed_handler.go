package handlers

import (
	"net/http"
	"strconv"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
	likeRepository   repositories.LikeRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	likeRepo repositories.LikeRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:   postRepo,
		userRepository:   userRepo,
		followRepository: followRepo,
		likeRepository:   likeRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// EnrichedPost is a post with author info and user-specific flags
type EnrichedPost struct {
	models.Post
	Author  models.UserCompact `json:"author"`
	IsLiked bool               `json:"is_liked"`
}

// GetFeed returns posts from the current user and accounts they follow
// with an accepted edge. An accepted edge does not survive a ban, so the
// author set is narrowed to normal-status accounts before querying posts.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorIDs, err := h.userRepository.FilterNormalStatus(followingIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorIDs = append(authorIDs, currentUserID)

	skip := int64((page - 1) * limit)
	posts, err := h.postRepository.GetPostsByUserIDs(c.Request().Context(), authorIDs, skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched := make([]EnrichedPost, 0, len(posts))
	authorCache := make(map[uint]models.UserCompact)
	for _, post := range posts {
		ep := EnrichedPost{Post: post}
		if author, ok := authorCache[post.UserID]; ok {
			ep.Author = author
		} else if user, err := h.userRepository.GetUserByID(post.UserID); err == nil {
			compact := user.ToCompact()
			authorCache[post.UserID] = compact
			ep.Author = compact
		}
		liked, err := h.likeRepository.HasUserLikedPost(post.ID.Hex(), currentUserID)
		if err == nil {
			ep.IsLiked = liked
		}
		enriched = append(enriched, ep)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"posts": enriched},
		"meta": echo.Map{
			"currentPage":  page,
			"itemsPerPage": limit,
		},
	})
}
