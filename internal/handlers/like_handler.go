package handlers

import (
	"errors"
	"net/http"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
	"github.com/EnzokuChakra/social-land-sub003/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	postRepository repositories.PostRepository
	visibility     *services.VisibilityService
	notifier       *services.NotifierService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	visibility *services.VisibilityService,
	notifier *services.NotifierService,
) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		postRepository: postRepo,
		visibility:     visibility,
		notifier:       notifier,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
	g.GET("/posts/:post_id/likes/count", h.GetLikesCountForPost)
}

// LikePost handles liking a post. Repeated likes on the same content by
// the same user collapse into one notification through the generator's
// de-duplication rather than multiplying rows.
func (h *LikeHandler) LikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

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

	like := &models.Like{
		PostID: postID,
		UserID: currentUserID,
	}

	if err := h.likeRepository.CreateLike(like); err != nil {
		if errors.Is(err, repositories.ErrDuplicateLike) {
			return echo.NewHTTPError(http.StatusConflict, "Post already liked by this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementLikesCount(c.Request().Context(), postID); err != nil {
		c.Logger().Warnf("increment likes count: %v", err)
	}

	h.notifier.LikeCreated(currentUserID, post.UserID, postID)

	return c.JSON(http.StatusCreated, like)
}

// UnlikePost handles unliking a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	if err := h.likeRepository.DeleteLike(postID, currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Like not found")
	}

	if err := h.postRepository.DecrementLikesCount(c.Request().Context(), postID); err != nil {
		c.Logger().Warnf("decrement likes count: %v", err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetLikesCountForPost retrieves the total number of likes for a post
func (h *LikeHandler) GetLikesCountForPost(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	count, err := h.likeRepository.GetLikesCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "likes_count": count})
}
