package handlers

import (
	"net/http"
	"strconv"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
	"github.com/EnzokuChakra/social-land-sub003/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	visibility        *services.VisibilityService
	notifier          *services.NotifierService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	visibility *services.VisibilityService,
	notifier *services.NotifierService,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		visibility:        visibility,
		notifier:          notifier,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a post. The author must be able
// to view the post owner; the owner gets a comment notification and any
// @mentioned visible account gets a mention notification.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

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

	comment := &models.Comment{
		PostID:  postID,
		UserID:  currentUserID,
		Content: req.Content,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementCommentsCount(c.Request().Context(), postID); err != nil {
		c.Logger().Warnf("increment comments count: %v", err)
	}

	h.notifier.CommentCreated(currentUserID, post.UserID, postID, comment.ID)
	h.notifier.MentionsDetected(currentUserID, req.Content, postID, "post")

	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPostID retrieves all comments for a specific post,
// visibility-gated on the post owner
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
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

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"comments": comments}})
}

// DeleteComment deletes the current user's own comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	if err := h.commentRepository.DeleteComment(uint(commentID), currentUserID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusForbidden, "Cannot delete another user's comment")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.DecrementCommentsCount(c.Request().Context(), comment.PostID); err != nil {
		c.Logger().Warnf("decrement comments count: %v", err)
	}

	return c.NoContent(http.StatusNoContent)
}
