package handlers

import (
	"net/http"
	"strconv"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler exposes the relationship state machine and block
// operations over HTTP
type FollowHandler struct {
	relationships *services.RelationshipService
	visibility    *services.VisibilityService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(relationships *services.RelationshipService, visibility *services.VisibilityService) *FollowHandler {
	return &FollowHandler{
		relationships: relationships,
		visibility:    visibility,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.RequestFollow)
	g.POST("/users/:id/follow/approve", h.ApproveFollow)
	g.POST("/users/:id/follow/decline", h.DeclineFollow)
	g.DELETE("/users/:id/follow/request", h.CancelFollow)
	g.DELETE("/users/:id/follow", h.Unfollow)
	g.GET("/follow-requests", h.ListFollowRequests)
	g.POST("/users/:id/block", h.BlockUser)
	g.DELETE("/users/:id/block", h.UnblockUser)
}

// RequestFollow starts (or, for public targets, completes) a follow
func (h *FollowHandler) RequestFollow(c echo.Context) error {
	currentUserID, targetID, err := h.parties(c)
	if err != nil {
		return err
	}

	follow, err := h.relationships.Request(currentUserID, targetID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": follow.Status}})
}

// ApproveFollow accepts a pending request from user :id
func (h *FollowHandler) ApproveFollow(c echo.Context) error {
	currentUserID, requesterID, err := h.parties(c)
	if err != nil {
		return err
	}

	if err := h.relationships.Approve(currentUserID, requesterID); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"status": models.FollowAccepted}})
}

// DeclineFollow rejects a pending request from user :id
func (h *FollowHandler) DeclineFollow(c echo.Context) error {
	currentUserID, requesterID, err := h.parties(c)
	if err != nil {
		return err
	}

	if err := h.relationships.Decline(currentUserID, requesterID); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// CancelFollow withdraws the current user's pending request to user :id
func (h *FollowHandler) CancelFollow(c echo.Context) error {
	currentUserID, targetID, err := h.parties(c)
	if err != nil {
		return err
	}

	if err := h.relationships.Cancel(currentUserID, targetID); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Unfollow removes an accepted follow of user :id
func (h *FollowHandler) Unfollow(c echo.Context) error {
	currentUserID, targetID, err := h.parties(c)
	if err != nil {
		return err
	}

	if err := h.relationships.Unfollow(currentUserID, targetID); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// ListFollowRequests returns pending requests addressed to the current user
func (h *FollowHandler) ListFollowRequests(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, count, err := h.relationships.PendingRequests(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"requests": requests, "count": count},
	})
}

// BlockUser blocks user :id and severs follow edges in both directions
func (h *FollowHandler) BlockUser(c echo.Context) error {
	currentUserID, targetID, err := h.parties(c)
	if err != nil {
		return err
	}

	if err := h.relationships.Block(currentUserID, targetID); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blocked": true}})
}

// UnblockUser removes the block on user :id
func (h *FollowHandler) UnblockUser(c echo.Context) error {
	currentUserID, targetID, err := h.parties(c)
	if err != nil {
		return err
	}

	if err := h.relationships.Unblock(currentUserID, targetID); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"blocked": false}})
}

func (h *FollowHandler) parties(c echo.Context) (uint, uint, error) {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return 0, 0, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	return currentUserID, uint(targetID), nil
}
