package handlers

import (
	"errors"
	"net/http"

	"github.com/EnzokuChakra/social-land-sub003/internal/cache"
	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
	"github.com/EnzokuChakra/social-land-sub003/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ReportHandler handles moderation reports. Resolving a report can
// change the reported account's derived status, so the handler owns the
// cache invalidation for the affected subject.
type ReportHandler struct {
	reportRepository repositories.ReportRepository
	userRepository   repositories.UserRepository
	notifier         *services.NotifierService
	statusCache      *cache.StatusCache
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(
	reportRepo repositories.ReportRepository,
	userRepo repositories.UserRepository,
	notifier *services.NotifierService,
	statusCache *cache.StatusCache,
) *ReportHandler {
	return &ReportHandler{
		reportRepository: reportRepo,
		userRepository:   userRepo,
		notifier:         notifier,
		statusCache:      statusCache,
	}
}

// RegisterReportRoutes registers moderation routes
func (h *ReportHandler) RegisterReportRoutes(g *echo.Group) {
	g.POST("/reports", h.CreateReport)
	g.GET("/reports", h.ListOpenReports)
	g.PUT("/reports/:id/resolve", h.ResolveReport)
}

// CreateReport files a report against an account or content
func (h *ReportHandler) CreateReport(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.userRepository.GetUserByID(req.SubjectID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reported user not found")
	}

	report := &models.Report{
		ReporterID: currentUserID,
		SubjectID:  req.SubjectID,
		TargetID:   req.TargetID,
		TargetType: req.TargetType,
		Reason:     req.Reason,
		Outcome:    models.ReportOpen,
	}

	if err := h.reportRepository.CreateReport(report); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, report)
}

// ListOpenReports lists unresolved reports (moderators only)
func (h *ReportHandler) ListOpenReports(c echo.Context) error {
	if err := h.requireModerator(c); err != nil {
		return err
	}

	reports, err := h.reportRepository.ListOpenReports()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"reports": reports}})
}

// ResolveReport records the moderation outcome, applies account-level
// consequences, invalidates the subject's cached status before
// acknowledging, and notifies the reporter.
func (h *ReportHandler) ResolveReport(c echo.Context) error {
	if err := h.requireModerator(c); err != nil {
		return err
	}
	currentUserID := getUserIDFromContext(c)

	reportID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid report ID")
	}

	var req models.ResolveReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	report, err := h.reportRepository.GetReportByID(reportID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Report not found")
	}

	if err := h.reportRepository.ResolveReport(reportID, currentUserID, req.Outcome); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusConflict, "Report already resolved")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Outcome == models.ReportUpheld && (req.BanUser || req.Unverify) {
		subject, err := h.userRepository.GetUserByID(report.SubjectID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if req.BanUser {
			subject.Status = models.StatusBanned
		}
		if req.Unverify {
			subject.Verified = false
		}
		if err := h.userRepository.UpdateUser(subject); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	// Evict before acknowledging so no reader observes pre-decision state
	// beyond the cache TTL.
	h.statusCache.InvalidateSubject(report.SubjectID)

	h.notifier.ReportResolved(report.ReporterID, report.ID, req.Outcome)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"outcome": req.Outcome}})
}

func (h *ReportHandler) requireModerator(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if user.Role != models.RoleModerator && user.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Moderator role required")
	}
	return nil
}
