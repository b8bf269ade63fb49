package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/EnzokuChakra/social-land-sub003/internal/cache"
	"github.com/EnzokuChakra/social-land-sub003/internal/events"
	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
	"github.com/EnzokuChakra/social-land-sub003/internal/services"
)

type reportHandlerEnv struct {
	db       *gorm.DB
	userRepo repositories.UserRepository
	handler  *ReportHandler
}

func newReportHandlerEnv(t *testing.T) *reportHandlerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Block{},
		&models.Notification{},
		&models.Report{},
	))

	logger := zap.NewNop()
	userRepo := repositories.NewPostgresUserRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	blockRepo := repositories.NewPostgresBlockRepository(db)
	notifRepo := repositories.NewPostgresNotificationRepository(db)
	reportRepo := repositories.NewPostgresReportRepository(db)
	broker := events.NewBroker(logger)
	t.Cleanup(broker.Shutdown)

	visibility := services.NewVisibilityService(userRepo, followRepo, blockRepo)
	notifier := services.NewNotifierService(userRepo, notifRepo, blockRepo, visibility, broker, logger)
	handler := NewReportHandler(reportRepo, userRepo, notifier, cache.NewStatusCache(30*time.Second))

	return &reportHandlerEnv{db: db, userRepo: userRepo, handler: handler}
}

func (e *reportHandlerEnv) addUser(t *testing.T, username, role string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Status:   models.StatusNormal,
		Role:     role,
	}
	require.NoError(t, e.userRepo.CreateUser(user))
	return user
}

func (e *reportHandlerEnv) addReport(t *testing.T, reporterID, subjectID uint) *models.Report {
	t.Helper()
	report := &models.Report{
		ReporterID: reporterID,
		SubjectID:  subjectID,
		Reason:     "spam account",
		Outcome:    models.ReportOpen,
	}
	require.NoError(t, e.db.Create(report).Error)
	return report
}

func resolveRequest(t *testing.T, reportID, moderatorID uint, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/reports/:id/resolve")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(reportID))
	c.Set("userID", moderatorID)
	return c, rec
}

func TestResolveReportBansSubject(t *testing.T) {
	env := newReportHandlerEnv(t)
	moderator := env.addUser(t, "mod", models.RoleModerator)
	reporter := env.addUser(t, "reporter", models.RoleUser)
	subject := env.addUser(t, "subject", models.RoleUser)
	report := env.addReport(t, reporter.ID, subject.ID)

	c, rec := resolveRequest(t, report.ID, moderator.ID, `{"outcome":"upheld","ban_user":true}`)
	require.NoError(t, env.handler.ResolveReport(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	subject, err := env.userRepo.GetUserByID(subject.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBanned, subject.Status)

	var notifs []models.Notification
	require.NoError(t, env.db.Where("recipient_id = ?", reporter.ID).Find(&notifs).Error)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotifReportResolved, notifs[0].Type)
}

func TestResolveReportFailedConsequenceIsNotAcknowledged(t *testing.T) {
	env := newReportHandlerEnv(t)
	moderator := env.addUser(t, "mod", models.RoleModerator)
	reporter := env.addUser(t, "reporter", models.RoleUser)
	subject := env.addUser(t, "subject", models.RoleUser)
	report := env.addReport(t, reporter.ID, subject.ID)

	// The subject disappears between filing and resolution, so the ban
	// cannot be applied and the resolution must not read as success.
	require.NoError(t, env.db.Delete(&models.User{}, subject.ID).Error)

	c, _ := resolveRequest(t, report.ID, moderator.ID, `{"outcome":"upheld","ban_user":true}`)
	err := env.handler.ResolveReport(c)
	require.Error(t, err)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
}
