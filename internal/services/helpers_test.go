package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/EnzokuChakra/social-land-sub003/internal/events"
	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
)

type testEnv struct {
	db            *gorm.DB
	userRepo      repositories.UserRepository
	followRepo    repositories.FollowRepository
	blockRepo     repositories.BlockRepository
	notifRepo     repositories.NotificationRepository
	broker        *events.Broker
	visibility    *VisibilityService
	notifier      *NotifierService
	relationships *RelationshipService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Block{},
		&models.Notification{},
	))

	logger := zap.NewNop()
	userRepo := repositories.NewPostgresUserRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	blockRepo := repositories.NewPostgresBlockRepository(db)
	notifRepo := repositories.NewPostgresNotificationRepository(db)
	broker := events.NewBroker(logger)
	t.Cleanup(broker.Shutdown)

	visibility := NewVisibilityService(userRepo, followRepo, blockRepo)
	notifier := NewNotifierService(userRepo, notifRepo, blockRepo, visibility, broker, logger)
	relationships := NewRelationshipService(userRepo, followRepo, blockRepo, notifier, logger)

	return &testEnv{
		db:            db,
		userRepo:      userRepo,
		followRepo:    followRepo,
		blockRepo:     blockRepo,
		notifRepo:     notifRepo,
		broker:        broker,
		visibility:    visibility,
		notifier:      notifier,
		relationships: relationships,
	}
}

func (e *testEnv) createUser(t *testing.T, username string, private bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hashed",
		Status:    models.StatusNormal,
		Role:      models.RoleUser,
		IsPrivate: private,
	}
	require.NoError(t, e.userRepo.CreateUser(user))
	return user
}

func (e *testEnv) notificationsFor(t *testing.T, recipientID uint, notifType string) []models.Notification {
	t.Helper()
	var notifications []models.Notification
	q := e.db.Where("recipient_id = ?", recipientID)
	if notifType != "" {
		q = q.Where("type = ?", notifType)
	}
	require.NoError(t, q.Find(&notifications).Error)
	return notifications
}
