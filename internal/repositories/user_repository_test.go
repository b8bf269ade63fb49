package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
)

func newUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func seedUser(t *testing.T, repo UserRepository, username, status string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Status:   status,
		Role:     models.RoleUser,
	}
	require.NoError(t, repo.CreateUser(user))
	return user
}

func TestFilterNormalStatusDropsBannedAuthors(t *testing.T) {
	repo := NewPostgresUserRepository(newUserTestDB(t))

	normal := seedUser(t, repo, "normal", models.StatusNormal)
	banned := seedUser(t, repo, "banned", models.StatusBanned)
	suspended := seedUser(t, repo, "suspended", models.StatusSuspended)

	visible, err := repo.FilterNormalStatus([]uint{normal.ID, banned.ID, suspended.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{normal.ID}, visible)

	// Unknown ids simply fall out.
	visible, err = repo.FilterNormalStatus([]uint{banned.ID, 9999})
	require.NoError(t, err)
	assert.Empty(t, visible)

	visible, err = repo.FilterNormalStatus(nil)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestFilterNormalStatusAfterBan(t *testing.T) {
	repo := NewPostgresUserRepository(newUserTestDB(t))

	author := seedUser(t, repo, "author", models.StatusNormal)

	visible, err := repo.FilterNormalStatus([]uint{author.ID})
	require.NoError(t, err)
	require.Len(t, visible, 1)

	// A ban after the follow was accepted must remove the author from
	// every aggregate read surface on the next request.
	author.Status = models.StatusBanned
	require.NoError(t, repo.UpdateUser(author))

	visible, err = repo.FilterNormalStatus([]uint{author.ID})
	require.NoError(t, err)
	assert.Empty(t, visible)
}
