package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Follow{}, &models.Block{}))
	return db
}

func TestCreateFollowDuplicatePair(t *testing.T) {
	repo := NewPostgresFollowRepository(newTestDB(t))

	require.NoError(t, repo.CreateFollow(&models.Follow{
		FollowerID: 1, FollowingID: 2, Status: models.FollowPending,
	}))

	err := repo.CreateFollow(&models.Follow{
		FollowerID: 1, FollowingID: 2, Status: models.FollowPending,
	})
	assert.ErrorIs(t, err, ErrDuplicateFollow)

	// The reverse direction is a distinct edge.
	require.NoError(t, repo.CreateFollow(&models.Follow{
		FollowerID: 2, FollowingID: 1, Status: models.FollowAccepted,
	}))
}

func TestIsAcceptedFollowingIgnoresPending(t *testing.T) {
	repo := NewPostgresFollowRepository(newTestDB(t))

	require.NoError(t, repo.CreateFollow(&models.Follow{
		FollowerID: 1, FollowingID: 2, Status: models.FollowPending,
	}))

	ok, err := repo.IsAcceptedFollowing(1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.UpdateFollowStatus(1, 2, models.FollowAccepted))
	ok, err = repo.IsAcceptedFollowing(1, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteAllBetween(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFollowRepository(db)

	require.NoError(t, repo.CreateFollow(&models.Follow{FollowerID: 1, FollowingID: 2, Status: models.FollowAccepted}))
	require.NoError(t, repo.CreateFollow(&models.Follow{FollowerID: 2, FollowingID: 1, Status: models.FollowPending}))
	require.NoError(t, repo.CreateFollow(&models.Follow{FollowerID: 1, FollowingID: 3, Status: models.FollowAccepted}))

	require.NoError(t, repo.DeleteAllBetween(1, 2))

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "unrelated edge survives")

	_, err := repo.FindFollow(1, 3)
	assert.NoError(t, err)
}

func TestBlockExistsBetweenEitherDirection(t *testing.T) {
	repo := NewPostgresBlockRepository(newTestDB(t))

	require.NoError(t, repo.CreateBlock(&models.Block{BlockerID: 1, BlockedID: 2}))

	ok, err := repo.ExistsBetween(1, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.ExistsBetween(2, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.ExistsBetween(1, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	err = repo.CreateBlock(&models.Block{BlockerID: 1, BlockedID: 2})
	assert.ErrorIs(t, err, ErrDuplicateBlock)
}
