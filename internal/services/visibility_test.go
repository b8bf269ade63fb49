package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
)

func TestCanViewPublicAccount(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer", false)
	subject := env.createUser(t, "subject", false)

	verdict, err := env.visibility.CanView(viewer.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, Allow, verdict)
}

func TestCanViewSelf(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "loner", true)

	verdict, err := env.visibility.CanView(user.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, Allow, verdict)
}

func TestCanViewPrivateAccount(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer", false)
	subject := env.createUser(t, "subject", true)

	verdict, err := env.visibility.CanView(viewer.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, DenyPrivate, verdict, "no follow edge")

	// Pending edge does not grant access.
	require.NoError(t, env.followRepo.CreateFollow(&models.Follow{
		FollowerID: viewer.ID, FollowingID: subject.ID, Status: models.FollowPending,
	}))
	verdict, err = env.visibility.CanView(viewer.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, DenyPrivate, verdict, "pending edge")

	// Accepted edge does.
	require.NoError(t, env.followRepo.UpdateFollowStatus(viewer.ID, subject.ID, models.FollowAccepted))
	verdict, err = env.visibility.CanView(viewer.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, Allow, verdict, "accepted edge")
}

func TestCanViewBlockDominatesFollowState(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer", false)
	subject := env.createUser(t, "subject", true)

	require.NoError(t, env.followRepo.CreateFollow(&models.Follow{
		FollowerID: viewer.ID, FollowingID: subject.ID, Status: models.FollowAccepted,
	}))
	require.NoError(t, env.blockRepo.CreateBlock(&models.Block{
		BlockerID: subject.ID, BlockedID: viewer.ID,
	}))

	// Block applies in both directions regardless of who created it.
	verdict, err := env.visibility.CanView(viewer.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, DenyBlocked, verdict)

	verdict, err = env.visibility.CanView(subject.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, DenyBlocked, verdict)
}

func TestCanViewBannedAccount(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer", false)
	banned := env.createUser(t, "banned", false)
	banned.Status = models.StatusBanned
	require.NoError(t, env.userRepo.UpdateUser(banned))

	verdict, err := env.visibility.CanView(viewer.ID, banned.ID)
	require.NoError(t, err)
	assert.Equal(t, DenyBanned, verdict)

	// Moderators still see the account.
	mod := env.createUser(t, "mod", false)
	mod.Role = models.RoleModerator
	require.NoError(t, env.userRepo.UpdateUser(mod))

	verdict, err = env.visibility.CanView(mod.ID, banned.ID)
	require.NoError(t, err)
	assert.Equal(t, Allow, verdict)
}

func TestCanViewUnknownSubject(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.createUser(t, "viewer", false)

	_, err := env.visibility.CanView(viewer.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
