package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EnzokuChakra/social-land-sub003/internal/events"
	"github.com/EnzokuChakra/social-land-sub003/internal/models"
)

func TestCommentNotificationSuppression(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	// Commenting on your own post makes no noise.
	env.notifier.CommentCreated(bob.ID, bob.ID, "post-1", 1)
	assert.Empty(t, env.notificationsFor(t, bob.ID, models.NotifComment))

	// A block in either direction suppresses.
	require.NoError(t, env.relationships.Block(bob.ID, alice.ID))
	env.notifier.CommentCreated(alice.ID, bob.ID, "post-1", 2)
	assert.Empty(t, env.notificationsFor(t, bob.ID, models.NotifComment))

	require.NoError(t, env.relationships.Unblock(bob.ID, alice.ID))
	env.notifier.CommentCreated(alice.ID, bob.ID, "post-1", 3)
	assert.Len(t, env.notificationsFor(t, bob.ID, models.NotifComment), 1)
}

func TestLikeNotificationDedup(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	env.notifier.LikeCreated(alice.ID, bob.ID, "post-1")
	env.notifier.LikeCreated(alice.ID, bob.ID, "post-1")

	likes := env.notificationsFor(t, bob.ID, models.NotifLike)
	require.Len(t, likes, 1, "repeat like collapses into the unread row")

	// A like on a different post is not collapsed.
	env.notifier.LikeCreated(alice.ID, bob.ID, "post-2")
	assert.Len(t, env.notificationsFor(t, bob.ID, models.NotifLike), 2)

	// Once the row is read, the next like starts a fresh one.
	require.NoError(t, env.notifRepo.MarkAllAsRead(bob.ID))
	env.notifier.LikeCreated(alice.ID, bob.ID, "post-1")
	assert.Len(t, env.notificationsFor(t, bob.ID, models.NotifLike), 3)
}

func TestLikeDedupRefreshesTimestamp(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	env.notifier.LikeCreated(alice.ID, bob.ID, "post-1")
	first := env.notificationsFor(t, bob.ID, models.NotifLike)
	require.Len(t, first, 1)

	// Backdate the row, then re-like; the same row must carry a newer
	// timestamp instead of a sibling appearing.
	stale := time.Now().Add(-time.Hour)
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("id = ?", first[0].ID).
		Update("created_at", stale).Error)

	env.notifier.LikeCreated(alice.ID, bob.ID, "post-1")
	after := env.notificationsFor(t, bob.ID, models.NotifLike)
	require.Len(t, after, 1)
	assert.True(t, after[0].CreatedAt.After(stale))
}

func TestMentionNotifications(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	carol := env.createUser(t, "carol", true)

	env.notifier.MentionsDetected(alice.ID, "hey @bob and again @bob, also @ghost and @alice", "post-1", "post")

	// bob notified once despite the double mention; the unknown handle
	// and the self-mention are ignored.
	assert.Len(t, env.notificationsFor(t, bob.ID, models.NotifMention), 1)
	assert.Empty(t, env.notificationsFor(t, alice.ID, models.NotifMention))

	// carol is private and alice does not follow her, so the mention is
	// silently dropped.
	env.notifier.MentionsDetected(alice.ID, "cc @carol", "post-1", "post")
	assert.Empty(t, env.notificationsFor(t, carol.ID, models.NotifMention))

	// Once carol accepts alice, mentions go through.
	_, err := env.relationships.Request(alice.ID, carol.ID)
	require.NoError(t, err)
	require.NoError(t, env.relationships.Approve(carol.ID, alice.ID))
	env.notifier.MentionsDetected(alice.ID, "cc @carol", "post-1", "post")
	assert.Len(t, env.notificationsFor(t, carol.ID, models.NotifMention), 1)
}

func TestDeliverPersistsBeforePublish(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	sub := env.broker.Subscribe(bob.ID)
	defer sub.Cancel()

	env.notifier.CommentCreated(alice.ID, bob.ID, "post-1", 1)

	select {
	case ev := <-sub.C():
		require.Equal(t, events.TypeNotification, ev.Type)
		pushed, ok := ev.Payload.(*models.Notification)
		require.True(t, ok)
		assert.NotZero(t, pushed.ID, "pushed record already has a database identity")

		stored := env.notificationsFor(t, bob.ID, models.NotifComment)
		require.Len(t, stored, 1)
		assert.Equal(t, stored[0].ID, pushed.ID)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestReportResolvedNotification(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", false)

	env.notifier.ReportResolved(alice.ID, 7, models.ReportUpheld)

	notifs := env.notificationsFor(t, alice.ID, models.NotifReportResolved)
	require.Len(t, notifs, 1)
	assert.Equal(t, "7", notifs[0].TargetID)
}
