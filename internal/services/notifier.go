package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/EnzokuChakra/social-land-sub003/internal/events"
	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mentionPattern matches @username references in comment text. Username
// charset matches the signup validation rules.
var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9]{3,30})`)

// likeDedupWindow bounds how far back a still-unread like notification
// from the same actor for the same target is collapsed into instead of
// creating a new row. Keeps rapid like/unlike toggles from multiplying
// notifications.
const likeDedupWindow = 24 * time.Hour

// NotifierService maps domain events to persisted notification records
// and hands each one to the fan-out broker after it is durably stored.
// Generation is best-effort relative to the triggering action: a failed
// notification write is logged, never surfaced to the action's caller.
type NotifierService struct {
	userRepo   repositories.UserRepository
	notifRepo  repositories.NotificationRepository
	blockRepo  repositories.BlockRepository
	visibility *VisibilityService
	broker     *events.Broker
	logger     *zap.Logger
}

// NewNotifierService creates a new NotifierService
func NewNotifierService(
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
	blockRepo repositories.BlockRepository,
	visibility *VisibilityService,
	broker *events.Broker,
	logger *zap.Logger,
) *NotifierService {
	return &NotifierService{
		userRepo:   userRepo,
		notifRepo:  notifRepo,
		blockRepo:  blockRepo,
		visibility: visibility,
		broker:     broker,
		logger:     logger,
	}
}

// FollowRequested notifies the followed account about a pending request.
func (s *NotifierService) FollowRequested(followerID, followingID uint) {
	actor := s.actorName(followerID)
	s.deliver(&models.Notification{
		Type:        models.NotifFollowRequest,
		ActorID:     followerID,
		RecipientID: followingID,
		TargetID:    fmt.Sprint(followerID),
		TargetType:  "user",
		Message:     actor + " requested to follow you",
	})
}

// FollowAccepted notifies the requester that the follow is in effect.
func (s *NotifierService) FollowAccepted(followingID, followerID uint) {
	actor := s.actorName(followingID)
	s.deliver(&models.Notification{
		Type:        models.NotifFollowAccept,
		ActorID:     followingID,
		RecipientID: followerID,
		TargetID:    fmt.Sprint(followingID),
		TargetType:  "user",
		Message:     actor + " accepted your follow request",
	})
}

// CommentCreated notifies the post owner. Suppressed when the commenter
// is the owner or a block exists between the two.
func (s *NotifierService) CommentCreated(actorID, ownerID uint, postID string, commentID uint) {
	if actorID == ownerID {
		return
	}
	if s.blockedBetween(actorID, ownerID) {
		return
	}
	actor := s.actorName(actorID)
	s.deliver(&models.Notification{
		Type:        models.NotifComment,
		ActorID:     actorID,
		RecipientID: ownerID,
		TargetID:    postID,
		TargetType:  "post",
		Message:     actor + " commented on your post",
	})
}

// LikeCreated notifies the content owner. Same suppression rules as
// comments, plus de-duplication: a still-unread like notification from
// the same actor for the same post within the window gets its timestamp
// refreshed instead of a second row.
func (s *NotifierService) LikeCreated(actorID, ownerID uint, postID string) {
	if actorID == ownerID {
		return
	}
	if s.blockedBetween(actorID, ownerID) {
		return
	}

	since := time.Now().Add(-likeDedupWindow)
	existing, err := s.notifRepo.FindUnreadByActorAndTarget(models.NotifLike, actorID, ownerID, postID, since)
	if err == nil && existing != nil {
		if err := s.notifRepo.RefreshTimestamp(existing.ID); err != nil {
			s.logger.Warn("refresh like notification", zap.Uint("notification_id", existing.ID), zap.Error(err))
		}
		return
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("like notification dedup lookup", zap.Error(err))
	}

	actor := s.actorName(actorID)
	s.deliver(&models.Notification{
		Type:        models.NotifLike,
		ActorID:     actorID,
		RecipientID: ownerID,
		TargetID:    postID,
		TargetType:  "post",
		Message:     actor + " liked your post",
	})
}

// MentionsDetected extracts @username references from the text and
// notifies each mentioned account the author is allowed to see.
func (s *NotifierService) MentionsDetected(actorID uint, text, targetID, targetType string) {
	actor := s.actorName(actorID)
	seen := make(map[uint]struct{})
	for _, match := range mentionPattern.FindAllStringSubmatch(text, -1) {
		mentioned, err := s.userRepo.GetUserByUsername(match[1])
		if err != nil {
			continue
		}
		if mentioned.ID == actorID {
			continue
		}
		if _, dup := seen[mentioned.ID]; dup {
			continue
		}
		seen[mentioned.ID] = struct{}{}

		verdict, err := s.visibility.CanViewUser(actorID, mentioned)
		if err != nil || verdict != Allow {
			continue
		}
		s.deliver(&models.Notification{
			Type:        models.NotifMention,
			ActorID:     actorID,
			RecipientID: mentioned.ID,
			TargetID:    targetID,
			TargetType:  targetType,
			Message:     actor + " mentioned you",
		})
	}
}

// ReportResolved notifies the reporter about the moderation outcome.
func (s *NotifierService) ReportResolved(reporterID, reportID uint, outcome string) {
	s.deliver(&models.Notification{
		Type:        models.NotifReportResolved,
		RecipientID: reporterID,
		TargetID:    fmt.Sprint(reportID),
		TargetType:  "report",
		Message:     "Your report was " + outcome,
	})
}

// deliver persists the record and, only on success, hands it to the
// broker. A persistence failure therefore never produces a pushed but
// unrecorded notification.
func (s *NotifierService) deliver(notification *models.Notification) {
	if err := s.notifRepo.CreateNotification(notification); err != nil {
		s.logger.Error("persist notification",
			zap.String("type", notification.Type),
			zap.Uint("recipient_id", notification.RecipientID),
			zap.Error(err))
		return
	}
	s.broker.Publish(notification.RecipientID, events.Event{
		Type:    events.TypeNotification,
		Payload: notification,
		Time:    time.Now(),
	})
}

func (s *NotifierService) blockedBetween(a, b uint) bool {
	blocked, err := s.blockRepo.ExistsBetween(a, b)
	if err != nil {
		s.logger.Warn("block lookup for notification suppression", zap.Error(err))
		return false
	}
	return blocked
}

func (s *NotifierService) actorName(userID uint) string {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return "Someone"
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Username
}
