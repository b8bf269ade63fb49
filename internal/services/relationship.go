package services

import (
	"errors"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RelationshipService owns the follow edge state machine and block
// orchestration. Transitions: none -> pending -> accepted for private
// targets, none -> accepted directly for public ones. The unique pair
// index on follows is the only concurrency guard; a losing racer gets
// ErrConflict, never a second edge.
type RelationshipService struct {
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
	blockRepo  repositories.BlockRepository
	notifier   *NotifierService
	logger     *zap.Logger
}

// NewRelationshipService creates a new RelationshipService
func NewRelationshipService(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	blockRepo repositories.BlockRepository,
	notifier *NotifierService,
	logger *zap.Logger,
) *RelationshipService {
	return &RelationshipService{
		userRepo:   userRepo,
		followRepo: followRepo,
		blockRepo:  blockRepo,
		notifier:   notifier,
		logger:     logger,
	}
}

// Request creates a follow edge from follower to following. Public
// targets are auto-accepted; private targets get a pending edge and a
// follow request notification. A duplicate request fails with ErrConflict
// rather than succeeding idempotently, so callers see "already requested".
func (s *RelationshipService) Request(followerID, followingID uint) (*models.Follow, error) {
	if followerID == followingID {
		return nil, ErrFollowSelf
	}

	target, err := s.userRepo.GetUserByID(followingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	blocked, err := s.blockRepo.ExistsBetween(followerID, followingID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}

	status := models.FollowAccepted
	if target.IsPrivate {
		status = models.FollowPending
	}

	follow := &models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		Status:      status,
	}
	if err := s.followRepo.CreateFollow(follow); err != nil {
		if errors.Is(err, repositories.ErrDuplicateFollow) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if status == models.FollowAccepted {
		s.bumpCounts(followerID, followingID)
		s.notifier.FollowAccepted(followingID, followerID)
	} else {
		s.notifier.FollowRequested(followerID, followingID)
	}
	return follow, nil
}

// Approve transitions a pending edge to accepted. Only the followed
// account may approve.
func (s *RelationshipService) Approve(followingID, followerID uint) error {
	follow, err := s.pendingEdge(followerID, followingID)
	if err != nil {
		return err
	}

	if err := s.followRepo.UpdateFollowStatus(follow.FollowerID, follow.FollowingID, models.FollowAccepted); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.bumpCounts(followerID, followingID)
	s.notifier.FollowAccepted(followingID, followerID)
	return nil
}

// Decline removes a pending edge. Only the followed account may decline;
// no notification is produced.
func (s *RelationshipService) Decline(followingID, followerID uint) error {
	if _, err := s.pendingEdge(followerID, followingID); err != nil {
		return err
	}
	return s.deleteEdge(followerID, followingID)
}

// Cancel lets the requester withdraw a still-pending request.
func (s *RelationshipService) Cancel(followerID, followingID uint) error {
	if _, err := s.pendingEdge(followerID, followingID); err != nil {
		return err
	}
	return s.deleteEdge(followerID, followingID)
}

// Unfollow removes an accepted edge.
func (s *RelationshipService) Unfollow(followerID, followingID uint) error {
	follow, err := s.followRepo.FindFollow(followerID, followingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if follow.Status != models.FollowAccepted {
		return ErrNotFound
	}

	if err := s.deleteEdge(followerID, followingID); err != nil {
		return err
	}
	s.dropCounts(followerID, followingID)
	return nil
}

// Block creates a block edge and cascade-deletes any follow edge between
// the two parties in either direction, so no stale pending or accepted
// edge survives the block.
func (s *RelationshipService) Block(blockerID, blockedID uint) error {
	if blockerID == blockedID {
		return ErrBlockSelf
	}
	if _, err := s.userRepo.GetUserByID(blockedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	block := &models.Block{BlockerID: blockerID, BlockedID: blockedID}
	if err := s.blockRepo.CreateBlock(block); err != nil {
		if errors.Is(err, repositories.ErrDuplicateBlock) {
			return ErrConflict
		}
		return err
	}

	// Adjust counters for accepted edges before the cascade removes them.
	if f, err := s.followRepo.FindFollow(blockerID, blockedID); err == nil && f.Status == models.FollowAccepted {
		s.dropCounts(blockerID, blockedID)
	}
	if f, err := s.followRepo.FindFollow(blockedID, blockerID); err == nil && f.Status == models.FollowAccepted {
		s.dropCounts(blockedID, blockerID)
	}

	if err := s.followRepo.DeleteAllBetween(blockerID, blockedID); err != nil {
		// The block itself is in place; log the cascade failure rather
		// than failing the caller with a half-applied state.
		s.logger.Error("block cascade delete failed",
			zap.Uint("blocker_id", blockerID),
			zap.Uint("blocked_id", blockedID),
			zap.Error(err))
	}
	return nil
}

// Unblock removes a block edge. Follow edges are not restored.
func (s *RelationshipService) Unblock(blockerID, blockedID uint) error {
	if err := s.blockRepo.DeleteBlock(blockerID, blockedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// PendingRequests lists open follow requests addressed to the account.
func (s *RelationshipService) PendingRequests(followingID uint) ([]models.Follow, int64, error) {
	follows, err := s.followRepo.ListPendingRequests(followingID)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.followRepo.CountPendingRequests(followingID)
	if err != nil {
		return nil, 0, err
	}
	return follows, count, nil
}

func (s *RelationshipService) pendingEdge(followerID, followingID uint) (*models.Follow, error) {
	follow, err := s.followRepo.FindFollow(followerID, followingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if follow.Status != models.FollowPending {
		return nil, ErrNotFound
	}
	return follow, nil
}

func (s *RelationshipService) deleteEdge(followerID, followingID uint) error {
	if err := s.followRepo.DeleteFollow(followerID, followingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *RelationshipService) bumpCounts(followerID, followingID uint) {
	if err := s.userRepo.IncrementFollowingCount(followerID); err != nil {
		s.logger.Warn("increment following count", zap.Uint("user_id", followerID), zap.Error(err))
	}
	if err := s.userRepo.IncrementFollowersCount(followingID); err != nil {
		s.logger.Warn("increment followers count", zap.Uint("user_id", followingID), zap.Error(err))
	}
}

func (s *RelationshipService) dropCounts(followerID, followingID uint) {
	if err := s.userRepo.DecrementFollowingCount(followerID); err != nil {
		s.logger.Warn("decrement following count", zap.Uint("user_id", followerID), zap.Error(err))
	}
	if err := s.userRepo.DecrementFollowersCount(followingID); err != nil {
		s.logger.Warn("decrement followers count", zap.Uint("user_id", followingID), zap.Error(err))
	}
}
