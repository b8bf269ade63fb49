package services

import (
	"errors"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"github.com/EnzokuChakra/social-land-sub003/internal/repositories"
	"gorm.io/gorm"
)

// Verdict is the outcome of a visibility check.
type Verdict int

const (
	Allow Verdict = iota
	DenyPrivate
	DenyBlocked
	DenyBanned
)

func (v Verdict) String() string {
	switch v {
	case Allow:
		return "allow"
	case DenyPrivate:
		return "deny_private"
	case DenyBlocked:
		return "deny_blocked"
	case DenyBanned:
		return "deny_banned"
	}
	return "unknown"
}

// VisibilityService decides whether a viewer may see a subject's
// protected content. It holds no state of its own and is safe for
// concurrent use; every read surface that returns another account's
// posts, follower lists, or profile fields goes through CanView.
type VisibilityService struct {
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
	blockRepo  repositories.BlockRepository
}

// NewVisibilityService creates a new VisibilityService
func NewVisibilityService(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, blockRepo repositories.BlockRepository) *VisibilityService {
	return &VisibilityService{userRepo: userRepo, followRepo: followRepo, blockRepo: blockRepo}
}

// CanView evaluates visibility of subject for viewer. Checks run in a
// fixed order and the first match wins: banned subject, block in either
// direction, self, public, accepted follow on a private account.
func (s *VisibilityService) CanView(viewerID, subjectID uint) (Verdict, error) {
	subject, err := s.userRepo.GetUserByID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DenyPrivate, ErrNotFound
		}
		return DenyPrivate, err
	}

	if subject.Status != models.StatusNormal {
		if !s.isModerator(viewerID) {
			return DenyBanned, nil
		}
	}

	// The block check dominates privacy and follow state.
	blocked, err := s.blockRepo.ExistsBetween(viewerID, subjectID)
	if err != nil {
		return DenyPrivate, err
	}
	if blocked {
		return DenyBlocked, nil
	}

	if viewerID == subjectID {
		return Allow, nil
	}

	if !subject.IsPrivate {
		return Allow, nil
	}

	accepted, err := s.followRepo.IsAcceptedFollowing(viewerID, subjectID)
	if err != nil {
		return DenyPrivate, err
	}
	if accepted {
		return Allow, nil
	}
	return DenyPrivate, nil
}

// CanViewUser is CanView for callers that already loaded the subject row.
func (s *VisibilityService) CanViewUser(viewerID uint, subject *models.User) (Verdict, error) {
	if subject.Status != models.StatusNormal && !s.isModerator(viewerID) {
		return DenyBanned, nil
	}

	blocked, err := s.blockRepo.ExistsBetween(viewerID, subject.ID)
	if err != nil {
		return DenyPrivate, err
	}
	if blocked {
		return DenyBlocked, nil
	}

	if viewerID == subject.ID || !subject.IsPrivate {
		return Allow, nil
	}

	accepted, err := s.followRepo.IsAcceptedFollowing(viewerID, subject.ID)
	if err != nil {
		return DenyPrivate, err
	}
	if accepted {
		return Allow, nil
	}
	return DenyPrivate, nil
}

func (s *VisibilityService) isModerator(viewerID uint) bool {
	if viewerID == 0 {
		return false
	}
	viewer, err := s.userRepo.GetUserByID(viewerID)
	if err != nil {
		return false
	}
	return viewer.Role == models.RoleModerator || viewer.Role == models.RoleAdmin
}
