package repositories

import (
	"errors"
	"fmt"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateFollow is returned when an edge already exists for the
// ordered pair. The unique index is the sole concurrency guard: two
// concurrent inserts for the same pair yield exactly one winner.
var ErrDuplicateFollow = errors.New("follow edge already exists")

// FollowRepository defines the interface for follow edge operations
type FollowRepository interface {
	CreateFollow(follow *models.Follow) error
	FindFollow(followerID, followingID uint) (*models.Follow, error)
	UpdateFollowStatus(followerID, followingID uint, status string) error
	DeleteFollow(followerID, followingID uint) error
	DeleteAllBetween(a, b uint) error
	IsAcceptedFollowing(followerID, followingID uint) (bool, error)
	GetFollowers(userID uint) ([]models.User, error)
	GetFollowing(userID uint) ([]models.User, error)
	GetFollowingIDs(userID uint) ([]uint, error)
	ListPendingRequests(followingID uint) ([]models.Follow, error)
	CountPendingRequests(followingID uint) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(follow *models.Follow) error {
	if err := r.db.Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateFollow
		}
		return err
	}
	return nil
}

func (r *PostgresFollowRepository) FindFollow(followerID, followingID uint) (*models.Follow, error) {
	var follow models.Follow
	err := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&follow).Error
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *PostgresFollowRepository) UpdateFollowStatus(followerID, followingID uint, status string) error {
	res := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresFollowRepository) DeleteFollow(followerID, followingID uint) error {
	res := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("follow relationship not found: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteAllBetween removes any follow edge between the two accounts in
// either direction. Used by the block cascade.
func (r *PostgresFollowRepository) DeleteAllBetween(a, b uint) error {
	return r.db.
		Where("(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)", a, b, b, a).
		Delete(&models.Follow{}).Error
}

func (r *PostgresFollowRepository) IsAcceptedFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ? AND status = ?", followerID, followingID, models.FollowAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Table("follows").Select("follower_id").
			Where("following_id = ? AND status = ?", userID, models.FollowAccepted),
	).Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowing(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Table("follows").Select("following_id").
			Where("follower_id = ? AND status = ?", userID, models.FollowAccepted),
	).Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND status = ?", userID, models.FollowAccepted).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) ListPendingRequests(followingID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.Where("following_id = ? AND status = ?", followingID, models.FollowPending).
		Order("created_at DESC").
		Find(&follows).Error
	return follows, err
}

func (r *PostgresFollowRepository) CountPendingRequests(followingID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("following_id = ? AND status = ?", followingID, models.FollowPending).
		Count(&count).Error
	return count, err
}
