package repositories

import (
	"errors"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateBlock is returned when the blocker has already blocked the target.
var ErrDuplicateBlock = errors.New("block edge already exists")

// BlockRepository defines the interface for block edge operations
type BlockRepository interface {
	CreateBlock(block *models.Block) error
	DeleteBlock(blockerID, blockedID uint) error
	ExistsBetween(a, b uint) (bool, error)
	GetBlockedIDs(blockerID uint) ([]uint, error)
}

// PostgresBlockRepository implements BlockRepository for PostgreSQL
type PostgresBlockRepository struct {
	db *gorm.DB
}

// NewPostgresBlockRepository creates a new PostgresBlockRepository
func NewPostgresBlockRepository(db *gorm.DB) *PostgresBlockRepository {
	return &PostgresBlockRepository{db: db}
}

func (r *PostgresBlockRepository) CreateBlock(block *models.Block) error {
	if err := r.db.Create(block).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateBlock
		}
		return err
	}
	return nil
}

func (r *PostgresBlockRepository) DeleteBlock(blockerID, blockedID uint) error {
	res := r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Delete(&models.Block{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExistsBetween reports whether a block exists in either direction.
func (r *PostgresBlockRepository) ExistsBetween(a, b uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresBlockRepository) GetBlockedIDs(blockerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Block{}).Where("blocker_id = ?", blockerID).Pluck("blocked_id", &ids).Error
	return ids, err
}
