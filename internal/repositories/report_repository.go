package repositories

import (
	"time"

	"github.com/EnzokuChakra/social-land-sub003/internal/models"
	"gorm.io/gorm"
)

// ReportRepository defines the interface for moderation report operations
type ReportRepository interface {
	CreateReport(report *models.Report) error
	GetReportByID(id uint) (*models.Report, error)
	ListOpenReports() ([]models.Report, error)
	ResolveReport(id, resolverID uint, outcome string) error
}

type postgresReportRepository struct {
	db *gorm.DB
}

func NewPostgresReportRepository(db *gorm.DB) ReportRepository {
	return &postgresReportRepository{db: db}
}

func (r *postgresReportRepository) CreateReport(report *models.Report) error {
	return r.db.Create(report).Error
}

func (r *postgresReportRepository) GetReportByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *postgresReportRepository) ListOpenReports() ([]models.Report, error) {
	var reports []models.Report
	err := r.db.Where("outcome = ?", models.ReportOpen).Order("created_at ASC").Find(&reports).Error
	return reports, err
}

func (r *postgresReportRepository) ResolveReport(id, resolverID uint, outcome string) error {
	res := r.db.Model(&models.Report{}).
		Where("id = ? AND outcome = ?", id, models.ReportOpen).
		Updates(map[string]any{
			"outcome":     outcome,
			"resolved_by": resolverID,
			"resolved_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
