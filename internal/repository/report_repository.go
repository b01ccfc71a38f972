package repository

import (
	"errors"
	"time"

	"github.com/raidroad/roadwatch/internal/models"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(report *models.Report) error {
	return r.db.Create(report).Error
}

func (r *ReportRepository) GetByID(id uint64) (*models.Report, error) {
	var report models.Report
	err := r.db.First(&report, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &report, nil
}

// DeleteWithVotes removes the report and every vote that references it in a
// single transaction. A report and its votes are never deleted separately.
func (r *ReportRepository) DeleteWithVotes(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Report{}, id).Error
	})
}

// ShiftTimestamp moves the report's visibility anchor backward by delta,
// aging it for every downstream age-based filter at once.
func (r *ReportRepository) ShiftTimestamp(id uint64, delta time.Duration) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, id).Error; err != nil {
			return err
		}
		return tx.Model(&models.Report{}).
			Where("id = ?", id).
			Update("timestamp", report.Timestamp.Add(-delta)).Error
	})
}

// ReportListing is a report row joined with its author's trust level and
// per-type vote counts, as produced by ListLiveSince.
type ReportListing struct {
	ID         uint64    `json:"id"`
	Username   string    `json:"username"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Timestamp  time.Time `json:"timestamp"`
	TrustLevel int       `json:"trust_level"`
	Likes      int64     `json:"likes"`
	GoneCount  int64     `json:"gone_count"`
}

// ListLiveSince returns reports with timestamp >= cutoff, newest first.
// The boundary is inclusive: a report exactly at the cutoff is still live.
// Authors missing from the users table fall back to trust level 1.
func (r *ReportRepository) ListLiveSince(cutoff time.Time) ([]ReportListing, error) {
	var rows []ReportListing
	err := r.db.Model(&models.Report{}).
		Select(`reports.id, reports.username, reports.lat, reports.lon, reports.timestamp,
			COALESCE(users.trust_level, 1) AS trust_level,
			COALESCE(SUM(CASE WHEN votes.vote_type = ? THEN 1 ELSE 0 END), 0) AS likes,
			COALESCE(SUM(CASE WHEN votes.vote_type = ? THEN 1 ELSE 0 END), 0) AS gone_count`,
			models.VoteTypeLike, models.VoteTypeGone).
		Joins("LEFT JOIN users ON users.username = reports.username").
		Joins("LEFT JOIN votes ON votes.report_id = reports.id").
		Where("reports.timestamp >= ?", cutoff).
		Group("reports.id, reports.username, reports.lat, reports.lon, reports.timestamp, users.trust_level").
		Order("reports.timestamp DESC").
		Scan(&rows).Error

	return rows, err
}
