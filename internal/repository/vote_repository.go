package repository

import (
	"github.com/raidroad/roadwatch/internal/models"
	"gorm.io/gorm"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

func (r *VoteRepository) HasVoted(reportID uint64, voter string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).
		Where("report_id = ? AND voter_username = ?", reportID, voter).
		Count(&count).Error
	return count > 0, err
}

// Create inserts the vote. The composite primary key makes this an atomic
// check-and-insert: a concurrent duplicate surfaces as gorm.ErrDuplicatedKey
// (TranslateError is enabled on the connection).
func (r *VoteRepository) Create(vote *models.Vote) error {
	return r.db.Create(vote).Error
}

func (r *VoteRepository) CountByType(reportID uint64, voteType string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).
		Where("report_id = ? AND vote_type = ?", reportID, voteType).
		Count(&count).Error
	return count, err
}

// DeleteForReport is the cascade helper used when a report is removed.
func (r *VoteRepository) DeleteForReport(reportID uint64) error {
	return r.db.Where("report_id = ?", reportID).Delete(&models.Vote{}).Error
}
