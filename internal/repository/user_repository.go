package repository

import (
	"errors"

	"github.com/raidroad/roadwatch/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureUser inserts the user with the default trust level if absent.
// Safe to call on every login.
func (r *UserRepository) EnsureUser(username string) error {
	user := models.User{
		Username:   username,
		TrustLevel: models.TrustLevelMin,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// CountLikesReceived counts "like" votes across all reports authored by username.
func (r *UserRepository) CountLikesReceived(username string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).
		Joins("JOIN reports ON reports.id = votes.report_id").
		Where("reports.username = ? AND votes.vote_type = ?", username, models.VoteTypeLike).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) UpdateTrustLevel(username string, level int) error {
	return r.db.Model(&models.User{}).
		Where("username = ?", username).
		Update("trust_level", level).Error
}

// LeaderboardEntry is one row of the received-likes leaderboard.
type LeaderboardEntry struct {
	Username   string `json:"username"`
	TrustLevel int    `json:"trust_level"`
	TotalLikes int64  `json:"total_likes"`
}

// Leaderboard returns the top reporters ordered by received likes.
func (r *UserRepository) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := r.db.Model(&models.Vote{}).
		Select("reports.username, users.trust_level, COUNT(*) AS total_likes").
		Joins("JOIN reports ON reports.id = votes.report_id").
		Joins("JOIN users ON users.username = reports.username").
		Where("votes.vote_type = ?", models.VoteTypeLike).
		Group("reports.username, users.trust_level").
		Order("total_likes DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
