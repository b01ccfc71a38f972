package service

import (
	"github.com/raidroad/roadwatch/internal/models"
	"github.com/raidroad/roadwatch/internal/repository"
	"github.com/raidroad/roadwatch/pkg/logger"
	"go.uber.org/zap"
)

const (
	defaultLeaderboardLimit = 20
	maxLeaderboardLimit     = 100
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Profile returns the user's stored record. A missing row degrades to the
// default trust level rather than failing the authenticated caller.
func (s *UserService) Profile(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to load user profile",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	if user == nil {
		return &models.User{
			Username:   username,
			TrustLevel: models.TrustLevelMin,
		}, nil
	}

	return user, nil
}

// Leaderboard returns the top reporters by received likes.
func (s *UserService) Leaderboard(limit int) ([]repository.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	entries, err := s.userRepo.Leaderboard(limit)
	if err != nil {
		logger.Log.Error("Failed to build leaderboard",
			zap.Error(err),
		)
		return nil, err
	}

	return entries, nil
}
