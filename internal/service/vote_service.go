package service

import (
	"errors"
	"time"

	"github.com/raidroad/roadwatch/internal/journal"
	"github.com/raidroad/roadwatch/internal/models"
	"github.com/raidroad/roadwatch/internal/repository"
	"github.com/raidroad/roadwatch/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrSelfVote        = errors.New("cannot vote on your own report")
	ErrDuplicateVote   = errors.New("already voted")
	ErrInvalidVoteType = errors.New("invalid vote type")
)

// VoteService validates and records votes, then applies their side effects:
// a "like" recomputes the author's trust level, a "gone" shifts the report's
// timestamp backward so it ages out of the listing sooner.
type VoteService struct {
	voteRepo      *repository.VoteRepository
	reportRepo    *repository.ReportRepository
	userRepo      *repository.UserRepository
	reportService *ReportService
	gonePenalty   time.Duration

	// Inclusive like-count lower bounds for trust levels 2..5.
	trustThresholds [4]int
}

func NewVoteService(
	voteRepo *repository.VoteRepository,
	reportRepo *repository.ReportRepository,
	userRepo *repository.UserRepository,
	reportService *ReportService,
	gonePenalty time.Duration,
	trustThresholds [4]int,
) *VoteService {
	return &VoteService{
		voteRepo:        voteRepo,
		reportRepo:      reportRepo,
		userRepo:        userRepo,
		reportService:   reportService,
		gonePenalty:     gonePenalty,
		trustThresholds: trustThresholds,
	}
}

// Cast records voter's vote on a report. All validation happens before any
// write; a rejected vote leaves the ledger untouched.
func (s *VoteService) Cast(reportID uint64, voter, voteType string) error {
	// 1. Vote type check
	if !models.ValidVoteType(voteType) {
		return ErrInvalidVoteType
	}

	// 2. Report must exist
	report, err := s.reportRepo.GetByID(reportID)
	if err != nil {
		logger.Log.Error("Failed to load report for vote",
			zap.Uint64("report_id", reportID),
			zap.Error(err),
		)
		return err
	}
	if report == nil {
		return ErrReportNotFound
	}

	// 3. No self-voting
	if report.Username == voter {
		logger.Log.Warn("Self-vote rejected",
			zap.Uint64("report_id", reportID),
			zap.String("voter", voter),
		)
		return ErrSelfVote
	}

	// 4. One vote per (report, voter), any type
	voted, err := s.voteRepo.HasVoted(reportID, voter)
	if err != nil {
		return err
	}
	if voted {
		return ErrDuplicateVote
	}

	// 5. Insert. The composite primary key is the authoritative guard: a
	// concurrent duplicate loses here even after passing the pre-check.
	vote := &models.Vote{
		ReportID:      reportID,
		VoterUsername: voter,
		VoteType:      voteType,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.voteRepo.Create(vote); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateVote
		}
		logger.Log.Error("Failed to record vote",
			zap.Uint64("report_id", reportID),
			zap.String("voter", voter),
			zap.Error(err),
		)
		return err
	}

	s.reportService.appendJournal(journal.Entry{
		Kind:     journal.KindVoteCast,
		Username: voter,
		ReportID: reportID,
		VoteType: voteType,
	})

	// 6. Side effects
	switch voteType {
	case models.VoteTypeLike:
		if _, err := s.RecomputeTrustLevel(report.Username); err != nil {
			logger.Log.Error("Trust level recompute failed",
				zap.String("username", report.Username),
				zap.Error(err),
			)
		}
	case models.VoteTypeGone:
		// Cumulative: each gone vote shortens the remaining lifetime by
		// the full penalty.
		if err := s.reportRepo.ShiftTimestamp(reportID, s.gonePenalty); err != nil {
			logger.Log.Error("Gone acceleration failed",
				zap.Uint64("report_id", reportID),
				zap.Error(err),
			)
		}
	}

	s.reportService.invalidateListing()

	logger.Log.Info("Vote recorded",
		zap.Uint64("report_id", reportID),
		zap.String("voter", voter),
		zap.String("vote_type", voteType),
	)

	return nil
}

// RecomputeTrustLevel recounts likes received by username across all their
// reports and writes the derived level. Idempotent: with no new votes the
// result never changes.
func (s *VoteService) RecomputeTrustLevel(username string) (int, error) {
	likes, err := s.userRepo.CountLikesReceived(username)
	if err != nil {
		return 0, err
	}

	level := s.levelForLikes(likes)

	if err := s.userRepo.UpdateTrustLevel(username, level); err != nil {
		return 0, err
	}

	logger.Log.Debug("Trust level recomputed",
		zap.String("username", username),
		zap.Int64("likes", likes),
		zap.Int("level", level),
	)

	return level, nil
}

// levelForLikes maps a like count to a trust level via the configured step
// thresholds. Monotonic in the like count.
func (s *VoteService) levelForLikes(likes int64) int {
	level := models.TrustLevelMin
	for i, threshold := range s.trustThresholds {
		if likes >= int64(threshold) {
			level = models.TrustLevelMin + i + 1
		}
	}
	return level
}
