package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/raidroad/roadwatch/internal/cache"
	"github.com/raidroad/roadwatch/internal/models"
	"github.com/raidroad/roadwatch/internal/repository"
	"github.com/raidroad/roadwatch/internal/service"
	"github.com/raidroad/roadwatch/internal/testutil"
	"github.com/raidroad/roadwatch/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const testGonePenalty = 10 * time.Minute

var testTrustThresholds = [4]int{5, 10, 25, 50}

// VoteServiceIntegrationTestSuite defines test suite
type VoteServiceIntegrationTestSuite struct {
	suite.Suite
	testDB        *testutil.TestDatabase
	testRedis     *testutil.TestRedis
	userRepo      *repository.UserRepository
	reportRepo    *repository.ReportRepository
	voteRepo      *repository.VoteRepository
	reportService *service.ReportService
	voteService   *service.VoteService
}

// SetupSuite runs before all tests
func (s *VoteServiceIntegrationTestSuite) SetupSuite() {
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.testRedis = testutil.SetupTestRedis(s.T())

	listingCache, err := cache.NewRedisListingCache(s.testRedis.URL, 5*time.Second)
	assert.NoError(s.T(), err)

	s.userRepo = repository.NewUserRepository(s.testDB.DB)
	s.reportRepo = repository.NewReportRepository(s.testDB.DB)
	s.voteRepo = repository.NewVoteRepository(s.testDB.DB)

	s.reportService = service.NewReportService(s.reportRepo, listingCache, nil, 2*time.Hour, 4)
	s.voteService = service.NewVoteService(s.voteRepo, s.reportRepo, s.userRepo, s.reportService, testGonePenalty, testTrustThresholds)
}

// TearDownSuite runs after all tests
func (s *VoteServiceIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
	s.testRedis.Teardown(s.T())
}

// SetupTest runs before each test
func (s *VoteServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
	s.testRedis.Server.FlushAll()
}

// createReport inserts a user and a report owned by them, returning the report ID.
func (s *VoteServiceIntegrationTestSuite) createReport(author string, age time.Duration) uint64 {
	s.NoError(s.userRepo.EnsureUser(author))
	report := testutil.CreateTestReport(author, 51.5331, 46.0342, age)
	s.NoError(s.reportRepo.Create(report))
	return report.ID
}

func (s *VoteServiceIntegrationTestSuite) TestCastLike() {
	reportID := s.createReport("alice", 0)
	s.NoError(s.userRepo.EnsureUser("bob"))

	err := s.voteService.Cast(reportID, "bob", models.VoteTypeLike)
	s.NoError(err)

	count, err := s.voteRepo.CountByType(reportID, models.VoteTypeLike)
	s.NoError(err)
	s.Equal(int64(1), count)
}

func (s *VoteServiceIntegrationTestSuite) TestCastInvalidType() {
	reportID := s.createReport("alice", 0)
	s.NoError(s.userRepo.EnsureUser("bob"))

	err := s.voteService.Cast(reportID, "bob", "maybe")
	s.ErrorIs(err, service.ErrInvalidVoteType)
}

func (s *VoteServiceIntegrationTestSuite) TestCastReportNotFound() {
	s.NoError(s.userRepo.EnsureUser("bob"))

	err := s.voteService.Cast(9999, "bob", models.VoteTypeLike)
	s.ErrorIs(err, service.ErrReportNotFound)
}

// TestCastSelfVote verifies the author can never vote on their own report
// and the ledger stays untouched.
func (s *VoteServiceIntegrationTestSuite) TestCastSelfVote() {
	reportID := s.createReport("alice", 0)

	err := s.voteService.Cast(reportID, "alice", models.VoteTypeLike)
	s.ErrorIs(err, service.ErrSelfVote)

	voted, err := s.voteRepo.HasVoted(reportID, "alice")
	s.NoError(err)
	s.False(voted)
}

// TestCastDuplicateVote verifies one vote total per (report, voter): a second
// cast with a DIFFERENT type is also rejected, not treated as an update.
func (s *VoteServiceIntegrationTestSuite) TestCastDuplicateVote() {
	reportID := s.createReport("alice", 0)
	s.NoError(s.userRepo.EnsureUser("bob"))

	s.NoError(s.voteService.Cast(reportID, "bob", models.VoteTypeLike))

	err := s.voteService.Cast(reportID, "bob", models.VoteTypeLike)
	s.ErrorIs(err, service.ErrDuplicateVote)

	err = s.voteService.Cast(reportID, "bob", models.VoteTypeGone)
	s.ErrorIs(err, service.ErrDuplicateVote)

	// Still exactly one vote
	likes, _ := s.voteRepo.CountByType(reportID, models.VoteTypeLike)
	gones, _ := s.voteRepo.CountByType(reportID, models.VoteTypeGone)
	s.Equal(int64(1), likes)
	s.Equal(int64(0), gones)
}

// TestDuplicateVoteAtomicGuard verifies the insert itself rejects a duplicate
// even when the pre-check is bypassed (simulating a concurrent racer).
func (s *VoteServiceIntegrationTestSuite) TestDuplicateVoteAtomicGuard() {
	reportID := s.createReport("alice", 0)
	s.NoError(s.userRepo.EnsureUser("bob"))

	// First insert straight through the repository, as a racing request would
	s.NoError(s.voteRepo.Create(testutil.CreateTestVote(reportID, "bob", models.VoteTypeLike)))

	err := s.voteService.Cast(reportID, "bob", models.VoteTypeGone)
	s.ErrorIs(err, service.ErrDuplicateVote)
}

// TestGoneAcceleration verifies a gone vote shifts the report timestamp
// backward by the penalty.
func (s *VoteServiceIntegrationTestSuite) TestGoneAcceleration() {
	reportID := s.createReport("alice", 0)
	s.NoError(s.userRepo.EnsureUser("bob"))

	before, err := s.reportRepo.GetByID(reportID)
	s.NoError(err)

	s.NoError(s.voteService.Cast(reportID, "bob", models.VoteTypeGone))

	after, err := s.reportRepo.GetByID(reportID)
	s.NoError(err)

	shift := before.Timestamp.Sub(after.Timestamp)
	s.Equal(testGonePenalty, shift)
}

// TestGoneAccelerationCumulative verifies two gone votes shift the timestamp
// by twice the penalty.
func (s *VoteServiceIntegrationTestSuite) TestGoneAccelerationCumulative() {
	reportID := s.createReport("alice", 0)
	s.NoError(s.userRepo.EnsureUser("bob"))
	s.NoError(s.userRepo.EnsureUser("carol"))

	before, err := s.reportRepo.GetByID(reportID)
	s.NoError(err)

	s.NoError(s.voteService.Cast(reportID, "bob", models.VoteTypeGone))
	s.NoError(s.voteService.Cast(reportID, "carol", models.VoteTypeGone))

	after, err := s.reportRepo.GetByID(reportID)
	s.NoError(err)

	shift := before.Timestamp.Sub(after.Timestamp)
	s.Equal(2*testGonePenalty, shift)
}

// TestLikeRecomputesTrustLevel walks alice across the first threshold:
// 4 likes keep her at level 1, the 5th lifts her to level 2.
func (s *VoteServiceIntegrationTestSuite) TestLikeRecomputesTrustLevel() {
	reportID := s.createReport("alice", 0)

	for i := 1; i <= 5; i++ {
		voter := fmt.Sprintf("voter%d", i)
		s.NoError(s.userRepo.EnsureUser(voter))
		s.NoError(s.voteService.Cast(reportID, voter, models.VoteTypeLike))

		user, err := s.userRepo.GetByUsername("alice")
		s.NoError(err)

		if i < 5 {
			s.Equal(1, user.TrustLevel, "level should stay 1 at %d likes", i)
		} else {
			s.Equal(2, user.TrustLevel, "level should reach 2 at 5 likes")
		}
	}
}

// TestRecomputeTrustLevelIdempotent verifies recomputing twice with no new
// votes yields the same level.
func (s *VoteServiceIntegrationTestSuite) TestRecomputeTrustLevelIdempotent() {
	reportID := s.createReport("alice", 0)
	s.NoError(s.userRepo.EnsureUser("bob"))
	s.NoError(s.voteService.Cast(reportID, "bob", models.VoteTypeLike))

	first, err := s.voteService.RecomputeTrustLevel("alice")
	s.NoError(err)
	second, err := s.voteService.RecomputeTrustLevel("alice")
	s.NoError(err)

	s.Equal(first, second)
}

// TestTrustLevelAcrossThresholds checks the step function at every boundary
// by inserting votes directly and recomputing.
func (s *VoteServiceIntegrationTestSuite) TestTrustLevelAcrossThresholds() {
	s.NoError(s.userRepo.EnsureUser("alice"))

	cases := []struct {
		likes int
		level int
	}{
		{0, 1}, {4, 1}, {5, 2}, {9, 2}, {10, 3}, {24, 3}, {25, 4}, {49, 4}, {50, 5}, {120, 5},
	}

	for _, tc := range cases {
		testutil.CleanDatabase(s.T(), s.testDB.DB)
		s.NoError(s.userRepo.EnsureUser("alice"))

		report := testutil.CreateTestReport("alice", 51.5, -0.1, 0)
		s.NoError(s.reportRepo.Create(report))

		for i := 0; i < tc.likes; i++ {
			voter := fmt.Sprintf("v%d", i)
			s.NoError(s.voteRepo.Create(testutil.CreateTestVote(report.ID, voter, models.VoteTypeLike)))
		}

		level, err := s.voteService.RecomputeTrustLevel("alice")
		s.NoError(err)
		s.Equal(tc.level, level, "%d likes should map to level %d", tc.likes, tc.level)
	}
}

// TestVoteOnStaleReport: a report past the visibility window is gone from
// listings but can still be voted on.
func (s *VoteServiceIntegrationTestSuite) TestVoteOnStaleReport() {
	reportID := s.createReport("alice", 3*time.Hour)
	s.NoError(s.userRepo.EnsureUser("bob"))

	err := s.voteService.Cast(reportID, "bob", models.VoteTypeLike)
	s.NoError(err)
}

func TestVoteServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(VoteServiceIntegrationTestSuite))
}
