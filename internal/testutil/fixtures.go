package testutil

import (
	"time"

	"github.com/raidroad/roadwatch/internal/models"
)

// CreateTestUser builds a user fixture at the default trust level.
func CreateTestUser(username string) *models.User {
	return &models.User{
		Username:   username,
		TrustLevel: models.TrustLevelMin,
		CreatedAt:  time.Now().UTC(),
	}
}

// CreateTestReport builds a report fixture stamped age before now.
func CreateTestReport(username string, lat, lon float64, age time.Duration) *models.Report {
	return &models.Report{
		Username:  username,
		Lat:       lat,
		Lon:       lon,
		Timestamp: time.Now().UTC().Add(-age),
	}
}

// CreateTestVote builds a vote fixture.
func CreateTestVote(reportID uint64, voter, voteType string) *models.Vote {
	return &models.Vote{
		ReportID:      reportID,
		VoterUsername: voter,
		VoteType:      voteType,
		Timestamp:     time.Now().UTC(),
	}
}
