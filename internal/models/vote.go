package models

import (
	"time"
)

const (
	VoteTypeLike = "like"
	VoteTypeGone = "gone"
)

// ValidVoteType reports whether t is one of the accepted vote types.
func ValidVoteType(t string) bool {
	return t == VoteTypeLike || t == VoteTypeGone
}

// Vote records a single reaction to a report. The composite primary key
// (report_id, voter_username) is the atomic guard against double voting:
// a second insert for the same pair fails at the database level.
type Vote struct {
	ReportID      uint64    `gorm:"primaryKey;autoIncrement:false" json:"report_id"`
	VoterUsername string    `gorm:"type:varchar(30);primaryKey" json:"voter_username"`
	VoteType      string    `gorm:"type:varchar(10);not null" json:"vote_type"`
	Timestamp     time.Time `gorm:"not null" json:"timestamp"`
}
