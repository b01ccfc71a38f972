package models

import (
	"time"
)

const (
	TrustLevelMin = 1
	TrustLevelMax = 5
)

type User struct {
	Username   string    `gorm:"type:varchar(30);primaryKey" json:"username"`
	TrustLevel int       `gorm:"not null;default:1" json:"trust_level"`
	CreatedAt  time.Time `json:"created_at"`
}
