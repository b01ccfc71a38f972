package models

import (
	"time"
)

type Report struct {
	ID       uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string  `gorm:"type:varchar(30);not null;index" json:"username"`
	Lat      float64 `gorm:"not null" json:"lat"`
	Lon      float64 `gorm:"not null" json:"lon"`

	// Timestamp anchors all age-based visibility filtering. It starts as the
	// creation instant (UTC) but is shifted backward by "gone" votes, so it is
	// not literally the time of creation once penalties have applied.
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	User User `gorm:"foreignKey:Username;references:Username;constraint:OnDelete:CASCADE" json:"-"`
}
