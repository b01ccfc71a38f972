package main

import (
	"log"
	"time"

	"github.com/raidroad/roadwatch/internal/config"
	"github.com/raidroad/roadwatch/internal/database"
	"github.com/raidroad/roadwatch/internal/models"
)

// Seeds a handful of demo users, reports and votes around the Saratov city
// center so a fresh instance has something on the map.
func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	usernames := []string{"alice", "bob", "carol"}
	for _, name := range usernames {
		var existing models.User
		if err := database.DB.Where("username = ?", name).First(&existing).Error; err == nil {
			log.Println("User already exists:", name)
			continue
		}
		user := models.User{Username: name, TrustLevel: models.TrustLevelMin}
		if err := database.DB.Create(&user).Error; err != nil {
			log.Fatal("Failed to create user:", err)
		}
		log.Println("Created user:", name)
	}

	var reportCount int64
	database.DB.Model(&models.Report{}).Count(&reportCount)
	if reportCount > 0 {
		log.Println("Reports already seeded, skipping")
		return
	}

	now := time.Now().UTC()
	reports := []models.Report{
		{Username: "alice", Lat: 51.5331, Lon: 46.0342, Timestamp: now.Add(-10 * time.Minute)},
		{Username: "bob", Lat: 51.5406, Lon: 46.0086, Timestamp: now.Add(-45 * time.Minute)},
		{Username: "carol", Lat: 51.5240, Lon: 46.0550, Timestamp: now.Add(-90 * time.Minute)},
	}
	for i := range reports {
		if err := database.DB.Create(&reports[i]).Error; err != nil {
			log.Fatal("Failed to create report:", err)
		}
	}

	votes := []models.Vote{
		{ReportID: reports[0].ID, VoterUsername: "bob", VoteType: models.VoteTypeLike, Timestamp: now},
		{ReportID: reports[0].ID, VoterUsername: "carol", VoteType: models.VoteTypeLike, Timestamp: now},
		{ReportID: reports[1].ID, VoterUsername: "alice", VoteType: models.VoteTypeGone, Timestamp: now},
	}
	for i := range votes {
		if err := database.DB.Create(&votes[i]).Error; err != nil {
			log.Fatal("Failed to create vote:", err)
		}
	}

	log.Println("Seed data created:", len(reports), "reports,", len(votes), "votes")
}
