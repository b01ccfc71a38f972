package database

import (
	"log"

	"github.com/raidroad/roadwatch/internal/config"
	"github.com/raidroad/roadwatch/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	var err error

	// TranslateError turns driver duplicate-key errors into
	// gorm.ErrDuplicatedKey, which the vote path relies on.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})

	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	log.Println("Database connect successfully")
}

func Migrate() {
	err := DB.AutoMigrate(&models.User{}, &models.Report{}, &models.Vote{})

	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Database migration completed")
}
