package database

import (
	"log"

	"cofondo-backend/config"
	"cofondo-backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	var err error
	DB, err = gorm.Open(postgres.Open(config.AppConfig.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Unique-index violations must surface as gorm.ErrDuplicatedKey so the
		// single-vote-per-member constraint can be reported as a conflict.
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("✅ Database connected successfully")

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.User{},
		&models.LoginNonce{},
		&models.Group{},
		&models.GroupMember{},
		&models.Proposal{},
		&models.VoteRecord{},
		&models.Transaction{},
		&models.Activity{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("✅ Database migrated successfully")
}
