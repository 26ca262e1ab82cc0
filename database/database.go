package database

import (
	"log"

	"github.com/abdulhafiz0-0/averna/config"
	"github.com/abdulhafiz0-0/averna/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	// ----- AutoMigrate โครงสร้างทั้งหมดของเรา -----
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Student{},
		&models.Attendance{},
		&models.Payment{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}
