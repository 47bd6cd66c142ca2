package database

import (
	"gorm.io/gorm"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Application{},
		&models.Notification{},
	)
}

// SeedData provisions the default admin account when no users exist yet.
func SeedData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.User{
		Email: "admin@jobboard.local",
		Name:  "Administrator",
		Role:  models.RoleAdmin,
	}
	if err := admin.SetPassword("changeme"); err != nil {
		return err
	}

	return db.Create(&admin).Error
}
