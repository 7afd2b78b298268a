package database

import (
	"errors"
	"os"

	"gramvartha/constants"
	"gramvartha/logger"
	"gramvartha/models/admin"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedData seeds the database with initial data
func SeedData(db *gorm.DB) error {
	logger.Success("Starting database seeding...")

	if err := seedSuperadmin(db); err != nil {
		return err
	}

	logger.Success("Database seeding completed successfully")
	return nil
}

// seedSuperadmin creates the single platform superadmin. It only runs
// when no admin exists at all, which keeps the one-superadmin
// invariant: once any admin row is present the seed is a no-op.
func seedSuperadmin(db *gorm.DB) error {
	var existing admin.Admin
	err := db.First(&existing).Error
	if err == nil {
		logger.Debug("Admin records already exist, skipping superadmin seed")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Error checking for existing admins", err)
		return err
	}

	email := os.Getenv("SUPERADMIN_EMAIL")
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Warning("SUPERADMIN_EMAIL or SUPERADMIN_PASSWORD not set, skipping superadmin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash superadmin password", err)
		return err
	}

	superadmin := admin.Admin{
		Email:        email,
		PasswordHash: string(hash),
		Role:         constants.RoleSuperadmin,
		Status:       constants.StatusApproved,
	}

	if err := db.Create(&superadmin).Error; err != nil {
		logger.Error("Failed to create superadmin", err)
		return err
	}

	logger.Success("Superadmin seeded: " + email)
	return nil
}
