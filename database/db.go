package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gramvartha/logger"
	"gramvartha/models/admin"
	"gramvartha/models/citizen"
	"gramvartha/models/log"
	"gramvartha/models/notice"
	"gramvartha/models/official"
	"gramvartha/models/village"
)

var DB *gorm.DB

// InitDB opens the Postgres connection, migrates all models and
// creates the supporting indexes.
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE")

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := AutoMigrate(DB); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// AutoMigrate runs schema migration for all models. The model tags
// carry the uniqueness constraints the application relies on: the
// village identity quadruple, the QR unique id, principal emails and
// the (notice_id, visitor_id) pair behind idempotent view counting.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&admin.Admin{},
		&citizen.Citizen{},
		&official.Official{},
		&village.Village{},
		&notice.Notice{},
		&notice.NoticeView{},
		&log.Log{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_notices_village_status ON notices(village_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_notices_pinned_created ON notices(is_pinned, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_notice_views_notice ON notice_views(notice_id)",
		"CREATE INDEX IF NOT EXISTS idx_villages_requested_by ON villages(requested_by_id)",
		"CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)",
	}

	for _, stmt := range indexes {
		if err := DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
