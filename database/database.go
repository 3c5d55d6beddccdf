package database

import (
	"log"
	"vportal/config"
	"vportal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DbInstance struct holds the local database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global local-store instance. It holds everything except the
// voucher tables, which live in the remote table store (see the remotestore
// package).
var Database DbInstance

// ConnectDb opens the local SQLite database and runs migrations
func ConnectDb() {
	db, err := gorm.Open(sqlite.Open(config.AppConfig.DBName), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to SQLite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// SQLite serializes writers; keep the pool small
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(0)

	runMigrations(db)

	Database = DbInstance{Db: db}
}

// runMigrations performs local-store migrations
func runMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.AccessRequest{},
		&models.Question{},
		&models.UserResponse{},
		&models.Answer{},
		&models.VoucherImportBatch{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
