package migration

import (
	"fmt"
	"log"

	"modmaster-backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Vehicle{}); err != nil {
		log.Fatalf("Error migrating vehicle table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Part{}); err != nil {
		log.Fatalf("Error migrating part table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Scan{}); err != nil {
		log.Fatalf("Error migrating scan table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ScanFeedback{}); err != nil {
		log.Fatalf("Error migrating scan feedback table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Recommendation{}); err != nil {
		log.Fatalf("Error migrating recommendation table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.MarketplaceIntegration{}); err != nil {
		log.Fatalf("Error migrating marketplace integration table: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.SubscriptionTransaction{}); err != nil {
		log.Fatalf("Error migrating subscription transaction table: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
