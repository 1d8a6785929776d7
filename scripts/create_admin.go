package main

import (
	"flag"
	"log"

	"brokercontrol/internal/middleware"
	"brokercontrol/internal/models"
	"brokercontrol/pkg/config"

	"gorm.io/gorm"
)

// Bootstraps an admin account. Run once per environment:
//
//	go run scripts/create_admin.go -email admin@example.com -password <pw>
func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	fullName := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Both -email and -password are required")
	}

	config.InitDB()

	var existing models.Profile
	if err := config.DB.Where("email = ?", *email).First(&existing).Error; err == nil {
		log.Fatalf("Profile already exists for %s (id %d)", *email, existing.ID)
	}

	hash, err := middleware.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	profile := models.Profile{
		Email:        *email,
		PasswordHash: hash,
		FullName:     *fullName,
		Role:         "admin",
		AccountType:  "live",
		KycStatus:    "approved",
		IsActive:     true,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		wallets := []models.Wallet{
			{UserID: profile.ID, AccountType: "demo"},
			{UserID: profile.ID, AccountType: "live"},
		}
		return tx.Create(&wallets).Error
	})
	if err != nil {
		log.Fatalf("Failed to create admin profile: %v", err)
	}

	log.Printf("Created admin profile %d for %s", profile.ID, *email)
}
