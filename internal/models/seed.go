package models

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"garrison/internal/access"
	console "garrison/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("SEEDER")

// CreateAdminFromEnv bootstraps the first admin account from environment
// variables. A no-op when any admin already exists, so restarts are safe.
func CreateAdminFromEnv(db *gorm.DB) error {
	var count int64
	db.Model(&User{}).Where("role = ?", access.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	email, ok := os.LookupEnv("ADMIN_EMAIL")
	if !ok {
		return fmt.Errorf("ADMIN_EMAIL not set")
	}

	password, ok := os.LookupEnv("ADMIN_PASSWORD")
	if !ok {
		return fmt.Errorf("ADMIN_PASSWORD not set")
	}

	name, ok := os.LookupEnv("ADMIN_NAME")
	if !ok {
		name = "Administrator"
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	user := User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     access.RoleAdmin,
	}

	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %v", err)
	}

	log.Info("Created admin user %s", email)
	return nil
}
