package database

import (
	"log"
	"os"

	"team-task-board/internal/auth"
	"team-task-board/internal/models"

	"github.com/google/uuid"
)

// SeedAdmin guarantees the at-least-one-admin invariant on a fresh database
// by creating a bootstrap admin account when no admin exists yet.
func SeedAdmin() {
	var admins int64
	if err := DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		log.Fatal("Failed to count admin users: ", err)
	}
	if admins > 0 {
		return
	}

	email := getenv("ADMIN_EMAIL", "admin@example.com")
	password := getenv("ADMIN_PASSWORD", "change-me-please")
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash bootstrap admin password: ", err)
	}

	admin := models.User{
		ID:       "user-" + uuid.NewString(),
		Name:     getenv("ADMIN_NAME", "Admin"),
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create bootstrap admin: ", err)
	}
	log.Printf("Bootstrap admin created: %s", email)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
