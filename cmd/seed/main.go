package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"

	"apistarter/internal/config"
	"apistarter/internal/database"
	"apistarter/internal/domain"
)

// Migrates the schema and seeds the system roles plus a first admin
// account. Safe to re-run: roles upsert on name, the admin user is only
// created when missing.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Role{},
		&domain.Session{},
		&domain.Note{},
		&domain.AuditEntry{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Seeding roles...")
	roles := []domain.Role{
		{
			Name:        domain.RoleAdmin,
			DisplayName: "Administrator",
			Permissions: map[string]any{"users": "manage", "notes": "manage"},
			IsSystem:    true,
		},
		{
			Name:        domain.RoleUser,
			DisplayName: "User",
			Permissions: map[string]any{"notes": "own"},
			IsSystem:    true,
		},
	}
	for i := range roles {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&roles[i]).Error; err != nil {
			log.Fatal("role seed failed:", err)
		}
	}

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		if cfg.IsProdLike() {
			log.Fatal("SEED_ADMIN_PASSWORD is required in prod")
		}
		adminPassword = "admin12345"
	}

	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		log.Fatal(err)
	}
	if count > 0 {
		log.Println("Admin user already present, nothing to do")
		return
	}

	log.Println("Creating admin user...")
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), cfg.BcryptCost)
	if err != nil {
		log.Fatal(err)
	}

	var adminRole domain.Role
	if err := db.Where("name = ?", domain.RoleAdmin).First(&adminRole).Error; err != nil {
		log.Fatal("admin role missing after seed:", err)
	}

	adminUser := domain.User{
		Email:        adminEmail,
		PasswordHash: string(hash),
		Name:         "Administrator",
		IsActive:     true,
		Roles:        []domain.Role{adminRole},
	}
	if err := db.Create(&adminUser).Error; err != nil {
		log.Fatal("admin user seed failed:", err)
	}

	log.Printf("seed completed: admin=%s", adminEmail)
}
