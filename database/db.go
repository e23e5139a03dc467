package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"invoicing-backend/models"
)

var DB *gorm.DB

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Connect() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env("DB_HOST", "db"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), env("DB_PORT", "5432"), env("DB_SSLMODE", "disable"))

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		zap.L().Fatal("could not connect to database", zap.Error(err))
	}
}

func AutoMigrate() {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Permission{},
		&models.Role{},
		&models.Business{},
		&models.TeamMember{},
		&models.Invitation{},
		&models.Client{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Transaction{},
	); err != nil {
		zap.L().Fatal("automigrate failed", zap.Error(err))
	}
}

// SeedPermissions upserts the permission catalog by name. Safe to run on
// every boot.
func SeedPermissions() {
	for _, permission := range models.PermissionCatalog {
		p := permission
		err := DB.Where(models.Permission{Name: p.Name}).
			Attrs(models.Permission{Description: p.Description}).
			FirstOrCreate(&p).Error
		if err != nil {
			zap.L().Fatal("permission seed failed", zap.String("permission", permission.Name), zap.Error(err))
		}
	}
}
