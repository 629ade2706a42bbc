package database

import (
	"github.com/sirupsen/logrus"
	"github.com/sortie-unique/agency-api/internal/config"
	"github.com/sortie-unique/agency-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.User{},
		&models.APIKey{},
		&models.Trip{},
		&models.Coupon{},
		&models.Booking{},
		&models.GalleryImage{},
	)
	if err != nil {
		logrus.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}

// SeedAdmin makes sure the configured bootstrap admin account exists. A user
// that already exists is left untouched so a rotated password in the
// environment does not silently overwrite one changed through the API.
func SeedAdmin(db *gorm.DB, cfg *config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	var user models.User
	if err := db.FirstOrInit(&user, models.User{Email: cfg.AdminEmail}).Error; err != nil {
		logrus.Fatalf("Failed to look up admin user: %v", err)
	}
	if user.ID != 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("Failed to hash admin password: %v", err)
	}

	user.PasswordHash = string(hash)
	user.Role = models.RoleAdmin
	if err := db.Save(&user).Error; err != nil {
		logrus.Fatalf("Failed to seed admin user: %v", err)
	}
	logrus.WithField("email", cfg.AdminEmail).Info("Seeded bootstrap admin user")
}
