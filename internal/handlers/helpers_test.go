package handlers

import (
	"testing"

	"github.com/sortie-unique/agency-api/internal/auth"
	"github.com/sortie-unique/agency-api/internal/config"
	"github.com/sortie-unique/agency-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv is the shared fixture: an in-memory DB, an auth handler and a
// logged-in admin whose cookie the tests pass as AuthInput.
type testEnv struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
	admin       models.User
	authInput   auth.AuthInput
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(
		&models.User{},
		&models.APIKey{},
		&models.Trip{},
		&models.Coupon{},
		&models.Booking{},
		&models.GalleryImage{},
	)

	admin := models.User{Email: "admin@example.com", Role: models.RoleAdmin}
	db.Create(&admin)

	authHandler := auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db)
	token, err := authHandler.GenerateToken(admin.ID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return &testEnv{
		db:          db,
		authHandler: authHandler,
		admin:       admin,
		authInput:   auth.AuthInput{Cookie: "auth_token=" + token},
	}
}
