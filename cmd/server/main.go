package main

import (
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/sortie-unique/agency-api/internal/auth"
	"github.com/sortie-unique/agency-api/internal/config"
	"github.com/sortie-unique/agency-api/internal/database"
	"github.com/sortie-unique/agency-api/internal/events"
	"github.com/sortie-unique/agency-api/internal/handlers"
	"github.com/sortie-unique/agency-api/internal/notifier"
	"github.com/sortie-unique/agency-api/internal/pricing"
	"github.com/sortie-unique/agency-api/internal/storage"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)
	database.SeedAdmin(db, cfg)

	// File storage for gallery and trip images
	store, err := storage.NewDisk(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logrus.Fatalf("Failed to initialize file storage: %v", err)
	}

	// Booking change feed
	pubSub := events.NewPubSub(events.NewLogrusAdapter(logrus.StandardLogger()))
	defer pubSub.Close()
	publisher := events.NewPublisher(pubSub)

	// Discord notifier is optional; without a bot token bookings simply
	// don't get announced.
	var bookingNotifier notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			logrus.WithError(err).Warn("Discord notifier not initialized")
		} else {
			bookingNotifier = notifier.NewDiscordNotifier(session, cfg.DiscordNotificationsChannelID)
		}
	}

	validator := pricing.NewValidator(db, cfg.CouponReportInactive)
	authHandler := auth.NewAuthHandler(cfg, db)

	h := handlers.Handlers{
		Auth:    authHandler,
		Trips:   handlers.NewTripHandler(db, authHandler),
		Coupons: handlers.NewCouponHandler(db, validator, authHandler),
		Booking: handlers.NewBookingHandler(db, validator, publisher, pubSub, bookingNotifier, authHandler),
		Gallery: handlers.NewGalleryHandler(db, store, authHandler),
		APIKeys: handlers.NewAPIKeyHandler(db, authHandler),
		Sheets:  handlers.NewSheetsHandler(notifier.NewSheetsForwarder(cfg.SheetsWebhookURL), authHandler),
	}

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, h, store.Dir(), cfg.EnableCORS)

	// Start Server
	logrus.Infof("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
