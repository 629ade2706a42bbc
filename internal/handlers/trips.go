package handlers

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
	"github.com/sortie-unique/agency-api/internal/auth"
	"github.com/sortie-unique/agency-api/internal/models"
	"gorm.io/gorm"
)

type TripHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewTripHandler(db *gorm.DB, authHandler *auth.AuthHandler) *TripHandler {
	return &TripHandler{db: db, authHandler: authHandler}
}

type ListTripsInput struct {
	Query       string `query:"q" doc:"Substring match over title, destination and features" required:"false"`
	Destination string `query:"destination" doc:"Exact destination filter" required:"false"`
	Region      string `query:"region" doc:"Exact region filter" required:"false"`
}

type ListTripsOutput struct {
	Body []models.Trip
}

// HandleList returns the public catalog: available trips only, optionally
// narrowed by the search box filters. The substring search runs in memory;
// the catalog is small and the features column is JSON-serialized.
func (h *TripHandler) HandleList(ctx context.Context, input *ListTripsInput) (*ListTripsOutput, error) {
	query := h.db.WithContext(ctx).Where("is_available = ?", true)
	if input.Destination != "" {
		query = query.Where("destination = ?", input.Destination)
	}
	if input.Region != "" {
		query = query.Where("region = ?", input.Region)
	}

	var trips []models.Trip
	if err := query.Find(&trips).Error; err != nil {
		logrus.WithError(err).Error("ListTrips: Failed to query trips")
		return nil, huma.Error500InternalServerError("Failed to load trips")
	}

	if input.Query != "" {
		trips = filterTrips(trips, input.Query)
	}
	if trips == nil {
		trips = []models.Trip{}
	}

	return &ListTripsOutput{Body: trips}, nil
}

func filterTrips(trips []models.Trip, term string) []models.Trip {
	term = strings.ToLower(term)
	matched := make([]models.Trip, 0, len(trips))
	for _, trip := range trips {
		if tripMatches(trip, term) {
			matched = append(matched, trip)
		}
	}
	return matched
}

func tripMatches(trip models.Trip, term string) bool {
	if strings.Contains(strings.ToLower(trip.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(trip.Destination), term) {
		return true
	}
	for _, feature := range trip.Features {
		if strings.Contains(strings.ToLower(feature), term) {
			return true
		}
	}
	return false
}

type GetTripInput struct {
	ID uint `path:"id"`
}

type GetTripOutput struct {
	Body models.Trip
}

func (h *TripHandler) HandleGet(ctx context.Context, input *GetTripInput) (*GetTripOutput, error) {
	var trip models.Trip
	if err := h.db.WithContext(ctx).First(&trip, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Trip not found")
	}
	return &GetTripOutput{Body: trip}, nil
}

type AdminListTripsInput struct {
	auth.AuthInput
}

func (h *TripHandler) HandleAdminList(ctx context.Context, input *AdminListTripsInput) (*ListTripsOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var trips []models.Trip
	if err := h.db.WithContext(ctx).Order("created_at desc").Find(&trips).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load trips")
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	return &ListTripsOutput{Body: trips}, nil
}

// TripFields is the mutable part of a trip, shared by create and update.
type TripFields struct {
	Title       string   `json:"title" required:"true"`
	Description string   `json:"description" required:"true"`
	Destination string   `json:"destination" required:"true"`
	Region      string   `json:"region" required:"false"`
	Duration    string   `json:"duration" required:"false"`
	MaxPeople   int      `json:"max_people" minimum:"0" required:"false"`
	Price       float64  `json:"price" minimum:"0" required:"false"`
	Image       string   `json:"image" required:"false"`
	Features    []string `json:"features" required:"false"`
	IsAvailable bool     `json:"is_available" required:"false"`
}

type CreateTripInput struct {
	auth.AuthInput
	Body TripFields
}

type CreateTripOutput struct {
	Body models.Trip
}

func (h *TripHandler) HandleCreate(ctx context.Context, input *CreateTripInput) (*CreateTripOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	trip := models.Trip{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Destination: input.Body.Destination,
		Region:      input.Body.Region,
		Duration:    input.Body.Duration,
		MaxPeople:   input.Body.MaxPeople,
		Price:       input.Body.Price,
		Image:       input.Body.Image,
		Features:    input.Body.Features,
		IsAvailable: input.Body.IsAvailable,
	}

	if err := h.db.WithContext(ctx).Create(&trip).Error; err != nil {
		logrus.WithError(err).Error("CreateTrip: Failed to create trip")
		return nil, huma.Error500InternalServerError("Failed to create trip: " + err.Error())
	}

	return &CreateTripOutput{Body: trip}, nil
}

type UpdateTripInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body TripFields
}

func (h *TripHandler) HandleUpdate(ctx context.Context, input *UpdateTripInput) (*CreateTripOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var trip models.Trip
	if err := h.db.WithContext(ctx).First(&trip, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Trip not found")
	}

	trip.Title = input.Body.Title
	trip.Description = input.Body.Description
	trip.Destination = input.Body.Destination
	trip.Region = input.Body.Region
	trip.Duration = input.Body.Duration
	trip.MaxPeople = input.Body.MaxPeople
	trip.Price = input.Body.Price
	trip.Image = input.Body.Image
	trip.Features = input.Body.Features
	trip.IsAvailable = input.Body.IsAvailable

	if err := h.db.WithContext(ctx).Save(&trip).Error; err != nil {
		logrus.WithError(err).Error("UpdateTrip: Failed to update trip")
		return nil, huma.Error500InternalServerError("Failed to update trip: " + err.Error())
	}

	return &CreateTripOutput{Body: trip}, nil
}

type DeleteTripInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

// HandleDelete removes a trip. Bookings referencing it keep their trip ID;
// the reference is soft and nothing cascades.
func (h *TripHandler) HandleDelete(ctx context.Context, input *DeleteTripInput) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	if err := h.db.WithContext(ctx).Delete(&models.Trip{}, input.ID).Error; err != nil {
		logrus.WithError(err).Error("DeleteTrip: Failed to delete trip")
		return nil, huma.Error500InternalServerError("Failed to delete trip")
	}

	return nil, nil
}
