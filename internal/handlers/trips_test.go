package handlers

import (
	"context"
	"testing"

	"github.com/sortie-unique/agency-api/internal/models"
)

func seedTrips(env *testEnv) {
	env.db.Create(&models.Trip{
		Title:       "Sahara Desert Adventure",
		Description: "Camel trekking and overnight camping.",
		Destination: "Taghit",
		Region:      "South",
		MaxPeople:   8,
		Price:       299,
		Features:    []string{"Camel trekking", "Desert camping"},
		IsAvailable: true,
	})
	env.db.Create(&models.Trip{
		Title:       "Kabylie Mountains Trek",
		Description: "Hiking trails and Berber villages.",
		Destination: "Tizi Ouzou",
		Region:      "North",
		MaxPeople:   12,
		Price:       199,
		Features:    []string{"Mountain hiking", "Village visits"},
		IsAvailable: true,
	})
	env.db.Create(&models.Trip{
		Title:       "Retired Tour",
		Description: "No longer offered.",
		Destination: "Oran",
		IsAvailable: false,
	})
}

func TestHandleListTrips(t *testing.T) {
	env := newTestEnv(t)
	handler := NewTripHandler(env.db, env.authHandler)
	seedTrips(env)
	ctx := context.Background()

	t.Run("OnlyAvailable", func(t *testing.T) {
		resp, err := handler.HandleList(ctx, &ListTripsInput{})
		if err != nil {
			t.Fatalf("HandleList returned error: %v", err)
		}
		if len(resp.Body) != 2 {
			t.Fatalf("expected 2 available trips, got %d", len(resp.Body))
		}
		for _, trip := range resp.Body {
			if !trip.IsAvailable {
				t.Errorf("unavailable trip %q leaked into public catalog", trip.Title)
			}
		}
	})

	t.Run("SearchTitle", func(t *testing.T) {
		resp, _ := handler.HandleList(ctx, &ListTripsInput{Query: "sahara"})
		if len(resp.Body) != 1 || resp.Body[0].Title != "Sahara Desert Adventure" {
			t.Errorf("expected Sahara trip, got %+v", resp.Body)
		}
	})

	t.Run("SearchFeature", func(t *testing.T) {
		resp, _ := handler.HandleList(ctx, &ListTripsInput{Query: "hiking"})
		if len(resp.Body) != 1 || resp.Body[0].Title != "Kabylie Mountains Trek" {
			t.Errorf("expected Kabylie trip, got %+v", resp.Body)
		}
	})

	t.Run("DestinationFilter", func(t *testing.T) {
		resp, _ := handler.HandleList(ctx, &ListTripsInput{Destination: "Taghit"})
		if len(resp.Body) != 1 || resp.Body[0].Destination != "Taghit" {
			t.Errorf("expected only Taghit trips, got %+v", resp.Body)
		}
	})

	t.Run("RegionFilter", func(t *testing.T) {
		resp, _ := handler.HandleList(ctx, &ListTripsInput{Region: "South"})
		if len(resp.Body) != 1 || resp.Body[0].Region != "South" {
			t.Errorf("expected only South trips, got %+v", resp.Body)
		}
	})

	t.Run("NoMatches", func(t *testing.T) {
		resp, _ := handler.HandleList(ctx, &ListTripsInput{Query: "antarctica"})
		if len(resp.Body) != 0 {
			t.Errorf("expected empty result, got %+v", resp.Body)
		}
	})
}

func TestTripCRUD(t *testing.T) {
	env := newTestEnv(t)
	handler := NewTripHandler(env.db, env.authHandler)
	ctx := context.Background()

	create := &CreateTripInput{AuthInput: env.authInput}
	create.Body = TripFields{
		Title:       "Hoggar Stars",
		Description: "Stargazing in the Hoggar mountains.",
		Destination: "Tamanrasset",
		Duration:    "4 days / 3 nights",
		MaxPeople:   6,
		Price:       450,
		Features:    []string{"Stargazing", "Local guide"},
		IsAvailable: true,
	}

	created, err := handler.HandleCreate(ctx, create)
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	if created.Body.ID == 0 {
		t.Fatal("expected server-assigned ID")
	}

	t.Run("Get", func(t *testing.T) {
		resp, err := handler.HandleGet(ctx, &GetTripInput{ID: created.Body.ID})
		if err != nil {
			t.Fatalf("HandleGet returned error: %v", err)
		}
		if resp.Body.Title != "Hoggar Stars" {
			t.Errorf("expected title to round-trip, got %s", resp.Body.Title)
		}
		if len(resp.Body.Features) != 2 {
			t.Errorf("expected 2 features, got %v", resp.Body.Features)
		}
	})

	t.Run("Update", func(t *testing.T) {
		update := &UpdateTripInput{AuthInput: env.authInput, ID: created.Body.ID}
		update.Body = create.Body
		update.Body.Price = 500
		update.Body.IsAvailable = false

		resp, err := handler.HandleUpdate(ctx, update)
		if err != nil {
			t.Fatalf("HandleUpdate returned error: %v", err)
		}
		if resp.Body.Price != 500 {
			t.Errorf("expected price 500, got %v", resp.Body.Price)
		}

		public, _ := handler.HandleList(ctx, &ListTripsInput{})
		for _, trip := range public.Body {
			if trip.ID == created.Body.ID {
				t.Error("unavailable trip still listed publicly")
			}
		}

		admin, err := handler.HandleAdminList(ctx, &AdminListTripsInput{AuthInput: env.authInput})
		if err != nil {
			t.Fatalf("HandleAdminList returned error: %v", err)
		}
		if len(admin.Body) != 1 {
			t.Errorf("expected admin list to include unavailable trip, got %d", len(admin.Body))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if _, err := handler.HandleDelete(ctx, &DeleteTripInput{AuthInput: env.authInput, ID: created.Body.ID}); err != nil {
			t.Fatalf("HandleDelete returned error: %v", err)
		}
		if _, err := handler.HandleGet(ctx, &GetTripInput{ID: created.Body.ID}); err == nil {
			t.Fatal("expected 404 for deleted trip, got nil")
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		bad := &CreateTripInput{}
		bad.Body = create.Body
		if _, err := handler.HandleCreate(ctx, bad); err == nil {
			t.Fatal("expected error without credentials, got nil")
		}
	})
}
