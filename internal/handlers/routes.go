package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sortie-unique/agency-api/internal/auth"
	"github.com/sortie-unique/agency-api/internal/events"
)

type Handlers struct {
	Auth    *auth.AuthHandler
	Trips   *TripHandler
	Coupons *CouponHandler
	Booking *BookingHandler
	Gallery *GalleryHandler
	APIKeys *APIKeyHandler
	Sheets  *SheetsHandler
}

func RegisterRoutes(r *chi.Mux, h Handlers, uploadDir string, enableCORS bool) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if enableCORS {
		r.Use(corsMiddleware)
	}

	// Initialize Huma API
	config := huma.DefaultConfig("Sortie Unique Agency API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	huma.Get(api, "/trips", h.Trips.HandleList)
	huma.Get(api, "/trips/{id}", h.Trips.HandleGet)
	huma.Get(api, "/gallery", h.Gallery.HandleList)
	huma.Get(api, "/gallery/featured", h.Gallery.HandleFeatured)
	huma.Post(api, "/coupons/validate", h.Coupons.HandleValidate)
	huma.Post(api, "/bookings/quote", h.Booking.HandleQuote)
	huma.Post(api, "/bookings", h.Booking.HandleSubmit)

	// Auth routes
	huma.Post(api, "/auth/login", h.Auth.HandleLogin)
	huma.Post(api, "/auth/logout", h.Auth.HandleLogout)
	r.Get("/auth/discord/login", h.Auth.HandleDiscordLogin)
	r.Get("/auth/discord/callback", h.Auth.HandleDiscordCallback)

	// Protected routes
	secured := []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
	secure := func(o *huma.Operation) {
		o.Security = secured
	}

	huma.Get(api, "/me", h.Auth.HandleMe, secure)

	huma.Post(api, "/api-keys", h.APIKeys.HandleCreate, secure)
	huma.Get(api, "/api-keys", h.APIKeys.HandleList, secure)
	huma.Delete(api, "/api-keys/{id}", h.APIKeys.HandleDelete, secure)

	huma.Get(api, "/admin/trips", h.Trips.HandleAdminList, secure)
	huma.Post(api, "/admin/trips", h.Trips.HandleCreate, secure)
	huma.Put(api, "/admin/trips/{id}", h.Trips.HandleUpdate, secure)
	huma.Delete(api, "/admin/trips/{id}", h.Trips.HandleDelete, secure)

	huma.Get(api, "/admin/coupons", h.Coupons.HandleList, secure)
	huma.Post(api, "/admin/coupons", h.Coupons.HandleCreate, secure)
	huma.Put(api, "/admin/coupons/{id}", h.Coupons.HandleUpdate, secure)
	huma.Delete(api, "/admin/coupons/{id}", h.Coupons.HandleDelete, secure)

	huma.Get(api, "/admin/bookings", h.Booking.HandleList, secure)
	huma.Put(api, "/admin/bookings/{id}", h.Booking.HandleUpdate, secure)
	huma.Delete(api, "/admin/bookings/{id}", h.Booking.HandleDelete, secure)

	huma.Get(api, "/admin/gallery", h.Gallery.HandleAdminList, secure)
	huma.Post(api, "/admin/gallery", h.Gallery.HandleUpload, secure)
	huma.Delete(api, "/admin/gallery/{id}", h.Gallery.HandleDelete, secure)
	huma.Post(api, "/admin/gallery/{id}/featured", h.Gallery.HandleSetFeatured, secure)
	huma.Delete(api, "/admin/gallery/{id}/featured", h.Gallery.HandleRemoveFeatured, secure)

	huma.Post(api, "/admin/sheets/rows", h.Sheets.HandleSendRow, secure)

	sse.Register(api, huma.Operation{
		OperationID: "stream-bookings",
		Method:      http.MethodGet,
		Path:        "/admin/bookings/stream",
		Summary:     "Booking change feed",
		Security:    secured,
	}, map[string]any{
		"change": events.BookingChange{},
	}, h.Booking.HandleStream)

	// CSV export streams a file, so it stays a raw chi route behind the
	// cookie/API-key middleware.
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.AuthMiddleware)
		r.Get("/admin/bookings/export", h.Booking.HandleExportCSV)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-KEY")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
