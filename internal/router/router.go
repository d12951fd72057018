package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BellSamaa/TourZen-sub001/internal/auth"
	"github.com/BellSamaa/TourZen-sub001/internal/handlers"
)

// SetupRouter creates and configures the HTTP router.
func SetupRouter(h *handlers.Handler, a *auth.Authenticator) *mux.Router {
	r := mux.NewRouter()

	// CORS middleware
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(a.Identify)

	// Catalog
	api.HandleFunc("/tours", h.GetTours).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/tours/{id}", h.GetTour).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/tours/{id}/departures", h.GetTourDepartures).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/regions", h.GetRegions).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/addons", h.GetAddOns).Methods(http.MethodGet, http.MethodOptions)

	// Quotes and bookings
	api.HandleFunc("/quotes", h.CreateQuote).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/bookings/{id}", h.CancelBooking).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/bookings/{id}/payment", h.ConfirmPayment).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/bookings/{id}/voucher", h.GetVoucher).Methods(http.MethodGet, http.MethodOptions)

	// Back-office
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(a.RequireAdmin)
	admin.HandleFunc("/bookings", h.ListBookings).Methods(http.MethodGet, http.MethodOptions)
	admin.HandleFunc("/tours/{id}", h.SaveTour).Methods(http.MethodPut, http.MethodOptions)
	admin.HandleFunc("/catalog/reload", h.ReloadCatalog).Methods(http.MethodPost, http.MethodOptions)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
