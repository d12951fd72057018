package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/BellSamaa/TourZen-sub001/internal/auth"
	"github.com/BellSamaa/TourZen-sub001/internal/catalog"
	"github.com/BellSamaa/TourZen-sub001/internal/database"
	"github.com/BellSamaa/TourZen-sub001/internal/pricing"
	"github.com/BellSamaa/TourZen-sub001/internal/service"
	"github.com/BellSamaa/TourZen-sub001/internal/voucher"
)

// Handler contains HTTP handlers for the API.
type Handler struct {
	bookingService service.BookingService
	logger         *zap.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(bookingService service.BookingService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps the pricing/catalog error kinds onto HTTP codes so
// the UI can tell bad input from missing resources from bugs.
func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pricing.ErrNotFound),
		errors.Is(err, catalog.ErrTourNotFound),
		errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// GetTours handles GET /api/tours?q=&region=&sort=
func (h *Handler) GetTours(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tours := h.bookingService.ListTours(
		r.Context(),
		q.Get("q"),
		q.Get("region"),
		catalog.ParseSortKey(q.Get("sort")),
	)
	respondJSON(w, http.StatusOK, tours)
}

// GetRegions handles GET /api/regions
func (h *Handler) GetRegions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.bookingService.ListRegions(r.Context()))
}

// GetTour handles GET /api/tours/{id}
func (h *Handler) GetTour(w http.ResponseWriter, r *http.Request) {
	tourID := mux.Vars(r)["id"]
	tour, err := h.bookingService.GetTour(r.Context(), tourID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Tour not found")
		return
	}
	respondJSON(w, http.StatusOK, tour)
}

// GetTourDepartures handles GET /api/tours/{id}/departures
func (h *Handler) GetTourDepartures(w http.ResponseWriter, r *http.Request) {
	tourID := mux.Vars(r)["id"]
	tour, err := h.bookingService.GetTour(r.Context(), tourID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Tour not found")
		return
	}
	respondJSON(w, http.StatusOK, tour.Departures)
}

// GetAddOns handles GET /api/addons?kind=
func (h *Handler) GetAddOns(w http.ResponseWriter, r *http.Request) {
	kind := pricing.AddOnKind(r.URL.Query().Get("kind"))
	switch kind {
	case "", pricing.AddOnTransport, pricing.AddOnFlight:
	default:
		respondError(w, http.StatusBadRequest, "Unknown add-on kind")
		return
	}
	respondJSON(w, http.StatusOK, h.bookingService.ListAddOns(r.Context(), kind))
}

// CreateQuote handles POST /api/quotes
func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req service.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TourID == "" {
		respondError(w, http.StatusBadRequest, "Tour ID is required")
		return
	}
	if req.DepartureMonthLabel == "" {
		respondError(w, http.StatusBadRequest, "Departure month is required")
		return
	}

	quote, err := h.bookingService.Quote(r.Context(), req)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.TourID == "" {
		respondError(w, http.StatusBadRequest, "Tour ID is required")
		return
	}
	if req.DepartureMonthLabel == "" {
		respondError(w, http.StatusBadRequest, "Departure month is required")
		return
	}
	if req.CustomerEmail == "" {
		respondError(w, http.StatusBadRequest, "Customer email is required")
		return
	}
	if req.CustomerName == "" {
		respondError(w, http.StatusBadRequest, "Customer name is required")
		return
	}

	if userID, ok := auth.UserID(r.Context()); ok {
		req.UserID = &userID
	}

	booking, err := h.bookingService.CreateBooking(r.Context(), req)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /api/bookings/{id}
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	status, err := h.bookingService.GetBooking(r.Context(), bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Booking not found")
			return
		}
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// ConfirmPayment handles POST /api/bookings/{id}/payment. The payment
// collaborator (or back-office) calls this after the hosted payment page
// completes; the gateway reference is opaque.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]

	var req struct {
		GatewayRef string `json:"gatewayRef"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.GatewayRef == "" {
		respondError(w, http.StatusBadRequest, "Gateway reference is required")
		return
	}

	if err := h.bookingService.ConfirmPayment(r.Context(), bookingID, req.GatewayRef); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Give the workflow a moment, then return the current state.
	time.Sleep(100 * time.Millisecond)
	status, err := h.bookingService.GetBooking(r.Context(), bookingID)
	if err != nil {
		respondJSON(w, http.StatusAccepted, map[string]string{"message": "Payment signal accepted"})
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// CancelBooking handles DELETE /api/bookings/{id}
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	if err := h.bookingService.CancelBooking(r.Context(), bookingID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Booking cancelled"})
}

// GetVoucher handles GET /api/bookings/{id}/voucher
func (h *Handler) GetVoucher(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["id"]
	status, err := h.bookingService.GetBooking(r.Context(), bookingID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Booking not found")
		return
	}
	booking := status.Booking
	if booking.Status != database.BookingStatusConfirmed {
		respondError(w, http.StatusConflict, "Voucher is only available for confirmed bookings")
		return
	}

	var quote pricing.BookingQuote
	if len(booking.QuoteJSON) > 0 {
		if err := json.Unmarshal(booking.QuoteJSON, &quote); err != nil {
			h.respondDomainError(w, err)
			return
		}
	}
	pdf, err := voucher.Generate(booking, &quote)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="voucher-`+bookingID+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// ListBookings handles GET /api/admin/bookings?limit=
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	bookings, err := h.bookingService.ListBookings(r.Context(), limit)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}

// SaveTour handles PUT /api/admin/tours/{id}
func (h *Handler) SaveTour(w http.ResponseWriter, r *http.Request) {
	tourID := mux.Vars(r)["id"]

	var tour catalog.Tour
	if err := json.NewDecoder(r.Body).Decode(&tour); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if tour.ID == "" {
		tour.ID = tourID
	}
	if tour.ID != tourID {
		respondError(w, http.StatusBadRequest, "Tour ID mismatch")
		return
	}
	if tour.Title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	if err := h.bookingService.SaveTour(r.Context(), tour); err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tour)
}

// ReloadCatalog handles POST /api/admin/catalog/reload
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.bookingService.ReloadCatalog(r.Context()); err != nil {
		h.respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Catalog reloaded"})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
