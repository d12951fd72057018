package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BellSamaa/TourZen-sub001/internal/catalog"
	"github.com/BellSamaa/TourZen-sub001/internal/database"
	"github.com/BellSamaa/TourZen-sub001/internal/pricing"
	"github.com/BellSamaa/TourZen-sub001/internal/service"
	"github.com/BellSamaa/TourZen-sub001/internal/service/mocks"
)

func setupTestRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tours", h.GetTours).Methods(http.MethodGet)
	api.HandleFunc("/tours/{id}", h.GetTour).Methods(http.MethodGet)
	api.HandleFunc("/tours/{id}/departures", h.GetTourDepartures).Methods(http.MethodGet)
	api.HandleFunc("/regions", h.GetRegions).Methods(http.MethodGet)
	api.HandleFunc("/addons", h.GetAddOns).Methods(http.MethodGet)
	api.HandleFunc("/quotes", h.CreateQuote).Methods(http.MethodPost)
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}", h.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", h.CancelBooking).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{id}/payment", h.ConfirmPayment).Methods(http.MethodPost)
	return r
}

func TestHandler_GetTours(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	handler := NewHandler(mockService, nil)
	router := setupTestRouter(handler)

	expectedTours := []catalog.Tour{
		{ID: "sapa-fansipan", Title: "Sapa - Fansipan", Region: "Miền Bắc", BasePrice: 2990000},
	}

	mockService.On("ListTours", mock.Anything, "sapa", "Miền Bắc", catalog.SortPriceAscending).Return(expectedTours)

	req := httptest.NewRequest(http.MethodGet, "/api/tours?q=sapa&region=Mi%E1%BB%81n+B%E1%BA%AFc&sort=price-asc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []catalog.Tour
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "sapa-fansipan", response[0].ID)

	mockService.AssertExpectations(t)
}

func TestHandler_GetTours_UnknownSortFallsBack(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	handler := NewHandler(mockService, nil)
	router := setupTestRouter(handler)

	mockService.On("ListTours", mock.Anything, "", "", catalog.SortNone).Return([]catalog.Tour{})

	req := httptest.NewRequest(http.MethodGet, "/api/tours?sort=bogus", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_GetTour(t *testing.T) {
	tests := []struct {
		name           string
		tourID         string
		mockReturn     *catalog.Tour
		mockError      error
		expectedStatus int
	}{
		{
			name:           "tour found",
			tourID:         "phu-quoc-bien",
			mockReturn:     &catalog.Tour{ID: "phu-quoc-bien", Title: "Phú Quốc"},
			mockError:      nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "tour not found",
			tourID:         "nope",
			mockReturn:     nil,
			mockError:      catalog.ErrTourNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockBookingService)
			handler := NewHandler(mockService, nil)
			router := setupTestRouter(handler)

			mockService.On("GetTour", mock.Anything, tt.tourID).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/tours/"+tt.tourID, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetAddOns(t *testing.T) {
	mockService := new(mocks.MockBookingService)
	handler := NewHandler(mockService, nil)
	router := setupTestRouter(handler)

	mockService.On("ListAddOns", mock.Anything, pricing.AddOnTransport).Return([]pricing.AddOn{
		{ID: "bus-hcm-roundtrip", Name: "Xe limousine", Price: 850000, Kind: pricing.AddOnTransport},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/addons?kind=transport", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	// Unknown kinds are a client error, not an empty list.
	req = httptest.NewRequest(http.MethodGet, "/api/addons?kind=helicopter", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	mockService.AssertExpectations(t)
}

func TestHandler_CreateQuote(t *testing.T) {
	validReq := service.QuoteRequest{
		TourID:              "da-lat-ngan-hoa",
		DepartureMonthLabel: "10/2025",
		Travelers:           pricing.TravelerCount{Adults: 2, Children: 1},
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockReturn     *pricing.BookingQuote
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name:        "valid quote",
			requestBody: validReq,
			mockReturn: &pricing.BookingQuote{
				TourID:              "da-lat-ngan-hoa",
				DepartureMonthLabel: "10/2025",
				Total:               8975000,
			},
			expectedStatus: http.StatusOK,
			shouldCallMock: true,
		},
		{
			name: "missing tour id",
			requestBody: service.QuoteRequest{
				DepartureMonthLabel: "10/2025",
				Travelers:           pricing.TravelerCount{Adults: 1},
			},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
		{
			name: "missing departure month",
			requestBody: service.QuoteRequest{
				TourID:    "da-lat-ngan-hoa",
				Travelers: pricing.TravelerCount{Adults: 1},
			},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
		{
			name:           "zero adults maps to unprocessable entity",
			requestBody:    service.QuoteRequest{TourID: "da-lat-ngan-hoa", DepartureMonthLabel: "10/2025"},
			mockError:      pricing.ErrInvalidInput,
			expectedStatus: http.StatusUnprocessableEntity,
			shouldCallMock: true,
		},
		{
			name: "unknown month maps to not found",
			requestBody: service.QuoteRequest{
				TourID:              "da-lat-ngan-hoa",
				DepartureMonthLabel: "99/9999",
				Travelers:           pricing.TravelerCount{Adults: 1},
			},
			mockError:      pricing.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			shouldCallMock: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockBookingService)
			handler := NewHandler(mockService, nil)
			router := setupTestRouter(handler)

			body, _ := json.Marshal(tt.requestBody)

			if tt.shouldCallMock {
				mockService.On("Quote", mock.Anything, mock.AnythingOfType("service.QuoteRequest")).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/quotes", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHandler_CreateBooking(t *testing.T) {
	bookingID := uuid.New()

	validReq := service.CreateBookingRequest{
		QuoteRequest: service.QuoteRequest{
			TourID:              "ha-long-ninh-binh",
			DepartureMonthLabel: "10/2025",
			Travelers:           pricing.TravelerCount{Adults: 2},
		},
		CustomerName:  "Nguyễn Văn An",
		CustomerEmail: "an.nguyen@example.com",
	}

	tests := []struct {
		name           string
		requestBody    service.CreateBookingRequest
		mockReturn     *database.Booking
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name:        "valid booking",
			requestBody: validReq,
			mockReturn: &database.Booking{
				ID:          bookingID,
				TourID:      "ha-long-ninh-binh",
				Status:      database.BookingStatusPending,
				TotalAmount: 7180000,
			},
			expectedStatus: http.StatusCreated,
			shouldCallMock: true,
		},
		{
			name: "missing customer email",
			requestBody: service.CreateBookingRequest{
				QuoteRequest: validReq.QuoteRequest,
				CustomerName: "Nguyễn Văn An",
			},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
		{
			name: "missing customer name",
			requestBody: service.CreateBookingRequest{
				QuoteRequest:  validReq.QuoteRequest,
				CustomerEmail: "an.nguyen@example.com",
			},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
		{
			name: "missing tour id",
			requestBody: service.CreateBookingRequest{
				CustomerName:  "Nguyễn Văn An",
				CustomerEmail: "an.nguyen@example.com",
			},
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockBookingService)
			handler := NewHandler(mockService, nil)
			router := setupTestRouter(handler)

			body, _ := json.Marshal(tt.requestBody)

			if tt.shouldCallMock {
				mockService.On("CreateBooking", mock.Anything, mock.AnythingOfType("service.CreateBookingRequest")).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHandler_GetBooking(t *testing.T) {
	bookingID := uuid.New()

	tests := []struct {
		name           string
		bookingID      string
		mockReturn     *service.BookingStatusResponse
		mockError      error
		expectedStatus int
	}{
		{
			name:      "booking found",
			bookingID: bookingID.String(),
			mockReturn: &service.BookingStatusResponse{
				Booking:          &database.Booking{ID: bookingID, Status: database.BookingStatusAwaitingPayment},
				RemainingSeconds: 86000,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "booking not found",
			bookingID:      uuid.New().String(),
			mockReturn:     nil,
			mockError:      database.ErrNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockBookingService)
			handler := NewHandler(mockService, nil)
			router := setupTestRouter(handler)

			mockService.On("GetBooking", mock.Anything, tt.bookingID).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+tt.bookingID, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_ConfirmPayment(t *testing.T) {
	bookingID := uuid.New()

	tests := []struct {
		name           string
		gatewayRef     string
		mockError      error
		expectedStatus int
		shouldCallMock bool
	}{
		{
			name:           "payment confirmed",
			gatewayRef:     "PAY-8841",
			expectedStatus: http.StatusOK,
			shouldCallMock: true,
		},
		{
			name:           "missing gateway reference",
			gatewayRef:     "",
			expectedStatus: http.StatusBadRequest,
			shouldCallMock: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.MockBookingService)
			handler := NewHandler(mockService, nil)
			router := setupTestRouter(handler)

			if tt.shouldCallMock {
				mockService.On("ConfirmPayment", mock.Anything, bookingID.String(), tt.gatewayRef).Return(tt.mockError)
				mockService.On("GetBooking", mock.Anything, bookingID.String()).Return(&service.BookingStatusResponse{
					Booking: &database.Booking{ID: bookingID, Status: database.BookingStatusConfirmed},
				}, nil)
			}

			body, _ := json.Marshal(map[string]string{"gatewayRef": tt.gatewayRef})
			req := httptest.NewRequest(http.MethodPost, "/api/bookings/"+bookingID.String()+"/payment", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_CancelBooking(t *testing.T) {
	bookingID := uuid.New()

	mockService := new(mocks.MockBookingService)
	handler := NewHandler(mockService, nil)
	router := setupTestRouter(handler)

	mockService.On("CancelBooking", mock.Anything, bookingID.String()).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/bookings/"+bookingID.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}
