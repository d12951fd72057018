package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/BellSamaa/TourZen-sub001/internal/catalog"
	"github.com/BellSamaa/TourZen-sub001/internal/database"
	"github.com/BellSamaa/TourZen-sub001/internal/pricing"
	"github.com/BellSamaa/TourZen-sub001/internal/service"
)

// MockBookingService is a mock implementation of service.BookingService.
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) ListTours(ctx context.Context, query, region string, sort catalog.SortKey) []catalog.Tour {
	args := m.Called(ctx, query, region, sort)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]catalog.Tour)
}

func (m *MockBookingService) GetTour(ctx context.Context, tourID string) (*catalog.Tour, error) {
	args := m.Called(ctx, tourID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Tour), args.Error(1)
}

func (m *MockBookingService) ListRegions(ctx context.Context) []string {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockBookingService) ListAddOns(ctx context.Context, kind pricing.AddOnKind) []pricing.AddOn {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]pricing.AddOn)
}

func (m *MockBookingService) Quote(ctx context.Context, req service.QuoteRequest) (*pricing.BookingQuote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.BookingQuote), args.Error(1)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, req service.CreateBookingRequest) (*database.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.Booking), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, bookingID string) (*service.BookingStatusResponse, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingStatusResponse), args.Error(1)
}

func (m *MockBookingService) ListBookings(ctx context.Context, limit int) ([]database.Booking, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Booking), args.Error(1)
}

func (m *MockBookingService) ConfirmPayment(ctx context.Context, bookingID, gatewayRef string) error {
	args := m.Called(ctx, bookingID, gatewayRef)
	return args.Error(0)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, bookingID string) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockBookingService) SaveTour(ctx context.Context, tour catalog.Tour) error {
	args := m.Called(ctx, tour)
	return args.Error(0)
}

func (m *MockBookingService) ReloadCatalog(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
