package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/BellSamaa/TourZen-sub001/internal/catalog"
	"github.com/BellSamaa/TourZen-sub001/internal/database"
	"github.com/BellSamaa/TourZen-sub001/internal/pricing"
	"github.com/BellSamaa/TourZen-sub001/internal/workflows"
)

const (
	// TaskQueue is the Temporal task queue shared with the worker.
	TaskQueue = "tour-checkout-queue"
)

// QuoteRequest is the input for pricing a booking attempt.
type QuoteRequest struct {
	TourID                string                `json:"tourId"`
	DepartureMonthLabel   string                `json:"departureMonthLabel"`
	Travelers             pricing.TravelerCount `json:"travelers"`
	ApplySingleSupplement bool                  `json:"applySingleSupplement"`
	AddOnIDs              []string              `json:"addOnIds"`
}

// CreateBookingRequest carries a quote request plus customer identity. The
// user id, when present, is an opaque token from the session collaborator.
type CreateBookingRequest struct {
	QuoteRequest
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	UserID        *string `json:"-"`
}

// BookingStatusResponse pairs a booking with the seconds remaining on its
// payment hold.
type BookingStatusResponse struct {
	Booking          *database.Booking `json:"booking"`
	RemainingSeconds int               `json:"remainingSeconds"`
}

// BookingService defines the booking service interface.
type BookingService interface {
	ListTours(ctx context.Context, query, region string, sort catalog.SortKey) []catalog.Tour
	GetTour(ctx context.Context, tourID string) (*catalog.Tour, error)
	ListRegions(ctx context.Context) []string
	ListAddOns(ctx context.Context, kind pricing.AddOnKind) []pricing.AddOn
	Quote(ctx context.Context, req QuoteRequest) (*pricing.BookingQuote, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*database.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*BookingStatusResponse, error)
	ListBookings(ctx context.Context, limit int) ([]database.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID, gatewayRef string) error
	CancelBooking(ctx context.Context, bookingID string) error
	SaveTour(ctx context.Context, tour catalog.Tour) error
	ReloadCatalog(ctx context.Context) error
}

// snapshot bundles the catalog state swapped atomically on reload.
type snapshot struct {
	store  *catalog.Store
	addOns []pricing.AddOn
}

// bookingServiceImpl implements BookingService.
type bookingServiceImpl struct {
	repo           *database.Repository
	temporalClient client.Client
	logger         *zap.Logger
	snap           atomic.Pointer[snapshot]
}

// NewBookingService creates a BookingService over an already-loaded catalog.
// repo and temporalClient may be nil in pure-catalog deployments (the static
// bundle path); booking operations then return an error instead of panicking.
func NewBookingService(store *catalog.Store, addOns []pricing.AddOn, repo *database.Repository, temporalClient client.Client, logger *zap.Logger) BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &bookingServiceImpl{
		repo:           repo,
		temporalClient: temporalClient,
		logger:         logger,
	}
	svc.snap.Store(&snapshot{store: store, addOns: addOns})
	return svc
}

func (s *bookingServiceImpl) catalogSnapshot() *snapshot {
	return s.snap.Load()
}

func (s *bookingServiceImpl) ListTours(ctx context.Context, query, region string, sort catalog.SortKey) []catalog.Tour {
	snap := s.catalogSnapshot()
	return catalog.FilterAndSort(snap.store.All(), query, region, sort)
}

func (s *bookingServiceImpl) GetTour(ctx context.Context, tourID string) (*catalog.Tour, error) {
	return s.catalogSnapshot().store.ByID(tourID)
}

func (s *bookingServiceImpl) ListRegions(ctx context.Context) []string {
	return s.catalogSnapshot().store.Regions()
}

func (s *bookingServiceImpl) ListAddOns(ctx context.Context, kind pricing.AddOnKind) []pricing.AddOn {
	addOns := s.catalogSnapshot().addOns
	if kind == "" {
		out := make([]pricing.AddOn, len(addOns))
		copy(out, addOns)
		return out
	}
	return pricing.FilterByKind(addOns, kind)
}

func (s *bookingServiceImpl) Quote(ctx context.Context, req QuoteRequest) (*pricing.BookingQuote, error) {
	snap := s.catalogSnapshot()

	tour, err := snap.store.ByID(req.TourID)
	if err != nil {
		return nil, err
	}
	addOns, err := pricing.ResolveAddOns(snap.addOns, req.AddOnIDs)
	if err != nil {
		return nil, err
	}
	return pricing.ComputeQuote(tour, req.DepartureMonthLabel, req.Travelers, req.ApplySingleSupplement, addOns)
}

func (s *bookingServiceImpl) CreateBooking(ctx context.Context, req CreateBookingRequest) (*database.Booking, error) {
	if s.repo == nil || s.temporalClient == nil {
		return nil, errors.New("booking is not available in catalog-only mode")
	}

	quote, err := s.Quote(ctx, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	quoteJSON, err := json.Marshal(quote)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quote: %w", err)
	}

	snap := s.catalogSnapshot()
	tour, err := snap.store.ByID(req.TourID)
	if err != nil {
		return nil, err
	}

	bookingID := uuid.New()
	workflowID := workflows.CheckoutWorkflowID(bookingID.String())
	booking := &database.Booking{
		ID:                    bookingID,
		TourID:                tour.ID,
		TourTitle:             tour.Title,
		DepartureMonthLabel:   req.DepartureMonthLabel,
		CustomerName:          req.CustomerName,
		CustomerEmail:         req.CustomerEmail,
		UserID:                req.UserID,
		Adults:                req.Travelers.Adults,
		Children:              req.Travelers.Children,
		Infants:               req.Travelers.Infants,
		ApplySingleSupplement: req.ApplySingleSupplement,
		AddOnIDs:              req.AddOnIDs,
		QuoteJSON:             quoteJSON,
		TotalAmount:           quote.Total,
		Status:                database.BookingStatusPending,
		WorkflowID:            &workflowID,
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	input := workflows.CheckoutInput{
		BookingID:     booking.ID.String(),
		TourID:        tour.ID,
		TourTitle:     tour.Title,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Travelers:     req.Travelers.Total(),
		TotalAmount:   quote.Total,
	}
	_, err = s.temporalClient.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: TaskQueue,
	}, workflows.CheckoutWorkflowName, input)
	if err != nil {
		// The booking row exists but checkout never started; mark it so
		// back-office sees the stuck record.
		if ferr := s.repo.SetBookingFailure(ctx, booking.ID, database.BookingStatusFailed, "checkout workflow failed to start"); ferr != nil {
			s.logger.Error("failed to record workflow start failure", zap.Error(ferr))
		}
		return nil, fmt.Errorf("failed to start checkout workflow: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("bookingId", booking.ID.String()),
		zap.String("tourId", tour.ID),
		zap.Int64("total", quote.Total))
	return booking, nil
}

func (s *bookingServiceImpl) GetBooking(ctx context.Context, bookingID string) (*BookingStatusResponse, error) {
	if s.repo == nil {
		return nil, errors.New("booking is not available in catalog-only mode")
	}
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, database.ErrNotFound
	}

	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &BookingStatusResponse{
		Booking:          booking,
		RemainingSeconds: remainingSeconds(booking),
	}, nil
}

func (s *bookingServiceImpl) ListBookings(ctx context.Context, limit int) ([]database.Booking, error) {
	if s.repo == nil {
		return nil, errors.New("booking is not available in catalog-only mode")
	}
	return s.repo.ListBookings(ctx, limit)
}

func (s *bookingServiceImpl) ConfirmPayment(ctx context.Context, bookingID, gatewayRef string) error {
	if s.temporalClient == nil {
		return errors.New("booking is not available in catalog-only mode")
	}
	workflowID := workflows.CheckoutWorkflowID(bookingID)
	return s.temporalClient.SignalWorkflow(ctx, workflowID, "", workflows.SignalPaymentConfirmed, workflows.PaymentConfirmedSignal{
		GatewayRef: gatewayRef,
	})
}

func (s *bookingServiceImpl) CancelBooking(ctx context.Context, bookingID string) error {
	if s.temporalClient == nil {
		return errors.New("booking is not available in catalog-only mode")
	}
	workflowID := workflows.CheckoutWorkflowID(bookingID)
	return s.temporalClient.SignalWorkflow(ctx, workflowID, "", workflows.SignalCancelBooking, nil)
}

func (s *bookingServiceImpl) SaveTour(ctx context.Context, tour catalog.Tour) error {
	if s.repo == nil {
		return errors.New("catalog is read-only in catalog-only mode")
	}
	if err := s.repo.UpsertTour(ctx, tour); err != nil {
		return err
	}
	return s.ReloadCatalog(ctx)
}

// ReloadCatalog re-reads tours and add-ons from the database and swaps the
// in-memory snapshot. The store itself stays immutable; readers holding the
// old snapshot finish against consistent data.
func (s *bookingServiceImpl) ReloadCatalog(ctx context.Context) error {
	if s.repo == nil {
		return errors.New("catalog is read-only in catalog-only mode")
	}

	tours, err := s.repo.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	store, err := catalog.NewStore(tours)
	if err != nil {
		return err
	}
	addOns, err := s.repo.LoadAddOns(ctx)
	if err != nil {
		return err
	}

	s.snap.Store(&snapshot{store: store, addOns: addOns})
	s.logger.Info("catalog reloaded", zap.Int("tours", store.Len()), zap.Int("addOns", len(addOns)))
	return nil
}

func remainingSeconds(b *database.Booking) int {
	if b.PaymentDeadline == nil || b.Status != database.BookingStatusAwaitingPayment {
		return 0
	}
	remaining := int(time.Until(*b.PaymentDeadline).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}
