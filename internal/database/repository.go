package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BellSamaa/TourZen-sub001/internal/catalog"
	"github.com/BellSamaa/TourZen-sub001/internal/pricing"
)

var (
	ErrNotFound = errors.New("not found")
)

// Repository handles all database operations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// --- Catalog Operations ---

// LoadCatalog returns the full tour catalog with itineraries and departure
// months, in catalog order. This is the remote-query ingestion path; the
// YAML bundle loader in internal/catalog covers the static one.
func (r *Repository) LoadCatalog(ctx context.Context) ([]catalog.Tour, error) {
	query := `
		SELECT id, title, location, region, image_url, description,
		       duration_label, rating, base_price, is_featured, is_bestseller, sold_count
		FROM tours
		ORDER BY position ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tours: %w", err)
	}
	defer rows.Close()

	var tours []catalog.Tour
	index := make(map[string]int)
	for rows.Next() {
		var t catalog.Tour
		err := rows.Scan(
			&t.ID, &t.Title, &t.Location, &t.Region, &t.ImageURL, &t.Description,
			&t.DurationLabel, &t.Rating, &t.BasePrice, &t.IsFeatured, &t.IsBestseller, &t.SoldCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tour: %w", err)
		}
		index[t.ID] = len(tours)
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tours: %w", err)
	}

	if err := r.loadItineraries(ctx, tours, index); err != nil {
		return nil, err
	}
	if err := r.loadDepartures(ctx, tours, index); err != nil {
		return nil, err
	}
	return tours, nil
}

func (r *Repository) loadItineraries(ctx context.Context, tours []catalog.Tour, index map[string]int) error {
	rows, err := r.pool.Query(ctx, `
		SELECT tour_id, day_label, description
		FROM tour_itinerary
		ORDER BY tour_id, position ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to query itineraries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tourID string
		var day catalog.ItineraryDay
		if err := rows.Scan(&tourID, &day.Day, &day.Description); err != nil {
			return fmt.Errorf("failed to scan itinerary day: %w", err)
		}
		if i, ok := index[tourID]; ok {
			tours[i].Itinerary = append(tours[i].Itinerary, day)
		}
	}
	return rows.Err()
}

func (r *Repository) loadDepartures(ctx context.Context, tours []catalog.Tour, index map[string]int) error {
	rows, err := r.pool.Query(ctx, `
		SELECT tour_id, month_label, departure_dates, price_adult, price_child,
		       price_infant, price_single_supplement, promotion, family_note, flight_deal, notes
		FROM tour_departures
		ORDER BY tour_id, position ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to query departures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tourID string
		var d catalog.DepartureMonth
		err := rows.Scan(
			&tourID, &d.MonthLabel, &d.DepartureDates, &d.Prices.Adult, &d.Prices.Child,
			&d.Prices.Infant, &d.Prices.SingleSupplement, &d.Promotion, &d.FamilyNote, &d.FlightDeal, &d.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to scan departure month: %w", err)
		}
		if i, ok := index[tourID]; ok {
			tours[i].Departures = append(tours[i].Departures, d)
		}
	}
	return rows.Err()
}

// LoadAddOns returns the add-on service catalog in catalog order.
func (r *Repository) LoadAddOns(ctx context.Context) ([]pricing.AddOn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, kind
		FROM addon_services
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query add-ons: %w", err)
	}
	defer rows.Close()

	var addOns []pricing.AddOn
	for rows.Next() {
		var a pricing.AddOn
		if err := rows.Scan(&a.ID, &a.Name, &a.Price, &a.Kind); err != nil {
			return nil, fmt.Errorf("failed to scan add-on: %w", err)
		}
		addOns = append(addOns, a)
	}
	return addOns, rows.Err()
}

// UpsertAddOn writes one add-on service record.
func (r *Repository) UpsertAddOn(ctx context.Context, position int, a pricing.AddOn) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO addon_services (id, name, price, kind, position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, price = EXCLUDED.price, kind = EXCLUDED.kind
	`, a.ID, a.Name, a.Price, a.Kind, position)
	if err != nil {
		return fmt.Errorf("failed to upsert add-on: %w", err)
	}
	return nil
}

// CountTours reports how many tours are stored; used to decide whether the
// seed bundle should be applied.
func (r *Repository) CountTours(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tours`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tours: %w", err)
	}
	return n, nil
}

// UpsertTour writes a tour and its child rows in one transaction. Used by
// the admin back-office; the in-memory store is reloaded afterwards.
func (r *Repository) UpsertTour(ctx context.Context, t catalog.Tour) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO tours (id, title, location, region, image_url, description,
		                   duration_label, rating, base_price, is_featured, is_bestseller, sold_count, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        COALESCE((SELECT position FROM tours WHERE id = $1),
		                 (SELECT COALESCE(MAX(position), 0) + 1 FROM tours)))
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, location = EXCLUDED.location, region = EXCLUDED.region,
			image_url = EXCLUDED.image_url, description = EXCLUDED.description,
			duration_label = EXCLUDED.duration_label, rating = EXCLUDED.rating,
			base_price = EXCLUDED.base_price, is_featured = EXCLUDED.is_featured,
			is_bestseller = EXCLUDED.is_bestseller, updated_at = NOW()
	`, t.ID, t.Title, t.Location, t.Region, t.ImageURL, t.Description,
		t.DurationLabel, t.Rating, t.BasePrice, t.IsFeatured, t.IsBestseller, t.SoldCount)
	if err != nil {
		return fmt.Errorf("failed to upsert tour: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tour_itinerary WHERE tour_id = $1`, t.ID); err != nil {
		return fmt.Errorf("failed to clear itinerary: %w", err)
	}
	for i, day := range t.Itinerary {
		_, err := tx.Exec(ctx, `
			INSERT INTO tour_itinerary (tour_id, position, day_label, description)
			VALUES ($1, $2, $3, $4)
		`, t.ID, i, day.Day, day.Description)
		if err != nil {
			return fmt.Errorf("failed to insert itinerary day: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tour_departures WHERE tour_id = $1`, t.ID); err != nil {
		return fmt.Errorf("failed to clear departures: %w", err)
	}
	for i, d := range t.Departures {
		_, err := tx.Exec(ctx, `
			INSERT INTO tour_departures (tour_id, position, month_label, departure_dates,
			                             price_adult, price_child, price_infant, price_single_supplement,
			                             promotion, family_note, flight_deal, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, t.ID, i, d.MonthLabel, d.DepartureDates,
			d.Prices.Adult, d.Prices.Child, d.Prices.Infant, d.Prices.SingleSupplement,
			d.Promotion, d.FamilyNote, d.FlightDeal, d.Notes)
		if err != nil {
			return fmt.Errorf("failed to insert departure month: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// IncrementSoldCount bumps a tour's sold counter after a confirmed booking.
// This is the only writer of the field the popularity sort reads.
func (r *Repository) IncrementSoldCount(ctx context.Context, tourID string, travelers int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tours SET sold_count = sold_count + $1, updated_at = NOW() WHERE id = $2
	`, travelers, tourID)
	if err != nil {
		return fmt.Errorf("failed to increment sold count: %w", err)
	}
	return nil
}

// --- Booking Operations ---

// CreateBooking persists a new pending booking.
func (r *Repository) CreateBooking(ctx context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO bookings (id, tour_id, tour_title, departure_month_label,
		                      customer_name, customer_email, user_id,
		                      adults, children, infants, apply_single_supplement,
		                      addon_ids, quote, total_amount, status, workflow_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`, b.ID, b.TourID, b.TourTitle, b.DepartureMonthLabel,
		b.CustomerName, b.CustomerEmail, b.UserID,
		b.Adults, b.Children, b.Infants, b.ApplySingleSupplement,
		b.AddOnIDs, b.QuoteJSON, b.TotalAmount, b.Status, b.WorkflowID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetBookingByID returns a booking by id.
func (r *Repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	err := r.pool.QueryRow(ctx, `
		SELECT id, tour_id, tour_title, departure_month_label,
		       customer_name, customer_email, user_id,
		       adults, children, infants, apply_single_supplement,
		       addon_ids, quote, total_amount, status, reference, failure_reason,
		       workflow_id, payment_deadline, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`, id).Scan(
		&b.ID, &b.TourID, &b.TourTitle, &b.DepartureMonthLabel,
		&b.CustomerName, &b.CustomerEmail, &b.UserID,
		&b.Adults, &b.Children, &b.Infants, &b.ApplySingleSupplement,
		&b.AddOnIDs, &b.QuoteJSON, &b.TotalAmount, &b.Status, &b.Reference, &b.FailureReason,
		&b.WorkflowID, &b.PaymentDeadline, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// UpdateBookingStatus updates the status of a booking.
func (r *Repository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status BookingStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPaymentDeadline records when the payment hold for a booking lapses.
func (r *Repository) SetPaymentDeadline(ctx context.Context, id uuid.UUID, deadline time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE bookings SET payment_deadline = $1, status = $2, updated_at = NOW() WHERE id = $3
	`, deadline, BookingStatusAwaitingPayment, id)
	if err != nil {
		return fmt.Errorf("failed to set payment deadline: %w", err)
	}
	return nil
}

// ConfirmBooking marks a booking confirmed with its voucher reference.
func (r *Repository) ConfirmBooking(ctx context.Context, id uuid.UUID, reference string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings SET status = $1, reference = $2, updated_at = NOW() WHERE id = $3
	`, BookingStatusConfirmed, reference, id)
	if err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetBookingFailure records a terminal failure state and its reason.
func (r *Repository) SetBookingFailure(ctx context.Context, id uuid.UUID, status BookingStatus, reason string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE bookings SET status = $1, failure_reason = $2, updated_at = NOW() WHERE id = $3
	`, status, reason, id)
	if err != nil {
		return fmt.Errorf("failed to set booking failure: %w", err)
	}
	return nil
}

// ListBookings returns bookings newest first, for the back-office panel.
func (r *Repository) ListBookings(ctx context.Context, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, tour_id, tour_title, departure_month_label,
		       customer_name, customer_email, user_id,
		       adults, children, infants, apply_single_supplement,
		       addon_ids, quote, total_amount, status, reference, failure_reason,
		       workflow_id, payment_deadline, created_at, updated_at
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		err := rows.Scan(
			&b.ID, &b.TourID, &b.TourTitle, &b.DepartureMonthLabel,
			&b.CustomerName, &b.CustomerEmail, &b.UserID,
			&b.Adults, &b.Children, &b.Infants, &b.ApplySingleSupplement,
			&b.AddOnIDs, &b.QuoteJSON, &b.TotalAmount, &b.Status, &b.Reference, &b.FailureReason,
			&b.WorkflowID, &b.PaymentDeadline, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
