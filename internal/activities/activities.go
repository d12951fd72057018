package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/BellSamaa/TourZen-sub001/internal/database"
	"github.com/BellSamaa/TourZen-sub001/internal/mailer"
	"github.com/BellSamaa/TourZen-sub001/internal/pricing"
	"github.com/BellSamaa/TourZen-sub001/internal/voucher"
)

// Activities bundles the checkout workflow's side effects with their
// dependencies.
type Activities struct {
	repo   *database.Repository
	mailer *mailer.Mailer
}

// NewActivities creates the activity set.
func NewActivities(repo *database.Repository, m *mailer.Mailer) *Activities {
	return &Activities{repo: repo, mailer: m}
}

type MarkAwaitingPaymentInput struct {
	BookingID string    `json:"bookingId"`
	Deadline  time.Time `json:"deadline"`
}

// MarkAwaitingPayment records the payment hold deadline on the booking.
func (a *Activities) MarkAwaitingPayment(ctx context.Context, input MarkAwaitingPaymentInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Marking booking awaiting payment", "bookingId", input.BookingID, "deadline", input.Deadline)

	id, err := uuid.Parse(input.BookingID)
	if err != nil {
		return fmt.Errorf("invalid booking id %q: %w", input.BookingID, err)
	}
	return a.repo.SetPaymentDeadline(ctx, id, input.Deadline)
}

type ConfirmBookingInput struct {
	BookingID  string `json:"bookingId"`
	TourID     string `json:"tourId"`
	Travelers  int    `json:"travelers"`
	GatewayRef string `json:"gatewayRef"`
}

type ConfirmBookingOutput struct {
	Reference string `json:"reference"`
}

// ConfirmBooking marks the booking confirmed, issues the voucher reference
// and bumps the tour's sold counter.
func (a *Activities) ConfirmBooking(ctx context.Context, input ConfirmBookingInput) (*ConfirmBookingOutput, error) {
	logger := activity.GetLogger(ctx)

	id, err := uuid.Parse(input.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking id %q: %w", input.BookingID, err)
	}

	reference := fmt.Sprintf("TZ%s%04d", input.BookingID[:4], time.Now().Unix()%10000)
	if err := a.repo.ConfirmBooking(ctx, id, reference); err != nil {
		return nil, err
	}

	if err := a.repo.IncrementSoldCount(ctx, input.TourID, input.Travelers); err != nil {
		// The booking is confirmed either way; popularity data is advisory.
		logger.Warn("Failed to increment sold count", "tourId", input.TourID, "error", err)
	}

	logger.Info("Booking confirmed", "bookingId", input.BookingID, "reference", reference)
	return &ConfirmBookingOutput{Reference: reference}, nil
}

type RecordFailureInput struct {
	BookingID string `json:"bookingId"`
	Reason    string `json:"reason"`
}

// RecordFailure moves a booking to its terminal failure state.
func (a *Activities) RecordFailure(ctx context.Context, input RecordFailureInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Recording booking failure", "bookingId", input.BookingID, "reason", input.Reason)

	id, err := uuid.Parse(input.BookingID)
	if err != nil {
		return fmt.Errorf("invalid booking id %q: %w", input.BookingID, err)
	}

	status := database.BookingStatusFailed
	switch input.Reason {
	case "cancelled":
		status = database.BookingStatusCancelled
	case "expired":
		status = database.BookingStatusExpired
	}
	return a.repo.SetBookingFailure(ctx, id, status, input.Reason)
}

type SendConfirmationInput struct {
	BookingID     string `json:"bookingId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	TourTitle     string `json:"tourTitle"`
	Reference     string `json:"reference"`
	TotalAmount   int64  `json:"totalAmount"`
}

// SendConfirmation emails the customer their voucher PDF.
func (a *Activities) SendConfirmation(ctx context.Context, input SendConfirmationInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Sending confirmation email", "bookingId", input.BookingID, "to", input.CustomerEmail)

	id, err := uuid.Parse(input.BookingID)
	if err != nil {
		return fmt.Errorf("invalid booking id %q: %w", input.BookingID, err)
	}

	booking, err := a.repo.GetBookingByID(ctx, id)
	if err != nil {
		return err
	}

	var quote pricing.BookingQuote
	if len(booking.QuoteJSON) > 0 {
		if err := json.Unmarshal(booking.QuoteJSON, &quote); err != nil {
			return fmt.Errorf("failed to decode stored quote: %w", err)
		}
	}

	pdf, err := voucher.Generate(booking, &quote)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Xác nhận đặt tour %s - mã %s", input.TourTitle, input.Reference)
	html := fmt.Sprintf(
		`<p>Chào %s,</p>
<p>Đơn đặt tour <b>%s</b> của bạn đã được xác nhận.</p>
<p>Mã đặt chỗ: <b>%s</b><br>Tổng tiền: <b>%d VND</b></p>
<p>Voucher đính kèm email này. Hẹn gặp bạn tại điểm khởi hành!</p>`,
		input.CustomerName, input.TourTitle, input.Reference, input.TotalAmount)

	return a.mailer.Send(ctx, input.CustomerEmail, subject, html,
		mailer.AttachPDF(fmt.Sprintf("voucher-%s.pdf", input.Reference), pdf))
}
