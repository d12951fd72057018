package database

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus tracks a booking through checkout.
type BookingStatus string

const (
	BookingStatusPending         BookingStatus = "pending"
	BookingStatusAwaitingPayment BookingStatus = "awaiting_payment"
	BookingStatusConfirmed       BookingStatus = "confirmed"
	BookingStatusCancelled       BookingStatus = "cancelled"
	BookingStatusExpired         BookingStatus = "expired"
	BookingStatusFailed          BookingStatus = "failed"
)

// Booking is a persisted booking record. The quote that produced it is
// stored itemized so back-office can audit what the customer saw.
type Booking struct {
	ID                    uuid.UUID     `json:"id"`
	TourID                string        `json:"tourId"`
	TourTitle             string        `json:"tourTitle"`
	DepartureMonthLabel   string        `json:"departureMonthLabel"`
	CustomerName          string        `json:"customerName"`
	CustomerEmail         string        `json:"customerEmail"`
	UserID                *string       `json:"userId,omitempty"` // opaque session identifier, never inspected
	Adults                int           `json:"adults"`
	Children              int           `json:"children"`
	Infants               int           `json:"infants"`
	ApplySingleSupplement bool          `json:"applySingleSupplement"`
	AddOnIDs              []string      `json:"addOnIds,omitempty"`
	QuoteJSON             []byte        `json:"-"`
	TotalAmount           int64         `json:"totalAmount"`
	Status                BookingStatus `json:"status"`
	Reference             *string       `json:"reference,omitempty"`
	FailureReason         *string       `json:"failureReason,omitempty"`
	WorkflowID            *string       `json:"workflowId,omitempty"`
	PaymentDeadline       *time.Time    `json:"paymentDeadline,omitempty"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}
