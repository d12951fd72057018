package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/BellSamaa/TourZen-sub001/internal/activities"
)

const (
	// CheckoutWorkflowName is the registered workflow name.
	CheckoutWorkflowName = "CheckoutWorkflow"

	// PaymentHoldDuration is how long a booking waits for the payment
	// gateway before expiring.
	PaymentHoldDuration = 24 * time.Hour

	SignalPaymentConfirmed = "payment-confirmed"
	SignalCancelBooking    = "cancel-booking"
	QueryCheckoutState     = "checkout-state"
)

// CheckoutWorkflowID derives the deterministic workflow id for a booking.
func CheckoutWorkflowID(bookingID string) string {
	return "checkout-" + bookingID
}

// CheckoutInput is the input for the checkout workflow.
type CheckoutInput struct {
	BookingID     string `json:"bookingId"`
	TourID        string `json:"tourId"`
	TourTitle     string `json:"tourTitle"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	Travelers     int    `json:"travelers"`
	TotalAmount   int64  `json:"totalAmount"`
}

// CheckoutResult is the terminal outcome of the checkout workflow.
type CheckoutResult struct {
	Confirmed     bool   `json:"confirmed"`
	Reference     string `json:"reference,omitempty"`
	FailureReason string `json:"failureReason,omitempty"`
}

// PaymentConfirmedSignal is sent when the payment collaborator reports a
// completed payment. GatewayRef is opaque; this system never parses gateway
// payloads.
type PaymentConfirmedSignal struct {
	GatewayRef string `json:"gatewayRef"`
}

// CheckoutState is the queryable in-flight state.
type CheckoutState struct {
	Status          string    `json:"status"`
	PaymentDeadline time.Time `json:"paymentDeadline"`
	GatewayRef      string    `json:"gatewayRef,omitempty"`
	Reference       string    `json:"reference,omitempty"`
}

// CheckoutWorkflow holds a pending booking while the customer completes
// payment with the external gateway. It waits for a payment-confirmed or
// cancel signal, expires the booking when the hold lapses, and on success
// confirms the record and sends the voucher.
func CheckoutWorkflow(ctx workflow.Context, input CheckoutInput) (*CheckoutResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Checkout workflow started", "bookingId", input.BookingID)

	activityOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOpts)

	deadline := workflow.Now(ctx).Add(PaymentHoldDuration)
	state := CheckoutState{
		Status:          "awaiting_payment",
		PaymentDeadline: deadline,
	}
	if err := workflow.SetQueryHandler(ctx, QueryCheckoutState, func() (CheckoutState, error) {
		return state, nil
	}); err != nil {
		return nil, err
	}

	err := workflow.ExecuteActivity(ctx, "MarkAwaitingPayment", activities.MarkAwaitingPaymentInput{
		BookingID: input.BookingID,
		Deadline:  deadline,
	}).Get(ctx, nil)
	if err != nil {
		logger.Error("Failed to mark booking awaiting payment", "error", err)
	}

	paymentCh := workflow.GetSignalChannel(ctx, SignalPaymentConfirmed)
	cancelCh := workflow.GetSignalChannel(ctx, SignalCancelBooking)

	var paid, cancelled, expired bool
	var gatewayRef string

	for !paid && !cancelled && !expired {
		selector := workflow.NewSelector(ctx)

		selector.AddReceive(paymentCh, func(c workflow.ReceiveChannel, more bool) {
			var signal PaymentConfirmedSignal
			c.Receive(ctx, &signal)
			logger.Info("Payment confirmed", "bookingId", input.BookingID, "gatewayRef", signal.GatewayRef)
			paid = true
			gatewayRef = signal.GatewayRef
		})

		selector.AddReceive(cancelCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			logger.Info("Booking cancelled by customer", "bookingId", input.BookingID)
			cancelled = true
		})

		timeUntilDeadline := deadline.Sub(workflow.Now(ctx))
		if timeUntilDeadline <= 0 {
			expired = true
			break
		}
		selector.AddFuture(workflow.NewTimer(ctx, timeUntilDeadline), func(f workflow.Future) {
			logger.Info("Payment hold expired", "bookingId", input.BookingID)
			expired = true
		})

		selector.Select(ctx)

		if ctx.Err() != nil {
			cancelled = true
		}
	}

	if cancelled || expired {
		reason := "cancelled"
		if expired {
			reason = "expired"
		}
		// Record the terminal state on a disconnected context so workflow
		// cancellation does not abort the bookkeeping.
		cleanupCtx, _ := workflow.NewDisconnectedContext(ctx)
		cleanupCtx = workflow.WithActivityOptions(cleanupCtx, activityOpts)
		if err := workflow.ExecuteActivity(cleanupCtx, "RecordFailure", activities.RecordFailureInput{
			BookingID: input.BookingID,
			Reason:    reason,
		}).Get(cleanupCtx, nil); err != nil {
			logger.Error("Failed to record booking failure", "error", err)
		}
		state.Status = reason
		return &CheckoutResult{Confirmed: false, FailureReason: reason}, nil
	}

	state.GatewayRef = gatewayRef
	state.Status = "confirming"

	var confirmOut activities.ConfirmBookingOutput
	err = workflow.ExecuteActivity(ctx, "ConfirmBooking", activities.ConfirmBookingInput{
		BookingID:  input.BookingID,
		TourID:     input.TourID,
		Travelers:  input.Travelers,
		GatewayRef: gatewayRef,
	}).Get(ctx, &confirmOut)
	if err != nil {
		logger.Error("Failed to confirm booking", "error", err)
		if ferr := workflow.ExecuteActivity(ctx, "RecordFailure", activities.RecordFailureInput{
			BookingID: input.BookingID,
			Reason:    "confirmation_failed",
		}).Get(ctx, nil); ferr != nil {
			logger.Error("Failed to record booking failure", "error", ferr)
		}
		state.Status = "failed"
		return &CheckoutResult{Confirmed: false, FailureReason: "confirmation_failed"}, nil
	}

	state.Status = "confirmed"
	state.Reference = confirmOut.Reference

	if err := workflow.ExecuteActivity(ctx, "SendConfirmation", activities.SendConfirmationInput{
		BookingID:     input.BookingID,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		TourTitle:     input.TourTitle,
		Reference:     confirmOut.Reference,
		TotalAmount:   input.TotalAmount,
	}).Get(ctx, nil); err != nil {
		// Confirmation email is best effort; the booking stands.
		logger.Error("Failed to send confirmation email", "error", err)
	}

	logger.Info("Checkout complete", "bookingId", input.BookingID, "reference", confirmOut.Reference)
	return &CheckoutResult{Confirmed: true, Reference: confirmOut.Reference}, nil
}
