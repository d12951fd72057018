package workflows

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"

	"github.com/BellSamaa/TourZen-sub001/internal/activities"
)

type CheckoutWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *CheckoutWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.env.RegisterActivity(activities.NewActivities(nil, nil))
}

func (s *CheckoutWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func TestCheckoutWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutWorkflowTestSuite))
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{
		BookingID:     "b7e9a1d0-0000-4000-8000-000000000001",
		TourID:        "sapa-fansipan",
		TourTitle:     "Sapa - Fansipan Legend",
		CustomerName:  "Nguyễn Văn An",
		CustomerEmail: "an.nguyen@example.com",
		Travelers:     3,
		TotalAmount:   8975000,
	}
}

func (s *CheckoutWorkflowTestSuite) TestWorkflow_Constants() {
	s.Equal(24*time.Hour, PaymentHoldDuration, "Payment hold should be 24 hours")
	s.Equal("checkout-abc", CheckoutWorkflowID("abc"))
}

func (s *CheckoutWorkflowTestSuite) TestWorkflow_PaymentConfirmed() {
	input := checkoutInput()

	s.env.OnActivity("MarkAwaitingPayment", mock.Anything, mock.Anything).Return(nil)
	s.env.OnActivity("ConfirmBooking", mock.Anything, mock.Anything).Return(&activities.ConfirmBookingOutput{
		Reference: "TZb7e91234",
	}, nil)
	s.env.OnActivity("SendConfirmation", mock.Anything, mock.Anything).Return(nil)

	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalPaymentConfirmed, PaymentConfirmedSignal{
			GatewayRef: "PAY-8841",
		})
	}, time.Millisecond*100)

	s.env.ExecuteWorkflow(CheckoutWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result *CheckoutResult
	err := s.env.GetWorkflowResult(&result)
	s.NoError(err)
	s.True(result.Confirmed)
	s.Equal("TZb7e91234", result.Reference)
}

func (s *CheckoutWorkflowTestSuite) TestWorkflow_CancelSignal() {
	input := checkoutInput()

	s.env.OnActivity("MarkAwaitingPayment", mock.Anything, mock.Anything).Return(nil)
	s.env.OnActivity("RecordFailure", mock.Anything, activities.RecordFailureInput{
		BookingID: input.BookingID,
		Reason:    "cancelled",
	}).Return(nil)

	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalCancelBooking, nil)
	}, time.Millisecond*100)

	s.env.ExecuteWorkflow(CheckoutWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result *CheckoutResult
	err := s.env.GetWorkflowResult(&result)
	s.NoError(err)
	s.False(result.Confirmed)
	s.Equal("cancelled", result.FailureReason)
}

func (s *CheckoutWorkflowTestSuite) TestWorkflow_HoldExpires() {
	input := checkoutInput()

	s.env.OnActivity("MarkAwaitingPayment", mock.Anything, mock.Anything).Return(nil)
	s.env.OnActivity("RecordFailure", mock.Anything, activities.RecordFailureInput{
		BookingID: input.BookingID,
		Reason:    "expired",
	}).Return(nil)

	// No signals arrive; the test environment fast-forwards the 24h timer.
	s.env.ExecuteWorkflow(CheckoutWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result *CheckoutResult
	err := s.env.GetWorkflowResult(&result)
	s.NoError(err)
	s.False(result.Confirmed)
	s.Equal("expired", result.FailureReason)
}

func (s *CheckoutWorkflowTestSuite) TestWorkflow_ConfirmationFails() {
	input := checkoutInput()

	s.env.OnActivity("MarkAwaitingPayment", mock.Anything, mock.Anything).Return(nil)
	s.env.OnActivity("ConfirmBooking", mock.Anything, mock.Anything).Return(nil, errors.New("booking row vanished"))
	s.env.OnActivity("RecordFailure", mock.Anything, activities.RecordFailureInput{
		BookingID: input.BookingID,
		Reason:    "confirmation_failed",
	}).Return(nil)

	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalPaymentConfirmed, PaymentConfirmedSignal{GatewayRef: "PAY-1"})
	}, time.Millisecond*100)

	s.env.ExecuteWorkflow(CheckoutWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result *CheckoutResult
	err := s.env.GetWorkflowResult(&result)
	s.NoError(err)
	s.False(result.Confirmed)
	s.Equal("confirmation_failed", result.FailureReason)
}

func (s *CheckoutWorkflowTestSuite) TestWorkflow_EmailFailureDoesNotFailCheckout() {
	input := checkoutInput()

	s.env.OnActivity("MarkAwaitingPayment", mock.Anything, mock.Anything).Return(nil)
	s.env.OnActivity("ConfirmBooking", mock.Anything, mock.Anything).Return(&activities.ConfirmBookingOutput{
		Reference: "TZb7e90042",
	}, nil)
	s.env.OnActivity("SendConfirmation", mock.Anything, mock.Anything).Return(errors.New("mail provider down"))

	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(SignalPaymentConfirmed, PaymentConfirmedSignal{GatewayRef: "PAY-2"})
	}, time.Millisecond*100)

	s.env.ExecuteWorkflow(CheckoutWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result *CheckoutResult
	err := s.env.GetWorkflowResult(&result)
	s.NoError(err)
	s.True(result.Confirmed)
	s.Equal("TZb7e90042", result.Reference)
}

func (s *CheckoutWorkflowTestSuite) TestWorkflow_StateQuery() {
	input := checkoutInput()

	s.env.OnActivity("MarkAwaitingPayment", mock.Anything, mock.Anything).Return(nil)
	s.env.OnActivity("ConfirmBooking", mock.Anything, mock.Anything).Return(&activities.ConfirmBookingOutput{
		Reference: "TZb7e97777",
	}, nil)
	s.env.OnActivity("SendConfirmation", mock.Anything, mock.Anything).Return(nil)

	s.env.RegisterDelayedCallback(func() {
		v, err := s.env.QueryWorkflow(QueryCheckoutState)
		s.NoError(err)
		var state CheckoutState
		s.NoError(v.Get(&state))
		s.Equal("awaiting_payment", state.Status)
		s.False(state.PaymentDeadline.IsZero())

		s.env.SignalWorkflow(SignalPaymentConfirmed, PaymentConfirmedSignal{GatewayRef: "PAY-3"})
	}, time.Millisecond*100)

	s.env.ExecuteWorkflow(CheckoutWorkflow, input)

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}
