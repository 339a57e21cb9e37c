package booking

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dubaiboating/boating-app/internal/pkg/marketapi"
	"github.com/dubaiboating/boating-app/internal/pkg/validator"
	"github.com/dubaiboating/boating-app/internal/session"
)

// ConfirmationMessage is the fixed success dialog text.
const ConfirmationMessage = "Your booking request has been sent successfully! A representative will reach out to you within 24 hours. If you do not receive any reply please call 051243567."

// StatusPending is the only status the client ever submits.
const StatusPending = "pending"

// SubmitFunc delivers one booking request to the marketplace API.
// (*marketapi.Client).CreateBooking satisfies it.
type SubmitFunc func(ctx context.Context, req marketapi.BookingRequest) (*marketapi.BookingReceipt, error)

// Identity supplies the signed-in user; session.Provider satisfies it.
type Identity interface {
	CurrentUser(ctx context.Context) (*session.User, error)
}

// Confirmation is the successful outcome of a submission.
type Confirmation struct {
	Message string
	Receipt *marketapi.BookingReceipt
}

// Orchestrator runs the submission workflow for one boat's booking
// form: validate the selection, resolve the session user, build and
// validate the request, hand it to the submit function once, and
// translate the outcome. One submission at a time per form.
type Orchestrator struct {
	boatID   int64
	form     *Form
	identity Identity
	submit   SubmitFunc
	refMonth ReferenceMonth

	inFlight atomic.Bool
}

// NewOrchestrator wires a booking form to a submit function.
func NewOrchestrator(boatID int64, form *Form, identity Identity, submit SubmitFunc) *Orchestrator {
	return &Orchestrator{
		boatID:   boatID,
		form:     form,
		identity: identity,
		submit:   submit,
		refMonth: DefaultReferenceMonth(),
	}
}

// SetReferenceMonth overrides the month that day-of-month selections
// resolve against.
func (o *Orchestrator) SetReferenceMonth(m ReferenceMonth) {
	o.refMonth = m
}

// Submitting reports whether a submission is in flight, so the
// book-now control can stay disabled for the full duration.
func (o *Orchestrator) Submitting() bool {
	return o.inFlight.Load()
}

// BookNow validates the current selection and submits it.
//
// Per attempt: Idle -> Validating -> Rejected (ErrNoSelection,
// ErrAuthRequired) or Submitting -> Succeeded (Confirmation) /
// Failed (*SubmissionError). Every path returns the orchestrator to
// Idle; failures are recoverable by resubmitting.
func (o *Orchestrator) BookNow(ctx context.Context) (*Confirmation, error) {
	sel := o.form.Selection()
	if sel.Mode == ModeNone || (sel.Mode == ModeDaily && sel.DateFrom == 0) {
		return nil, ErrNoSelection
	}

	// The guard flips before any slow work so rapid repeated clicks
	// cannot enqueue duplicate requests.
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer o.inFlight.Store(false)

	user, err := o.identity.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrAuthRequired
		}
		return nil, err
	}

	req := o.buildRequest(sel, user.UserID)
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		return nil, fmt.Errorf("booking request failed validation: %v", fieldErrors)
	}

	log.Debug().
		Int64("boat_id", req.BoatID).
		Int64("user_id", req.UserID).
		Str("mode", string(sel.Mode)).
		Float64("total_price", req.TotalPrice).
		Msg("Submitting booking request")

	receipt, err := o.submit(ctx, req)
	if err != nil {
		log.Error().Err(err).Int64("boat_id", req.BoatID).Msg("Booking submission failed")
		return nil, asSubmissionError(err)
	}

	return &Confirmation{Message: ConfirmationMessage, Receipt: receipt}, nil
}

func (o *Orchestrator) buildRequest(sel Selection, userID int64) marketapi.BookingRequest {
	req := marketapi.BookingRequest{
		BoatID:         o.boatID,
		UserID:         userID,
		TotalPrice:     o.form.TotalPrice(),
		Status:         StatusPending,
		IdempotencyKey: uuid.NewString(),
	}

	switch sel.Mode {
	case ModeHourly:
		start := sel.Start.String()
		end := o.form.EndTime()
		// Same-day rentals carry today's day-of-month resolved
		// against the reference month, like the daily picker.
		date := o.refMonth.FormatDay(time.Now().Day())
		req.BookingDate = &date
		req.StartTime = &start
		req.EndTime = &end
	case ModeDaily:
		from := o.refMonth.FormatDay(sel.DateFrom)
		req.BookingDate = &from
		if sel.DateTo != 0 {
			to := o.refMonth.FormatDay(sel.DateTo)
			req.EndDate = &to
		}
	}

	return req
}

func asSubmissionError(err error) error {
	var apiErr *marketapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &SubmissionError{Message: apiErr.Message, Err: err}
	}
	return &SubmissionError{Message: FallbackSubmitMessage, Err: err}
}
