package booking_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dubaiboating/boating-app/internal/domain/booking"
	"github.com/dubaiboating/boating-app/internal/pkg/marketapi"
	"github.com/dubaiboating/boating-app/internal/session"
)

type fakeIdentity struct {
	user *session.User
}

func (f *fakeIdentity) CurrentUser(ctx context.Context) (*session.User, error) {
	if f.user == nil {
		return nil, session.ErrNoSession
	}
	return f.user, nil
}

type fakeSubmitter struct {
	calls    int
	lastReq  marketapi.BookingRequest
	receipt  *marketapi.BookingReceipt
	err      error
	block    chan struct{}
	started  chan struct{}
}

func (f *fakeSubmitter) submit(ctx context.Context, req marketapi.BookingRequest) (*marketapi.BookingReceipt, error) {
	f.calls++
	f.lastReq = req
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.receipt != nil {
		return f.receipt, nil
	}
	return &marketapi.BookingReceipt{Message: "ok"}, nil
}

func signedIn() *fakeIdentity {
	return &fakeIdentity{user: &session.User{UserID: 42, Username: "sailor"}}
}

func TestBookNowWithoutSelection(t *testing.T) {
	form := booking.NewForm(100)
	submitter := &fakeSubmitter{}
	orch := booking.NewOrchestrator(7, form, signedIn(), submitter.submit)

	_, err := orch.BookNow(context.Background())
	if !errors.Is(err, booking.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if err.Error() != "Please select either hourly booking or date range" {
		t.Fatalf("unexpected validation message: %q", err.Error())
	}
	if submitter.calls != 0 {
		t.Fatalf("no network call expected, got %d", submitter.calls)
	}
}

func TestBookNowDateToOnlyIsRejected(t *testing.T) {
	form := booking.NewForm(100)
	if err := form.SetDateTo(9); err != nil {
		t.Fatal(err)
	}
	submitter := &fakeSubmitter{}
	orch := booking.NewOrchestrator(7, form, signedIn(), submitter.submit)

	if _, err := orch.BookNow(context.Background()); !errors.Is(err, booking.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if submitter.calls != 0 {
		t.Fatalf("no network call expected, got %d", submitter.calls)
	}
}

func TestBookNowRequiresSession(t *testing.T) {
	form := booking.NewForm(100)
	if err := form.SetHourly(mustTime(t, "10:00"), 2); err != nil {
		t.Fatal(err)
	}
	submitter := &fakeSubmitter{}
	orch := booking.NewOrchestrator(7, form, &fakeIdentity{}, submitter.submit)

	if _, err := orch.BookNow(context.Background()); !errors.Is(err, booking.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if submitter.calls != 0 {
		t.Fatalf("no network call expected, got %d", submitter.calls)
	}
}

func TestBookNowHourlySuccess(t *testing.T) {
	form := booking.NewForm(100)
	if err := form.SetHourly(mustTime(t, "10:00"), 3); err != nil {
		t.Fatal(err)
	}
	submitter := &fakeSubmitter{}
	orch := booking.NewOrchestrator(7, form, signedIn(), submitter.submit)

	confirmation, err := orch.BookNow(context.Background())
	if err != nil {
		t.Fatalf("BookNow: %v", err)
	}

	req := submitter.lastReq
	if req.BoatID != 7 || req.UserID != 42 {
		t.Fatalf("unexpected ids: boat=%d user=%d", req.BoatID, req.UserID)
	}
	if req.Status != "pending" {
		t.Fatalf("expected status pending, got %q", req.Status)
	}
	if req.StartTime == nil || *req.StartTime != "10:00" {
		t.Fatalf("unexpected start time: %v", req.StartTime)
	}
	if req.EndTime == nil || *req.EndTime != "13:00" {
		t.Fatalf("unexpected end time: %v", req.EndTime)
	}
	if req.EndDate != nil {
		t.Fatal("hourly booking must not carry an end date")
	}
	if req.TotalPrice != 300 {
		t.Fatalf("expected total 300, got %v", req.TotalPrice)
	}
	if req.IdempotencyKey == "" {
		t.Fatal("expected idempotency key")
	}

	want := booking.DefaultReferenceMonth().FormatDay(time.Now().Day())
	if req.BookingDate == nil || *req.BookingDate != want {
		t.Fatalf("unexpected booking date: %v (want %s)", req.BookingDate, want)
	}

	if confirmation.Message != booking.ConfirmationMessage {
		t.Fatalf("unexpected confirmation: %q", confirmation.Message)
	}
}

func TestBookNowDailyWireFormat(t *testing.T) {
	form := booking.NewForm(50)
	if err := form.SetDateFrom(5); err != nil {
		t.Fatal(err)
	}
	if err := form.SetDateTo(7); err != nil {
		t.Fatal(err)
	}
	submitter := &fakeSubmitter{}
	orch := booking.NewOrchestrator(9, form, signedIn(), submitter.submit)

	if _, err := orch.BookNow(context.Background()); err != nil {
		t.Fatalf("BookNow: %v", err)
	}

	req := submitter.lastReq
	if req.BookingDate == nil || *req.BookingDate != "2024-11-05" {
		t.Fatalf("unexpected booking date: %v", req.BookingDate)
	}
	if req.EndDate == nil || *req.EndDate != "2024-11-07" {
		t.Fatalf("unexpected end date: %v", req.EndDate)
	}
	if req.StartTime != nil || req.EndTime != nil {
		t.Fatal("daily booking must not carry times")
	}
	if want := 50.0 * 24 * 3; req.TotalPrice != want {
		t.Fatalf("expected total %v, got %v", want, req.TotalPrice)
	}
}

func TestBookNowConfirmationText(t *testing.T) {
	form := booking.NewForm(100)
	if err := form.SetHourly(mustTime(t, "09:00"), 1); err != nil {
		t.Fatal(err)
	}
	submitter := &fakeSubmitter{}
	orch := booking.NewOrchestrator(7, form, signedIn(), submitter.submit)

	confirmation, err := orch.BookNow(context.Background())
	if err != nil {
		t.Fatalf("BookNow: %v", err)
	}

	for _, fragment := range []string{"within 24 hours", "051243567"} {
		if !strings.Contains(confirmation.Message, fragment) {
			t.Fatalf("confirmation missing %q: %s", fragment, confirmation.Message)
		}
	}
}

func TestBookNowSurfacesCollaboratorMessage(t *testing.T) {
	form := booking.NewForm(100)
	if err := form.SetHourly(mustTime(t, "10:00"), 1); err != nil {
		t.Fatal(err)
	}
	submitter := &fakeSubmitter{
		err: &marketapi.APIError{Status: 409, Message: "Slot unavailable"},
	}
	orch := booking.NewOrchestrator(7, form, signedIn(), submitter.submit)

	_, err := orch.BookNow(context.Background())
	var subErr *booking.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.Message != "Slot unavailable" {
		t.Fatalf("expected collaborator message verbatim, got %q", subErr.Message)
	}
}

func TestBookNowFallbackMessage(t *testing.T) {
	form := booking.NewForm(100)
	if err := form.SetHourly(mustTime(t, "10:00"), 1); err != nil {
		t.Fatal(err)
	}
	submitter := &fakeSubmitter{err: errors.New("connection reset")}
	orch := booking.NewOrchestrator(7, form, signedIn(), submitter.submit)

	_, err := orch.BookNow(context.Background())
	var subErr *booking.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.Message != booking.FallbackSubmitMessage {
		t.Fatalf("expected fallback message, got %q", subErr.Message)
	}
	if !strings.Contains(errors.Unwrap(subErr).Error(), "connection reset") {
		t.Fatal("underlying error should be preserved")
	}
}

func TestBookNowRejectsOverlappingSubmits(t *testing.T) {
	form := booking.NewForm(100)
	if err := form.SetHourly(mustTime(t, "10:00"), 1); err != nil {
		t.Fatal(err)
	}
	submitter := &fakeSubmitter{
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	orch := booking.NewOrchestrator(7, form, signedIn(), submitter.submit)

	done := make(chan error, 1)
	go func() {
		_, err := orch.BookNow(context.Background())
		done <- err
	}()

	<-submitter.started
	if !orch.Submitting() {
		t.Fatal("orchestrator should report an in-flight submission")
	}

	if _, err := orch.BookNow(context.Background()); !errors.Is(err, booking.ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(submitter.block)
	if err := <-done; err != nil {
		t.Fatalf("first submission should succeed: %v", err)
	}
	if submitter.calls != 1 {
		t.Fatalf("expected exactly one network call, got %d", submitter.calls)
	}
	if orch.Submitting() {
		t.Fatal("orchestrator should be idle again")
	}
}

func TestBookNowAllowsManualResubmission(t *testing.T) {
	form := booking.NewForm(100)
	if err := form.SetHourly(mustTime(t, "10:00"), 1); err != nil {
		t.Fatal(err)
	}
	submitter := &fakeSubmitter{err: &marketapi.APIError{Status: 500, Message: "boom"}}
	orch := booking.NewOrchestrator(7, form, signedIn(), submitter.submit)

	if _, err := orch.BookNow(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	firstKey := submitter.lastReq.IdempotencyKey

	submitter.err = nil
	if _, err := orch.BookNow(context.Background()); err != nil {
		t.Fatalf("resubmission should succeed: %v", err)
	}
	if submitter.calls != 2 {
		t.Fatalf("expected two calls, got %d", submitter.calls)
	}
	if submitter.lastReq.IdempotencyKey == firstKey {
		t.Fatal("each attempt should carry a fresh idempotency key")
	}
}
