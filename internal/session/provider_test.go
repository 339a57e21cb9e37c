package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dubaiboating/boating-app/internal/session"
)

func TestCurrentUserWithoutSession(t *testing.T) {
	p := session.NewProvider(session.NewMemoryStore(), nil)
	defer p.Close()

	if _, err := p.CurrentUser(context.Background()); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSignInRoundTrip(t *testing.T) {
	p := session.NewProvider(session.NewMemoryStore(), nil)
	defer p.Close()
	ctx := context.Background()

	if err := p.SignIn(ctx, &session.User{UserID: 42, Username: "sailor", Email: "s@example.com"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	u, err := p.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if u.UserID != 42 || u.Username != "sailor" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := p.CurrentUser(ctx); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after sign-out, got %v", err)
	}
}

func TestSubscribersHearSessionEvents(t *testing.T) {
	p := session.NewProvider(session.NewMemoryStore(), nil)
	defer p.Close()
	ctx := context.Background()

	var events []session.Event
	unsubscribe := p.Subscribe(func(ev session.Event) {
		events = append(events, ev)
	})
	defer unsubscribe()

	if err := p.SignIn(ctx, &session.User{UserID: 7, Username: "captain"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := p.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != session.EventSignedIn || events[0].User == nil || events[0].User.UserID != 7 {
		t.Fatalf("unexpected sign-in event: %+v", events[0])
	}
	if events[1].Type != session.EventSignedOut || events[1].User != nil {
		t.Fatalf("unexpected sign-out event: %+v", events[1])
	}
}

func TestUnsubscribedListenerStaysQuiet(t *testing.T) {
	p := session.NewProvider(session.NewMemoryStore(), nil)
	defer p.Close()
	ctx := context.Background()

	calls := 0
	unsubscribe := p.Subscribe(func(session.Event) { calls++ })
	unsubscribe()

	if err := p.SignIn(ctx, &session.User{UserID: 1}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if calls != 0 {
		t.Fatalf("unsubscribed listener should not fire, got %d calls", calls)
	}
}

func TestRefreshDoesNotEmitEvents(t *testing.T) {
	p := session.NewProvider(session.NewMemoryStore(), nil)
	defer p.Close()
	ctx := context.Background()

	if err := p.SignIn(ctx, &session.User{UserID: 5, Phone: ""}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	calls := 0
	defer p.Subscribe(func(session.Event) { calls++ })()

	if err := p.Refresh(ctx, &session.User{UserID: 5, Phone: "+971 501234567"}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if calls != 0 {
		t.Fatalf("refresh should be silent, got %d events", calls)
	}

	u, err := p.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if u.Phone != "+971 501234567" {
		t.Fatalf("refreshed phone not stored: %q", u.Phone)
	}
}

func TestMemoryStoreCopiesUser(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	original := &session.User{UserID: 9, Username: "first"}
	if err := store.Save(ctx, original); err != nil {
		t.Fatalf("Save: %v", err)
	}
	original.Username = "mutated"

	u, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if u.Username != "first" {
		t.Fatalf("store should hold a copy, got %q", u.Username)
	}
}
