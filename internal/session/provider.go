package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType for session change notifications
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

const sessionChannel = "session:events"

// Event is delivered to every subscriber when the session changes.
// User is set for sign-in events only.
type Event struct {
	Type EventType `json:"type"`
	User *User     `json:"user,omitempty"`
}

// Listener receives session events.
type Listener func(Event)

type eventEnvelope struct {
	SenderInstanceID string `json:"sender_instance_id"`
	Event            Event  `json:"event"`
}

// Provider is the process-wide identity source. Components read the
// current user through it instead of poking at storage directly, and
// subscribe to hear about sign-in/sign-out from any open view. With
// Redis configured, events fan out across processes over pub/sub.
type Provider struct {
	store Store
	redis *redis.Client

	mu     sync.RWMutex
	subs   map[int]Listener
	nextID int

	instanceID string
	pubsub     *redis.PubSub
	cancel     context.CancelFunc
}

// NewProvider creates a session provider. redisClient may be nil, in
// which case events stay within this process.
func NewProvider(store Store, redisClient *redis.Client) *Provider {
	p := &Provider{
		store:      store,
		redis:      redisClient,
		subs:       make(map[int]Listener),
		instanceID: uuid.NewString(),
	}

	if redisClient != nil {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		p.pubsub = redisClient.Subscribe(ctx, sessionChannel)
		go p.listen(ctx)
	}

	return p
}

// CurrentUser returns the signed-in user or ErrNoSession.
func (p *Provider) CurrentUser(ctx context.Context) (*User, error) {
	u, err := p.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNoSession
	}
	return u, nil
}

// SignIn stores the user and notifies subscribers.
func (p *Provider) SignIn(ctx context.Context, u *User) error {
	if err := p.store.Save(ctx, u); err != nil {
		return err
	}
	p.publish(ctx, Event{Type: EventSignedIn, User: u})
	return nil
}

// SignOut clears the stored user and notifies subscribers, including
// those in other processes.
func (p *Provider) SignOut(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return err
	}
	p.publish(ctx, Event{Type: EventSignedOut})
	return nil
}

// Refresh replaces the cached user without emitting a sign-in event,
// for profile edits that change the cached fields.
func (p *Provider) Refresh(ctx context.Context, u *User) error {
	return p.store.Save(ctx, u)
}

// Subscribe registers a listener and returns its unsubscribe func.
func (p *Provider) Subscribe(l Listener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = l
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Close stops the cross-process event loop.
func (p *Provider) Close() {
	if p.cancel != nil {
		p.cancel()
	}
	if p.pubsub != nil {
		if err := p.pubsub.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing session pubsub")
		}
	}
}

func (p *Provider) publish(ctx context.Context, ev Event) {
	p.dispatch(ev)

	if p.redis == nil {
		return
	}

	payload, err := json.Marshal(eventEnvelope{
		SenderInstanceID: p.instanceID,
		Event:            ev,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal session event")
		return
	}

	if err := p.redis.Publish(ctx, sessionChannel, payload).Err(); err != nil {
		log.Error().Err(err).Str("channel", sessionChannel).Msg("Failed to publish session event")
	}
}

func (p *Provider) dispatch(ev Event) {
	p.mu.RLock()
	listeners := make([]Listener, 0, len(p.subs))
	for _, l := range p.subs {
		listeners = append(listeners, l)
	}
	p.mu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}

func (p *Provider) listen(ctx context.Context) {
	ch := p.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var envelope eventEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				log.Error().Err(err).Msg("Failed to decode session event")
				continue
			}
			// Local subscribers already heard this one directly.
			if envelope.SenderInstanceID == p.instanceID {
				continue
			}
			p.dispatch(envelope.Event)
		}
	}
}
