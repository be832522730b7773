package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionID is used when a viewer does not carry a session id.
const DefaultSessionID = "default"

// SessionHeader and SessionQueryParam carry the session id on requests.
const (
	SessionHeader     = "X-Dashboard-Session"
	SessionQueryParam = "session"
)

// ResolveViewer picks the header value, then the query value, then DefaultSessionID.
func ResolveViewer(header, query string) ViewerContext {
	id := strings.TrimSpace(header)
	if id == "" {
		id = strings.TrimSpace(query)
	}
	if id == "" {
		id = DefaultSessionID
	}
	return ViewerContext{SessionID: id}
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// InMemorySessionStore creates sessions on first use and keeps them for the
// life of the process.
type InMemorySessionStore struct {
	mu    sync.RWMutex
	data  map[string]*Session
	seed  []Order
	clock func() time.Time
}

// SessionStoreOption customizes the in-memory store.
type SessionStoreOption func(*InMemorySessionStore)

// WithSeedOrders replaces the default seed orders.
func WithSeedOrders(orders []Order) SessionStoreOption {
	return func(s *InMemorySessionStore) {
		s.seed = append([]Order(nil), orders...)
	}
}

// WithClock overrides time.Now for default date ranges.
func WithClock(clock func() time.Time) SessionStoreOption {
	return func(s *InMemorySessionStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewInMemorySessionStore creates an empty store seeded with DefaultOrders.
func NewInMemorySessionStore(opts ...SessionStoreOption) *InMemorySessionStore {
	s := &InMemorySessionStore{
		data:  make(map[string]*Session),
		seed:  DefaultOrders(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the viewer's session, creating it from seed data when missing.
func (s *InMemorySessionStore) Session(_ context.Context, viewer ViewerContext) (*Session, error) {
	key := s.key(viewer)
	s.mu.RLock()
	session, ok := s.data[key]
	s.mu.RUnlock()
	if ok {
		return session, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.data[key]; ok {
		return session, nil
	}
	session = NewSession(key, s.seed, s.clock())
	s.data[key] = session
	return session, nil
}

// Reset drops the viewer's session so the next access starts from seed data.
func (s *InMemorySessionStore) Reset(_ context.Context, viewer ViewerContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, s.key(viewer))
	return nil
}

// Len reports how many sessions are live.
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *InMemorySessionStore) key(viewer ViewerContext) string {
	if viewer.SessionID == "" {
		return DefaultSessionID
	}
	return viewer.SessionID
}
