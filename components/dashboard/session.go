package dashboard

import (
	"sync"
	"time"
)

// Session is the single top-level view for one viewer: every UI state holder
// lives here and every mutation goes through its lock.
type Session struct {
	mu      sync.Mutex
	id      string
	root    *ClassList
	theme   *ThemeState
	sidebar SidebarState
	dates   *DateRangeState
	orders  *OrderBook
}

// SessionSnapshot is a read-only projection of a session.
type SessionSnapshot struct {
	ID          string
	SidebarOpen bool
	Dark        bool
	RootClass   string
	DateRange   DateRange
	Filter      StatusFilter
	Sort        *SortDescriptor
	Rows        []Order
}

// NewSession mounts a session over the seed orders.
func NewSession(id string, seed []Order, now time.Time) *Session {
	root := NewClassList()
	return &Session{
		id:     id,
		root:   root,
		theme:  NewThemeState(false, root),
		dates:  NewDateRangeState(now),
		orders: NewOrderBook(seed),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// ToggleSidebar flips the sidebar flag.
func (s *Session) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebar.Toggle()
}

// ToggleTheme flips dark mode and re-applies the root marker.
func (s *Session) ToggleTheme() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme.Toggle()
}

// SetDateRange replaces the picked range.
func (s *Session) SetDateRange(r DateRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dates.Set(r)
}

// SetStatusFilter changes the visible status.
func (s *Session) SetStatusFilter(filter StatusFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders.SetFilter(filter)
}

// SortOrders applies a header click and returns the resulting descriptor.
func (s *Session) SortOrders(key SortKey) SortDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders.Sort(key)
}

// OrderListing is one consistent read of the order book.
type OrderListing struct {
	Canonical []Order
	Visible   []Order
	Sort      *SortDescriptor
	Filter    StatusFilter
}

// ListOrders copies the stored order list (sort applied, filter ignored), the
// visible rows, and the active sort and filter under a single lock.
func (s *Session) ListOrders() OrderListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return OrderListing{
		Canonical: s.orders.Orders(),
		Visible:   s.orders.Rows(),
		Sort:      s.orders.Descriptor(),
		Filter:    s.orders.Filter(),
	}
}

// Snapshot copies the current state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		ID:          s.id,
		SidebarOpen: s.sidebar.Open(),
		Dark:        s.theme.Dark(),
		RootClass:   s.root.String(),
		DateRange:   s.dates.Range(),
		Filter:      s.orders.Filter(),
		Sort:        s.orders.Descriptor(),
		Rows:        s.orders.Rows(),
	}
}
