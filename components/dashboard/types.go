package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SessionStore owns the per-viewer dashboard sessions.
// Implementations ensure thread safety.
type SessionStore interface {
	Session(ctx context.Context, viewer ViewerContext) (*Session, error)
	Reset(ctx context.Context, viewer ViewerContext) error
}

// RefreshHook notifies transports (WebSocket/SSE) about state changes. Delivery
// is best-effort: the service records a returned error as telemetry and the
// mutation still succeeds.
type RefreshHook interface {
	StateChanged(ctx context.Context, event StateEvent) error
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusDelivered  OrderStatus = "Delivered"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
)

// OrderStatuses lists the statuses offered by the status filter, in display order.
var OrderStatuses = []OrderStatus{StatusDelivered, StatusProcessing, StatusShipped}

// Known reports whether the status belongs to the closed status set.
func (s OrderStatus) Known() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order is a single purchase record shown in the orders table.
type Order struct {
	ID      string          `json:"id" yaml:"id"`
	Product string          `json:"product" yaml:"product"`
	Amount  decimal.Decimal `json:"amount" yaml:"amount"`
	Status  OrderStatus     `json:"status" yaml:"status"`
	Date    string          `json:"date" yaml:"date"`
}

// SortKey names the order field used for comparisons.
type SortKey string

const (
	SortByID      SortKey = "id"
	SortByProduct SortKey = "product"
	SortByAmount  SortKey = "amount"
	SortByStatus  SortKey = "status"
	SortByDate    SortKey = "date"
)

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// SortDescriptor captures the active table ordering.
type SortDescriptor struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

// StatusFilter is either FilterAll or one OrderStatus value.
type StatusFilter string

// FilterAll disables status filtering.
const FilterAll StatusFilter = "all"

// DateRange is the cosmetic range picked in the header. Either end may be nil.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// ViewerContext identifies the session a request acts on.
type ViewerContext struct {
	SessionID string
	UserID    string
}

// StateEvent describes a session change transports might care about.
type StateEvent struct {
	SessionID string    `json:"session_id"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}
