package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ettle/strcase"
)

// ErrUnknownSortKey is returned when a sort request names a field orders do not have.
var ErrUnknownSortKey = errors.New("dashboard: unknown sort key")

var sortKeyAliases = map[string]SortKey{
	"id":       SortByID,
	"order_id": SortByID,
	"product":  SortByProduct,
	"amount":   SortByAmount,
	"status":   SortByStatus,
	"date":     SortByDate,
}

// ParseSortKey accepts field names and column labels ("Order ID", "amount", "Amount").
func ParseSortKey(value string) (SortKey, error) {
	normalized := strcase.ToSnake(strings.TrimSpace(value))
	if key, ok := sortKeyAliases[normalized]; ok {
		return key, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, value)
}

// ParseStatusFilter maps select values to a filter. Empty means FilterAll; values
// outside the status set are kept as-is and simply match nothing.
func ParseStatusFilter(value string) StatusFilter {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, string(FilterAll)) {
		return FilterAll
	}
	for _, status := range OrderStatuses {
		if strings.EqualFold(value, string(status)) {
			return StatusFilter(status)
		}
	}
	return StatusFilter(value)
}

// FilterOrders returns the orders whose status equals the filter, keeping their
// relative order. FilterAll returns the input unchanged.
func FilterOrders(orders []Order, filter StatusFilter) []Order {
	if filter == FilterAll || filter == "" {
		return orders
	}
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		if StatusFilter(order.Status) == filter {
			out = append(out, order)
		}
	}
	return out
}

// SortOrders returns a sorted copy; the input slice is left untouched.
func SortOrders(orders []Order, descriptor SortDescriptor) []Order {
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	less := lessFor(descriptor.Key)
	if less == nil {
		return sorted
	}
	desc := descriptor.Direction == SortDescending
	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// NextSortDescriptor applies a header click: the same key while ascending flips to
// descending, anything else starts ascending on the clicked key.
func NextSortDescriptor(current *SortDescriptor, key SortKey) SortDescriptor {
	if current != nil && current.Key == key && current.Direction == SortAscending {
		return SortDescriptor{Key: key, Direction: SortDescending}
	}
	return SortDescriptor{Key: key, Direction: SortAscending}
}

func lessFor(key SortKey) func(a, b Order) bool {
	switch key {
	case SortByID:
		return func(a, b Order) bool { return a.ID < b.ID }
	case SortByProduct:
		return func(a, b Order) bool { return a.Product < b.Product }
	case SortByAmount:
		return func(a, b Order) bool { return a.Amount.LessThan(b.Amount) }
	case SortByStatus:
		return func(a, b Order) bool { return a.Status < b.Status }
	case SortByDate:
		return func(a, b Order) bool { return a.Date < b.Date }
	default:
		return nil
	}
}
