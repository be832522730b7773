package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

// OrdersResult holds the stored order list and the rows the filter leaves visible.
type OrdersResult struct {
	Canonical []dashboard.Order         `json:"canonical"`
	Visible   []dashboard.Order         `json:"visible"`
	Sort      *dashboard.SortDescriptor `json:"sort,omitempty"`
	Filter    dashboard.StatusFilter    `json:"filter"`
}

type ordersService interface {
	Orders(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.OrderListing, error)
}

// OrdersQuery reads the viewer's order book.
type OrdersQuery struct {
	service ordersService
}

// NewOrdersQuery builds the query.
func NewOrdersQuery(service ordersService) *OrdersQuery {
	return &OrdersQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, OrdersResult] = (*OrdersQuery)(nil)

// Query returns the viewer's orders along with the active sort and filter.
func (q *OrdersQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (OrdersResult, error) {
	if q.service == nil {
		return OrdersResult{}, errors.New("orders query requires service")
	}
	listing, err := q.service.Orders(ctx, viewer)
	if err != nil {
		return OrdersResult{}, err
	}
	return OrdersResult{
		Canonical: listing.Canonical,
		Visible:   listing.Visible,
		Sort:      listing.Sort,
		Filter:    listing.Filter,
	}, nil
}
