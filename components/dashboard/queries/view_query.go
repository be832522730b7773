package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

type viewService interface {
	View(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.View, error)
}

// ViewQuery derives the dashboard view without mutating the session.
type ViewQuery struct {
	service viewService
}

// NewViewQuery builds the query.
func NewViewQuery(service viewService) *ViewQuery {
	return &ViewQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, dashboard.View] = (*ViewQuery)(nil)

// Query resolves the view for the viewer.
func (q *ViewQuery) Query(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.View, error) {
	if q.service == nil {
		return dashboard.View{}, errors.New("view query requires service")
	}
	return q.service.View(ctx, viewer)
}
