package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

// SortOrdersInput is a header click on the orders table.
type SortOrdersInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Key    string                  `json:"key"`
}

type sortService interface {
	SortOrders(ctx context.Context, viewer dashboard.ViewerContext, key dashboard.SortKey) (dashboard.SortDescriptor, error)
}

// SortOrdersCommand wraps Service.SortOrders. Keys accept field names or
// column labels.
type SortOrdersCommand struct {
	service   sortService
	telemetry Telemetry
}

// NewSortOrdersCommand creates the command.
func NewSortOrdersCommand(service sortService, telemetry Telemetry) *SortOrdersCommand {
	return &SortOrdersCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SortOrdersInput] = (*SortOrdersCommand)(nil)

// Execute applies the click.
func (c *SortOrdersCommand) Execute(ctx context.Context, msg SortOrdersInput) error {
	if c.service == nil {
		return errors.New("sort orders command requires service")
	}
	key, err := dashboard.ParseSortKey(msg.Key)
	if err != nil {
		return err
	}
	descriptor, err := c.service.SortOrders(ctx, msg.Viewer, key)
	if err != nil {
		return err
	}
	recordCommand(ctx, c.telemetry, "orders.sort", msg.Viewer, map[string]any{
		"key":       string(descriptor.Key),
		"direction": string(descriptor.Direction),
	})
	return nil
}

// FilterOrdersInput selects the visible order status.
type FilterOrdersInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Status string                  `json:"status"`
}

type filterService interface {
	SetStatusFilter(ctx context.Context, viewer dashboard.ViewerContext, filter dashboard.StatusFilter) error
}

// FilterOrdersCommand wraps Service.SetStatusFilter.
type FilterOrdersCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewFilterOrdersCommand creates the command.
func NewFilterOrdersCommand(service filterService, telemetry Telemetry) *FilterOrdersCommand {
	return &FilterOrdersCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[FilterOrdersInput] = (*FilterOrdersCommand)(nil)

// Execute changes the filter. Unknown statuses are accepted and match nothing.
func (c *FilterOrdersCommand) Execute(ctx context.Context, msg FilterOrdersInput) error {
	if c.service == nil {
		return errors.New("filter orders command requires service")
	}
	filter := dashboard.ParseStatusFilter(msg.Status)
	if err := c.service.SetStatusFilter(ctx, msg.Viewer, filter); err != nil {
		return err
	}
	recordCommand(ctx, c.telemetry, "orders.filter", msg.Viewer, map[string]any{"status": string(filter)})
	return nil
}
