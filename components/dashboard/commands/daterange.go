package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

// SetDateRangeInput carries the picker value as YYYY-MM-DD strings; empty
// clears that end.
type SetDateRangeInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Start  string                  `json:"start"`
	End    string                  `json:"end"`
}

type dateRangeService interface {
	SetDateRange(ctx context.Context, viewer dashboard.ViewerContext, r dashboard.DateRange) error
}

// SetDateRangeCommand wraps Service.SetDateRange.
type SetDateRangeCommand struct {
	service   dateRangeService
	telemetry Telemetry
}

// NewSetDateRangeCommand creates the command.
func NewSetDateRangeCommand(service dateRangeService, telemetry Telemetry) *SetDateRangeCommand {
	return &SetDateRangeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetDateRangeInput] = (*SetDateRangeCommand)(nil)

// Execute parses and stores the range.
func (c *SetDateRangeCommand) Execute(ctx context.Context, msg SetDateRangeInput) error {
	if c.service == nil {
		return errors.New("date range command requires service")
	}
	r, err := dashboard.ParseDateRange(msg.Start, msg.End)
	if err != nil {
		return err
	}
	if err := c.service.SetDateRange(ctx, msg.Viewer, r); err != nil {
		return err
	}
	recordCommand(ctx, c.telemetry, "date_range.set", msg.Viewer, map[string]any{
		"start": dashboard.FormatDay(r.Start),
		"end":   dashboard.FormatDay(r.End),
	})
	return nil
}
