package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

// ResetSessionInput discards a viewer's state.
type ResetSessionInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
}

type resetService interface {
	ResetSession(ctx context.Context, viewer dashboard.ViewerContext) error
}

// ResetSessionCommand wraps Service.ResetSession.
type ResetSessionCommand struct {
	service   resetService
	telemetry Telemetry
}

// NewResetSessionCommand creates the command.
func NewResetSessionCommand(service resetService, telemetry Telemetry) *ResetSessionCommand {
	return &ResetSessionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResetSessionInput] = (*ResetSessionCommand)(nil)

// Execute resets the session.
func (c *ResetSessionCommand) Execute(ctx context.Context, msg ResetSessionInput) error {
	if c.service == nil {
		return errors.New("reset session command requires service")
	}
	if err := c.service.ResetSession(ctx, msg.Viewer); err != nil {
		return err
	}
	recordCommand(ctx, c.telemetry, "session.reset", msg.Viewer, nil)
	return nil
}
