package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

// ToggleSidebarInput flips the mobile sidebar for a viewer.
type ToggleSidebarInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
}

type sidebarService interface {
	ToggleSidebar(ctx context.Context, viewer dashboard.ViewerContext) (bool, error)
}

// ToggleSidebarCommand wraps Service.ToggleSidebar.
type ToggleSidebarCommand struct {
	service   sidebarService
	telemetry Telemetry
}

// NewToggleSidebarCommand creates the command.
func NewToggleSidebarCommand(service sidebarService, telemetry Telemetry) *ToggleSidebarCommand {
	return &ToggleSidebarCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleSidebarInput] = (*ToggleSidebarCommand)(nil)

// Execute toggles the sidebar.
func (c *ToggleSidebarCommand) Execute(ctx context.Context, msg ToggleSidebarInput) error {
	if c.service == nil {
		return errors.New("toggle sidebar command requires service")
	}
	open, err := c.service.ToggleSidebar(ctx, msg.Viewer)
	if err != nil {
		return err
	}
	recordCommand(ctx, c.telemetry, "sidebar.toggle", msg.Viewer, map[string]any{"open": open})
	return nil
}

// ToggleThemeInput flips dark mode for a viewer.
type ToggleThemeInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
}

type themeService interface {
	ToggleTheme(ctx context.Context, viewer dashboard.ViewerContext) (bool, error)
}

// ToggleThemeCommand wraps Service.ToggleTheme.
type ToggleThemeCommand struct {
	service   themeService
	telemetry Telemetry
}

// NewToggleThemeCommand creates the command.
func NewToggleThemeCommand(service themeService, telemetry Telemetry) *ToggleThemeCommand {
	return &ToggleThemeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleThemeInput] = (*ToggleThemeCommand)(nil)

// Execute toggles dark mode.
func (c *ToggleThemeCommand) Execute(ctx context.Context, msg ToggleThemeInput) error {
	if c.service == nil {
		return errors.New("toggle theme command requires service")
	}
	dark, err := c.service.ToggleTheme(ctx, msg.Viewer)
	if err != nil {
		return err
	}
	recordCommand(ctx, c.telemetry, "theme.toggle", msg.Viewer, map[string]any{"dark": dark})
	return nil
}
