package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/queries"
)

// Executor is the command surface shared by the HTTP transports.
type Executor interface {
	ToggleSidebar(ctx context.Context, input commands.ToggleSidebarInput) error
	ToggleTheme(ctx context.Context, input commands.ToggleThemeInput) error
	SortOrders(ctx context.Context, input commands.SortOrdersInput) error
	FilterOrders(ctx context.Context, input commands.FilterOrdersInput) error
	SetDateRange(ctx context.Context, input commands.SetDateRangeInput) error
	ResetSession(ctx context.Context, input commands.ResetSessionInput) error
	View(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.View, error)
}

var errMissingCommand = errors.New("httpapi: command not configured")

// CommandExecutor dispatches to go-command commanders and queriers.
type CommandExecutor struct {
	ToggleSidebarCmd gocommand.Commander[commands.ToggleSidebarInput]
	ToggleThemeCmd   gocommand.Commander[commands.ToggleThemeInput]
	SortCmd          gocommand.Commander[commands.SortOrdersInput]
	FilterCmd        gocommand.Commander[commands.FilterOrdersInput]
	DateRangeCmd     gocommand.Commander[commands.SetDateRangeInput]
	ResetCmd         gocommand.Commander[commands.ResetSessionInput]
	ViewQuery        gocommand.Querier[dashboard.ViewerContext, dashboard.View]
}

// NewCommandExecutor builds every command over a single service. Pass nil
// telemetry when the service already records state changes.
func NewCommandExecutor(service *dashboard.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		ToggleSidebarCmd: commands.NewToggleSidebarCommand(service, telemetry),
		ToggleThemeCmd:   commands.NewToggleThemeCommand(service, telemetry),
		SortCmd:          commands.NewSortOrdersCommand(service, telemetry),
		FilterCmd:        commands.NewFilterOrdersCommand(service, telemetry),
		DateRangeCmd:     commands.NewSetDateRangeCommand(service, telemetry),
		ResetCmd:         commands.NewResetSessionCommand(service, telemetry),
		ViewQuery:        queries.NewViewQuery(service),
	}
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) ToggleSidebar(ctx context.Context, input commands.ToggleSidebarInput) error {
	return execute(ctx, e.ToggleSidebarCmd, input)
}

func (e *CommandExecutor) ToggleTheme(ctx context.Context, input commands.ToggleThemeInput) error {
	return execute(ctx, e.ToggleThemeCmd, input)
}

func (e *CommandExecutor) SortOrders(ctx context.Context, input commands.SortOrdersInput) error {
	return execute(ctx, e.SortCmd, input)
}

func (e *CommandExecutor) FilterOrders(ctx context.Context, input commands.FilterOrdersInput) error {
	return execute(ctx, e.FilterCmd, input)
}

func (e *CommandExecutor) SetDateRange(ctx context.Context, input commands.SetDateRangeInput) error {
	return execute(ctx, e.DateRangeCmd, input)
}

func (e *CommandExecutor) ResetSession(ctx context.Context, input commands.ResetSessionInput) error {
	return execute(ctx, e.ResetCmd, input)
}

func (e *CommandExecutor) View(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.View, error) {
	if e.ViewQuery == nil {
		return dashboard.View{}, errMissingCommand
	}
	return e.ViewQuery.Query(ctx, viewer)
}

// Handlers builds net/http handlers that share this executor's commands.
func (e *CommandExecutor) Handlers(page pageRenderer, broadcast *dashboard.BroadcastHook) *Handlers {
	return &Handlers{
		ToggleSidebar: e.ToggleSidebarCmd,
		ToggleTheme:   e.ToggleThemeCmd,
		Sort:          e.SortCmd,
		Filter:        e.FilterCmd,
		DateRange:     e.DateRangeCmd,
		Reset:         e.ResetCmd,
		View:          e.ViewQuery,
		Page:          page,
		Broadcast:     broadcast,
	}
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], input T) error {
	if cmd == nil {
		return errMissingCommand
	}
	return cmd.Execute(ctx, input)
}
