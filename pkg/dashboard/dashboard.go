package dashboard

import (
	"errors"
	"net/http"

	router "github.com/goliatone/go-router"

	core "github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/httpapi"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// View re-exports the derived render model.
type View = core.View

// ViewerContext re-exports the session identity.
type ViewerContext = core.ViewerContext

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// Config wires a complete dashboard. Zero values use the embedded templates,
// an in-memory session store and the default chart panels.
type Config struct {
	BasePath  string
	Options   Options
	Renderer  core.Renderer
	// Telemetry receives one event per state change. It feeds the service
	// unless Options.Telemetry is set, in which case it feeds the commands.
	Telemetry core.Telemetry
}

// Dashboard bundles the service with its controller, command executor and
// live-update hook.
type Dashboard struct {
	BasePath   string
	Service    *Service
	Controller *core.Controller
	Executor   *httpapi.CommandExecutor
	Broadcast  *core.BroadcastHook
}

// New assembles a Dashboard.
func New(cfg Config) (*Dashboard, error) {
	renderer := cfg.Renderer
	if renderer == nil {
		var err error
		if renderer, err = core.NewTemplateRenderer(); err != nil {
			return nil, err
		}
	}
	broadcast := core.NewBroadcastHook()
	opts := cfg.Options
	if opts.RefreshHook == nil {
		opts.RefreshHook = broadcast
	}
	commandTelemetry := cfg.Telemetry
	if opts.Telemetry == nil {
		opts.Telemetry = cfg.Telemetry
		commandTelemetry = nil
	}
	service := core.NewService(opts)
	return &Dashboard{
		BasePath: cfg.BasePath,
		Service:  service,
		Controller: core.NewController(core.ControllerOptions{
			Service:  service,
			Renderer: renderer,
			BasePath: cfg.BasePath,
		}),
		Executor:  httpapi.NewCommandExecutor(service, commandTelemetry),
		Broadcast: broadcast,
	}, nil
}

// HTTPHandler serves the dashboard with net/http.
func (d *Dashboard) HTTPHandler() http.Handler {
	return httpapi.NewHandler(d.BasePath, d.Executor.Handlers(d.Controller, d.Broadcast))
}

// Mount registers the dashboard on a go-router router.
func Mount[T any](d *Dashboard, r router.Router[T]) error {
	if d == nil {
		return errors.New("dashboard: nil dashboard")
	}
	return gorouter.Register(gorouter.Config[T]{
		Router:     r,
		Controller: d.Controller,
		API:        d.Executor,
		Broadcast:  d.Broadcast,
		BasePath:   d.BasePath,
	})
}
