package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/httpapi"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Config wires go-router with the dashboard controller, command executor, and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	API            httpapi.Executor
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	HTML          string
	View          string
	ToggleSidebar string
	ToggleTheme   string
	SortOrders    string
	FilterOrders  string
	DateRange     string
	ResetSession  string
	WebSocket     string
}

// Register mounts dashboard routes (HTML, JSON, commands, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}

	group := cfg.Router.Group(cfg.BasePath)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), viewer, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	group.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
		view, err := cfg.Controller.ViewPayload(ctx.Context(), viewerResolver(ctx))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, view)
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, viewerResolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver ViewerResolver, routes RouteConfig) {
	respondView := func(ctx router.Context, viewer dashboard.ViewerContext) error {
		view, err := api.View(ctx.Context(), viewer)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, view)
	}

	r.Post(routes.ToggleSidebar, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		if err := api.ToggleSidebar(ctx.Context(), commands.ToggleSidebarInput{Viewer: viewer}); err != nil {
			return respondError(ctx, err)
		}
		return respondView(ctx, viewer)
	}))

	r.Post(routes.ToggleTheme, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		if err := api.ToggleTheme(ctx.Context(), commands.ToggleThemeInput{Viewer: viewer}); err != nil {
			return respondError(ctx, err)
		}
		return respondView(ctx, viewer)
	}))

	r.Post(routes.SortOrders, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SortOrdersInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.SortOrders(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return respondView(ctx, payload.Viewer)
	}))

	r.Post(routes.FilterOrders, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.FilterOrdersInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.FilterOrders(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return respondView(ctx, payload.Viewer)
	}))

	r.Post(routes.DateRange, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetDateRangeInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondError(ctx, err)
		}
		payload.Viewer = resolver(ctx)
		if err := api.SetDateRange(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return respondView(ctx, payload.Viewer)
	}))

	r.Post(routes.ResetSession, router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		if err := api.ResetSession(ctx.Context(), commands.ResetSessionInput{Viewer: viewer}); err != nil {
			return respondError(ctx, err)
		}
		return respondView(ctx, viewer)
	}))
}

// registerWebSocket streams every session's events; clients match session_id.
func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	viewer := dashboard.ResolveViewer(ctx.Header(dashboard.SessionHeader), ctx.Query(dashboard.SessionQueryParam))
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	return viewer
}

func decodeBody(ctx router.Context, out any) error {
	if err := json.Unmarshal(ctx.Body(), out); err != nil {
		return fmt.Errorf("%w: %v", httpapi.ErrBadRequest, err)
	}
	return nil
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/dashboard"
	}
	if routes.View == "" {
		routes.View = "/dashboard/_view"
	}
	if routes.ToggleSidebar == "" {
		routes.ToggleSidebar = "/dashboard/sidebar/toggle"
	}
	if routes.ToggleTheme == "" {
		routes.ToggleTheme = "/dashboard/theme/toggle"
	}
	if routes.SortOrders == "" {
		routes.SortOrders = "/dashboard/orders/sort"
	}
	if routes.FilterOrders == "" {
		routes.FilterOrders = "/dashboard/orders/filter"
	}
	if routes.DateRange == "" {
		routes.DateRange = "/dashboard/date-range"
	}
	if routes.ResetSession == "" {
		routes.ResetSession = "/dashboard/session/reset"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/dashboard/ws"
	}
	return routes
}
