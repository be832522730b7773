package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var errMissingSessionStore = errors.New("dashboard: session store not configured")

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Sessions    SessionStore
	Data        DataSource
	Panels      *Registry
	Charts      ChartRenderer
	RefreshHook RefreshHook
	Telemetry   Telemetry
	Clock       func() time.Time
}

// Service applies UI events to viewer sessions and derives the dashboard view.
type Service struct {
	opts Options
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Sessions == nil {
		opts.Sessions = NewInMemorySessionStore(WithClock(opts.Clock))
	}
	if opts.Data == nil {
		opts.Data = StaticDataSource{}
	}
	if opts.Panels == nil {
		opts.Panels = NewRegistry()
	}
	if opts.Charts == nil {
		opts.Charts = NewEChartsRenderer()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts}
}

// ToggleSidebar flips the viewer's sidebar flag.
func (s *Service) ToggleSidebar(ctx context.Context, viewer ViewerContext) (bool, error) {
	session, err := s.session(ctx, viewer)
	if err != nil {
		return false, err
	}
	open := session.ToggleSidebar()
	s.changed(ctx, session.ID(), "sidebar.toggle", map[string]any{"open": open})
	return open, nil
}

// ToggleTheme flips dark mode; the session re-applies the document marker.
func (s *Service) ToggleTheme(ctx context.Context, viewer ViewerContext) (bool, error) {
	session, err := s.session(ctx, viewer)
	if err != nil {
		return false, err
	}
	dark := session.ToggleTheme()
	s.changed(ctx, session.ID(), "theme.toggle", map[string]any{"dark": dark})
	return dark, nil
}

// SetDateRange replaces the viewer's date range without constraining it.
func (s *Service) SetDateRange(ctx context.Context, viewer ViewerContext, r DateRange) error {
	session, err := s.session(ctx, viewer)
	if err != nil {
		return err
	}
	session.SetDateRange(r)
	s.changed(ctx, session.ID(), "date_range.set", map[string]any{
		"start": FormatDay(r.Start),
		"end":   FormatDay(r.End),
	})
	return nil
}

// SetStatusFilter changes the visible order status.
func (s *Service) SetStatusFilter(ctx context.Context, viewer ViewerContext, filter StatusFilter) error {
	session, err := s.session(ctx, viewer)
	if err != nil {
		return err
	}
	if filter == "" {
		filter = FilterAll
	}
	session.SetStatusFilter(filter)
	s.changed(ctx, session.ID(), "orders.filter", map[string]any{"status": string(filter)})
	return nil
}

// SortOrders applies a header click, rewriting the session's canonical order.
func (s *Service) SortOrders(ctx context.Context, viewer ViewerContext, key SortKey) (SortDescriptor, error) {
	if lessFor(key) == nil {
		return SortDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownSortKey, key)
	}
	session, err := s.session(ctx, viewer)
	if err != nil {
		return SortDescriptor{}, err
	}
	descriptor := session.SortOrders(key)
	s.changed(ctx, session.ID(), "orders.sort", map[string]any{
		"key":       string(descriptor.Key),
		"direction": string(descriptor.Direction),
	})
	return descriptor, nil
}

// ResetSession discards the viewer's state; the next access starts from seed data.
func (s *Service) ResetSession(ctx context.Context, viewer ViewerContext) error {
	if s.opts.Sessions == nil {
		return errMissingSessionStore
	}
	if err := s.opts.Sessions.Reset(ctx, viewer); err != nil {
		return err
	}
	id := viewer.SessionID
	if id == "" {
		id = DefaultSessionID
	}
	s.changed(ctx, id, "session.reset", nil)
	return nil
}

// View derives the full render model for the viewer.
func (s *Service) View(ctx context.Context, viewer ViewerContext) (View, error) {
	session, err := s.session(ctx, viewer)
	if err != nil {
		return View{}, err
	}
	snap := session.Snapshot()
	data, err := s.opts.Data.Datasets(ctx)
	if err != nil {
		return View{}, fmt.Errorf("dashboard: load datasets: %w", err)
	}
	rendered := s.renderCharts(ctx, data, ThemeFor(snap.Dark).ChartTheme)
	s.recordTelemetry(ctx, "dashboard.view.resolve", map[string]any{
		"session_id": snap.ID,
		"rows":       len(snap.Rows),
	})
	return BuildView(snap, data, rendered), nil
}

// Snapshot copies the viewer's session state without deriving charts.
func (s *Service) Snapshot(ctx context.Context, viewer ViewerContext) (SessionSnapshot, error) {
	session, err := s.session(ctx, viewer)
	if err != nil {
		return SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Orders returns the viewer's order book as read in one step.
func (s *Service) Orders(ctx context.Context, viewer ViewerContext) (OrderListing, error) {
	session, err := s.session(ctx, viewer)
	if err != nil {
		return OrderListing{}, err
	}
	return session.ListOrders(), nil
}

func (s *Service) renderCharts(ctx context.Context, data Datasets, theme string) []RenderedChart {
	panels := s.opts.Panels.Panels()
	out := make([]RenderedChart, 0, len(panels))
	for _, panel := range panels {
		spec, ok := s.opts.Panels.Spec(panel.Code, data)
		if !ok {
			continue
		}
		chart, err := s.opts.Charts.RenderPanel(ctx, panel, spec, theme)
		if err != nil {
			s.recordTelemetry(ctx, "dashboard.chart.render_error", map[string]any{
				"panel": panel.Code,
				"error": err.Error(),
			})
			continue
		}
		out = append(out, chart)
	}
	return out
}

func (s *Service) session(ctx context.Context, viewer ViewerContext) (*Session, error) {
	if s.opts.Sessions == nil {
		return nil, errMissingSessionStore
	}
	return s.opts.Sessions.Session(ctx, viewer)
}

// changed records the mutation and notifies the refresh hook. The mutation has
// already been applied, so a hook failure is recorded, not returned.
func (s *Service) changed(ctx context.Context, sessionID, reason string, payload map[string]any) {
	event := StateEvent{
		SessionID: sessionID,
		Reason:    reason,
		At:        s.opts.Clock(),
	}
	if err := s.opts.RefreshHook.StateChanged(ctx, event); err != nil {
		s.recordTelemetry(ctx, "dashboard.refresh.error", map[string]any{
			"session_id": sessionID,
			"reason":     reason,
			"error":      err.Error(),
		})
	}
	if payload == nil {
		payload = map[string]any{}
	}
	payload["session_id"] = sessionID
	s.recordTelemetry(ctx, "dashboard."+reason, payload)
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

type noopRefreshHook struct{}

func (noopRefreshHook) StateChanged(context.Context, StateEvent) error {
	return nil
}
