package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingHook struct {
	mu     sync.Mutex
	events []StateEvent
	err    error
}

func (h *recordingHook) StateChanged(_ context.Context, event StateEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHook) reasons() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	for i, event := range h.events {
		out[i] = event.Reason
	}
	return out
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (t *recordingTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

type stubChartRenderer struct {
	calls int
	fail  map[string]bool
}

func (r *stubChartRenderer) RenderPanel(_ context.Context, panel ChartPanel, _ ChartSpec, theme string) (RenderedChart, error) {
	r.calls++
	if r.fail[panel.Code] {
		return RenderedChart{}, errors.New("render failed")
	}
	return RenderedChart{Code: panel.Code, Title: panel.Title, Kind: panel.Kind, Theme: theme, HTML: "<div></div>"}, nil
}

func newTestService(hook RefreshHook, telemetry Telemetry) *Service {
	return NewService(Options{
		Charts:      &stubChartRenderer{},
		RefreshHook: hook,
		Telemetry:   telemetry,
		Clock:       func() time.Time { return time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC) },
	})
}

func TestServiceToggleThemeAppliesRootMarker(t *testing.T) {
	hook := &recordingHook{}
	service := newTestService(hook, nil)
	ctx := context.Background()
	viewer := ViewerContext{SessionID: "s1"}

	dark, err := service.ToggleTheme(ctx, viewer)
	if err != nil || !dark {
		t.Fatalf("expected dark mode on, got %v %v", dark, err)
	}
	view, err := service.View(ctx, viewer)
	if err != nil {
		t.Fatalf("View returned error: %v", err)
	}
	if view.RootClass != DarkModeClass || view.ThemeVariant != "dark" {
		t.Fatalf("expected dark root marker, got %q/%q", view.RootClass, view.ThemeVariant)
	}
	for _, chart := range view.Charts {
		if chart.Theme != ThemeFor(true).ChartTheme {
			t.Fatalf("expected dark chart theme, got %s", chart.Theme)
		}
	}

	if dark, _ = service.ToggleTheme(ctx, viewer); dark {
		t.Fatalf("expected dark mode off")
	}
	view, _ = service.View(ctx, viewer)
	if view.RootClass != "" {
		t.Fatalf("expected marker removed, got %q", view.RootClass)
	}
	if got := hook.reasons(); len(got) != 2 || got[0] != "theme.toggle" {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestServiceToggleSidebar(t *testing.T) {
	service := newTestService(nil, nil)
	open, err := service.ToggleSidebar(context.Background(), ViewerContext{})
	if err != nil || !open {
		t.Fatalf("expected sidebar open, got %v %v", open, err)
	}
	view, _ := service.View(context.Background(), ViewerContext{})
	if !view.SidebarOpen || view.SessionID != DefaultSessionID {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestServiceSortAndFilterScenario(t *testing.T) {
	telemetry := &recordingTelemetry{}
	service := newTestService(nil, telemetry)
	ctx := context.Background()
	viewer := ViewerContext{SessionID: "orders"}

	if err := service.SetStatusFilter(ctx, viewer, StatusFilter(StatusProcessing)); err != nil {
		t.Fatalf("SetStatusFilter returned error: %v", err)
	}
	view, _ := service.View(ctx, viewer)
	if got := rowIDs(view.Rows); !equalStrings(got, []string{"#12346", "#12348", "#12351"}) {
		t.Fatalf("unexpected filtered rows %v", got)
	}

	descriptor, err := service.SortOrders(ctx, viewer, SortByAmount)
	if err != nil || descriptor.Direction != SortAscending {
		t.Fatalf("expected ascending sort, got %+v %v", descriptor, err)
	}
	view, _ = service.View(ctx, viewer)
	if got := rowIDs(view.Rows); !equalStrings(got, []string{"#12351", "#12346", "#12348"}) {
		t.Fatalf("unexpected ascending rows %v", got)
	}

	descriptor, _ = service.SortOrders(ctx, viewer, SortByAmount)
	if descriptor.Direction != SortDescending {
		t.Fatalf("expected descending, got %s", descriptor.Direction)
	}
	view, _ = service.View(ctx, viewer)
	if got := rowIDs(view.Rows); !equalStrings(got, []string{"#12348", "#12346", "#12351"}) {
		t.Fatalf("unexpected descending rows %v", got)
	}

	listing, err := service.Orders(ctx, viewer)
	if err != nil || len(listing.Canonical) != 7 || len(listing.Visible) != 3 {
		t.Fatalf("unexpected orders %d/%d %v", len(listing.Canonical), len(listing.Visible), err)
	}
	if listing.Sort == nil || listing.Sort.Direction != SortDescending || listing.Filter != StatusFilter(StatusProcessing) {
		t.Fatalf("unexpected listing state %+v %s", listing.Sort, listing.Filter)
	}

	found := false
	for _, event := range telemetry.events {
		if event == "dashboard.orders.sort" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sort telemetry, got %v", telemetry.events)
	}
}

func TestServiceSortRejectsUnknownKey(t *testing.T) {
	hook := &recordingHook{}
	service := newTestService(hook, nil)
	_, err := service.SortOrders(context.Background(), ViewerContext{}, SortKey("price"))
	if !errors.Is(err, ErrUnknownSortKey) {
		t.Fatalf("expected ErrUnknownSortKey, got %v", err)
	}
	if len(hook.reasons()) != 0 {
		t.Fatalf("expected no events for rejected sort")
	}
}

func TestServiceUnknownFilterMatchesNothing(t *testing.T) {
	service := newTestService(nil, nil)
	ctx := context.Background()
	if err := service.SetStatusFilter(ctx, ViewerContext{}, StatusFilter("Cancelled")); err != nil {
		t.Fatalf("SetStatusFilter returned error: %v", err)
	}
	view, _ := service.View(ctx, ViewerContext{})
	if len(view.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(view.Rows))
	}
	for _, option := range view.StatusOptions {
		if option.Selected {
			t.Fatalf("expected no selected option, got %s", option.Value)
		}
	}
}

func TestServiceDateRangeAcceptsInvertedRange(t *testing.T) {
	service := newTestService(nil, nil)
	ctx := context.Background()
	r, err := ParseDateRange("2024-02-20", "2024-02-01")
	if err != nil {
		t.Fatalf("ParseDateRange returned error: %v", err)
	}
	if err := service.SetDateRange(ctx, ViewerContext{}, r); err != nil {
		t.Fatalf("SetDateRange returned error: %v", err)
	}
	view, _ := service.View(ctx, ViewerContext{})
	if view.DateRange.Start != "2024-02-20" || view.DateRange.End != "2024-02-01" {
		t.Fatalf("unexpected range %+v", view.DateRange)
	}
}

func TestServiceDefaultDateRangeUsesClock(t *testing.T) {
	service := newTestService(nil, nil)
	view, _ := service.View(context.Background(), ViewerContext{})
	if view.DateRange.Start != "2024-01-21" || view.DateRange.End != "2024-02-20" {
		t.Fatalf("unexpected default range %+v", view.DateRange)
	}
}

func TestServiceViewIncludesStatsAndCharts(t *testing.T) {
	service := newTestService(nil, nil)
	view, err := service.View(context.Background(), ViewerContext{})
	if err != nil {
		t.Fatalf("View returned error: %v", err)
	}
	if len(view.Stats) != 4 || view.Stats[0].Title != "Total Revenue" {
		t.Fatalf("unexpected stats %+v", view.Stats)
	}
	if len(view.Charts) != 4 || view.Charts[0].Code != "sales.trend" {
		t.Fatalf("unexpected charts %+v", view.Charts)
	}
}

func TestServiceSkipsFailingCharts(t *testing.T) {
	telemetry := &recordingTelemetry{}
	service := NewService(Options{
		Charts:    &stubChartRenderer{fail: map[string]bool{"sales.top_products": true}},
		Telemetry: telemetry,
	})
	view, err := service.View(context.Background(), ViewerContext{})
	if err != nil {
		t.Fatalf("View returned error: %v", err)
	}
	if len(view.Charts) != 3 {
		t.Fatalf("expected failing panel skipped, got %d charts", len(view.Charts))
	}
	if telemetry.events[0] != "dashboard.chart.render_error" {
		t.Fatalf("expected render error telemetry, got %v", telemetry.events)
	}
}

func TestServiceDataSourceError(t *testing.T) {
	service := NewService(Options{
		Charts: &stubChartRenderer{},
		Data: DataSourceFunc(func(context.Context) (Datasets, error) {
			return Datasets{}, errors.New("offline")
		}),
	})
	if _, err := service.View(context.Background(), ViewerContext{}); err == nil {
		t.Fatalf("expected datasource error")
	}
}

func TestServiceResetSession(t *testing.T) {
	hook := &recordingHook{}
	service := newTestService(hook, nil)
	ctx := context.Background()
	viewer := ViewerContext{SessionID: "reset"}
	_, _ = service.SortOrders(ctx, viewer, SortByAmount)
	_, _ = service.ToggleTheme(ctx, viewer)

	if err := service.ResetSession(ctx, viewer); err != nil {
		t.Fatalf("ResetSession returned error: %v", err)
	}
	view, _ := service.View(ctx, viewer)
	if view.Sort != nil || view.DarkMode {
		t.Fatalf("expected fresh session, got %+v", view)
	}
	if view.Rows[0].ID != "#12345" {
		t.Fatalf("expected seed order restored, got %s", view.Rows[0].ID)
	}
	reasons := hook.reasons()
	if reasons[len(reasons)-1] != "session.reset" {
		t.Fatalf("expected reset event, got %v", reasons)
	}
}

func TestServiceRefreshHookErrorIsRecorded(t *testing.T) {
	hook := &recordingHook{err: errors.New("hook down")}
	telemetry := &recordingTelemetry{}
	service := newTestService(hook, telemetry)
	ctx := context.Background()

	open, err := service.ToggleSidebar(ctx, ViewerContext{})
	if err != nil {
		t.Fatalf("expected mutation to succeed despite hook error, got %v", err)
	}
	if !open {
		t.Fatalf("expected sidebar open")
	}
	snap, err := service.Snapshot(ctx, ViewerContext{})
	if err != nil || !snap.SidebarOpen {
		t.Fatalf("expected sidebar state kept, got %+v %v", snap, err)
	}
	found := false
	for _, event := range telemetry.events {
		if event == "dashboard.refresh.error" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected refresh error telemetry, got %v", telemetry.events)
	}
}

func rowIDs(rows []OrderRow) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
