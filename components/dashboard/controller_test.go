package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubViewResolver struct {
	view   View
	err    error
	viewer ViewerContext
}

func (s *stubViewResolver) View(_ context.Context, viewer ViewerContext) (View, error) {
	s.viewer = viewer
	return s.view, s.err
}

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

func TestControllerRenderTemplate(t *testing.T) {
	service := &stubViewResolver{view: View{SessionID: "s1", RootClass: "dark"}}
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  service,
		Renderer: renderer,
		BasePath: "/admin",
	})

	buf := &bytes.Buffer{}
	if err := controller.RenderTemplate(context.Background(), ViewerContext{SessionID: "s1"}, buf); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if renderer.lastTemplate != DefaultTemplate {
		t.Fatalf("expected default template, got %s", renderer.lastTemplate)
	}
	view, ok := renderer.lastPayload["view"].(View)
	if !ok || view.RootClass != "dark" {
		t.Fatalf("expected view in payload, got %#v", renderer.lastPayload["view"])
	}
	if renderer.lastPayload["api"] != "/admin/dashboard" {
		t.Fatalf("unexpected api path %v", renderer.lastPayload["api"])
	}
	if service.viewer.SessionID != "s1" {
		t.Fatalf("viewer not forwarded")
	}
	if buf.String() != "<html></html>" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestControllerPropagatesErrors(t *testing.T) {
	controller := NewController(ControllerOptions{
		Service:  &stubViewResolver{err: errors.New("boom")},
		Renderer: &stubRenderer{},
	})
	if err := controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard); err == nil {
		t.Fatalf("expected service error")
	}

	controller = NewController(ControllerOptions{Service: &stubViewResolver{}})
	if err := controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard); err == nil {
		t.Fatalf("expected missing renderer error")
	}

	controller = NewController(ControllerOptions{Renderer: &stubRenderer{}})
	if _, err := controller.ViewPayload(context.Background(), ViewerContext{}); err == nil {
		t.Fatalf("expected missing service error")
	}
}

func renderPage(t *testing.T, service *Service, viewer ViewerContext) string {
	t.Helper()
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)
	controller := NewController(ControllerOptions{Service: service, Renderer: renderer, BasePath: "/admin"})
	var buf bytes.Buffer
	require.NoError(t, controller.RenderTemplate(context.Background(), viewer, &buf))
	return buf.String()
}

func TestEmbeddedPageRendersView(t *testing.T) {
	service := newTestService(nil, nil)
	viewer := ViewerContext{SessionID: "s1"}

	html := renderPage(t, service, viewer)

	assert.Contains(t, html, `data-session="s1"`)
	assert.Contains(t, html, `data-api="/admin/dashboard"`)
	assert.Equal(t, 7, strings.Count(html, `data-order="`))
	assert.Equal(t, 4, strings.Count(html, `class="card chart-panel"`))
	assert.Equal(t, 4, strings.Count(html, `class="card stat-card"`))
	assert.Contains(t, html, "Total Revenue")
	assert.Contains(t, html, `<option value="all" selected>`)
	assert.Contains(t, html, `<th data-sort="amount">Amount</th>`)
	assert.Contains(t, html, `<input type="date" name="start" value="2024-01-21">`)
	assert.NotContains(t, html, "No orders match")
}

func TestEmbeddedPageReflectsSortAndFilter(t *testing.T) {
	service := newTestService(nil, nil)
	ctx := context.Background()
	viewer := ViewerContext{SessionID: "s1"}

	_, err := service.SortOrders(ctx, viewer, SortByAmount)
	require.NoError(t, err)
	require.NoError(t, service.SetStatusFilter(ctx, viewer, StatusFilter(StatusProcessing)))
	_, err = service.ToggleTheme(ctx, viewer)
	require.NoError(t, err)

	html := renderPage(t, service, viewer)

	assert.Contains(t, html, `<th data-sort="amount" class="sort-asc">Amount</th>`)
	assert.Contains(t, html, `<option value="Processing" selected>`)
	assert.NotContains(t, html, `<option value="all" selected>`)
	assert.Equal(t, 3, strings.Count(html, `data-order="`))
	assert.Contains(t, html, `badge badge-processing`)
	assert.Contains(t, html, `<html lang="en" class="dark" data-theme="dark">`)
}

func TestEmbeddedPageShowsPlaceholderForEmptyTable(t *testing.T) {
	service := newTestService(nil, nil)
	viewer := ViewerContext{SessionID: "s1"}
	require.NoError(t, service.SetStatusFilter(context.Background(), viewer, StatusFilter("Cancelled")))

	html := renderPage(t, service, viewer)

	assert.Equal(t, 0, strings.Count(html, `data-order="`))
	assert.Contains(t, html, "No orders match this status.")
}
