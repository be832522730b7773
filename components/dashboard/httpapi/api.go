package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-sales-dashboard/components/dashboard"
	"github.com/goliatone/go-sales-dashboard/components/dashboard/commands"
)

// ErrBadRequest marks request bodies that could not be decoded.
var ErrBadRequest = errors.New("httpapi: bad request")

type pageRenderer interface {
	RenderTemplate(ctx context.Context, viewer dashboard.ViewerContext, out io.Writer) error
}

// Handlers exposes HTTP endpoints backed by shared commands. Every command
// endpoint responds with the refreshed view.
type Handlers struct {
	ToggleSidebar gocommand.Commander[commands.ToggleSidebarInput]
	ToggleTheme   gocommand.Commander[commands.ToggleThemeInput]
	Sort          gocommand.Commander[commands.SortOrdersInput]
	Filter        gocommand.Commander[commands.FilterOrdersInput]
	DateRange     gocommand.Commander[commands.SetDateRangeInput]
	Reset         gocommand.Commander[commands.ResetSessionInput]
	View          gocommand.Querier[dashboard.ViewerContext, dashboard.View]
	Page          pageRenderer
	Broadcast     *dashboard.BroadcastHook
}

// ViewerFromRequest reads the session from the header or query string.
func ViewerFromRequest(r *http.Request) dashboard.ViewerContext {
	return dashboard.ResolveViewer(r.Header.Get(dashboard.SessionHeader), r.URL.Query().Get(dashboard.SessionQueryParam))
}

// HandlePage renders the HTML dashboard.
func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	if h.Page == nil {
		writeError(w, errors.New("httpapi: page renderer not configured"))
		return
	}
	var buf strings.Builder
	if err := h.Page.RenderTemplate(r.Context(), ViewerFromRequest(r), &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, buf.String())
}

// HandleView returns the derived view as JSON.
func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r, ViewerFromRequest(r))
}

func (h *Handlers) HandleToggleSidebar(w http.ResponseWriter, r *http.Request) {
	viewer := ViewerFromRequest(r)
	if err := h.ToggleSidebar.Execute(r.Context(), commands.ToggleSidebarInput{Viewer: viewer}); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, viewer)
}

func (h *Handlers) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	viewer := ViewerFromRequest(r)
	if err := h.ToggleTheme.Execute(r.Context(), commands.ToggleThemeInput{Viewer: viewer}); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, viewer)
}

func (h *Handlers) HandleSortOrders(w http.ResponseWriter, r *http.Request) {
	var payload commands.SortOrdersInput
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	payload.Viewer = ViewerFromRequest(r)
	if err := h.Sort.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, payload.Viewer)
}

func (h *Handlers) HandleFilterOrders(w http.ResponseWriter, r *http.Request) {
	var payload commands.FilterOrdersInput
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	payload.Viewer = ViewerFromRequest(r)
	if err := h.Filter.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, payload.Viewer)
}

func (h *Handlers) HandleSetDateRange(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetDateRangeInput
	if err := decode(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	payload.Viewer = ViewerFromRequest(r)
	if err := h.DateRange.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, payload.Viewer)
}

func (h *Handlers) HandleResetSession(w http.ResponseWriter, r *http.Request) {
	viewer := ViewerFromRequest(r)
	if err := h.Reset.Execute(r.Context(), commands.ResetSessionInput{Viewer: viewer}); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(w, r, viewer)
}

func (h *Handlers) respondView(w http.ResponseWriter, r *http.Request, viewer dashboard.ViewerContext) {
	if h.View == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	view, err := h.View.Query(r.Context(), viewer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// NewHandler mounts the dashboard routes under basePath on a ServeMux.
func NewHandler(basePath string, h *Handlers) http.Handler {
	prefix := strings.TrimRight(basePath, "/") + "/dashboard"
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix, h.HandlePage)
	mux.HandleFunc("GET "+prefix+"/_view", h.HandleView)
	mux.HandleFunc("POST "+prefix+"/sidebar/toggle", h.HandleToggleSidebar)
	mux.HandleFunc("POST "+prefix+"/theme/toggle", h.HandleToggleTheme)
	mux.HandleFunc("POST "+prefix+"/orders/sort", h.HandleSortOrders)
	mux.HandleFunc("POST "+prefix+"/orders/filter", h.HandleFilterOrders)
	mux.HandleFunc("POST "+prefix+"/date-range", h.HandleSetDateRange)
	mux.HandleFunc("POST "+prefix+"/session/reset", h.HandleResetSession)
	if h.Broadcast != nil {
		mux.HandleFunc("GET "+prefix+"/ws", h.Broadcast.ServeWebSocket)
		mux.HandleFunc("GET "+prefix+"/events", h.Broadcast.ServeSSE)
	}
	return mux
}

// StatusFor maps command errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, dashboard.ErrUnknownSortKey),
		errors.Is(err, dashboard.ErrInvalidDate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
