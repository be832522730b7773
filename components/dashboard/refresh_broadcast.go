package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const subscriberBuffer = 8

// BroadcastHook fans out state events to in-process subscribers. A full
// subscriber buffer drops the event; StateChanged never blocks.
type BroadcastHook struct {
	mu     sync.RWMutex
	subs   map[chan StateEvent]string
	closed bool
}

// NewBroadcastHook creates an empty hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: map[chan StateEvent]string{}}
}

// StateChanged delivers the event to every subscriber of its session and to
// subscribers of all sessions.
func (h *BroadcastHook) StateChanged(_ context.Context, event StateEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch, session := range h.subs {
		if session != "" && session != event.SessionID {
			continue
		}
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe listens to every session.
func (h *BroadcastHook) Subscribe() (<-chan StateEvent, func()) {
	return h.SubscribeSession("")
}

// SubscribeSession listens to one session; an empty id means all of them.
// The returned cancel func is safe to call more than once.
func (h *BroadcastHook) SubscribeSession(sessionID string) (<-chan StateEvent, func()) {
	ch := make(chan StateEvent, subscriberBuffer)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = sessionID
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.remove(ch) })
	}
}

// Close ends every open subscription. Later subscriptions start closed.
func (h *BroadcastHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

// Subscribers reports how many subscriptions are open.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *BroadcastHook) remove(ch chan StateEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveHeartbeat is how often idle live connections receive a keepalive.
var LiveHeartbeat = 25 * time.Second

const liveWriteTimeout = 5 * time.Second

// ServeWebSocket upgrades the request and streams the session's events as JSON.
// The session is read from the session header or query parameter.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.SubscribeSession(sessionParam(r))
	defer cancel()

	// The client never sends data; reading only surfaces the close frame.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(LiveHeartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case <-ticker.C:
			deadline := time.Now().Add(liveWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout)); err != nil {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE streams the session's events as named Server-Sent Events, one
// "event: <reason>" block per state change.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := h.SubscribeSession(sessionParam(r))
	defer cancel()
	flusher.Flush()

	ticker := time.NewTicker(LiveHeartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeSSE(w, event); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w io.Writer, event StateEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Reason, data)
	return err
}

func sessionParam(r *http.Request) string {
	return ResolveViewer(r.Header.Get(SessionHeader), r.URL.Query().Get(SessionQueryParam)).SessionID
}
