package commands

import (
	"context"

	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

// Telemetry allows commands to emit structured events.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// recordCommand stamps the viewer session onto every command event.
func recordCommand(ctx context.Context, t Telemetry, event string, viewer dashboard.ViewerContext, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	id := viewer.SessionID
	if id == "" {
		id = dashboard.DefaultSessionID
	}
	payload["session_id"] = id
	if viewer.UserID != "" {
		payload["user_id"] = viewer.UserID
	}
	t.Record(ctx, "dashboard.command."+event, payload)
}
