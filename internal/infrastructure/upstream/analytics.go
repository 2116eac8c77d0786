package upstream

import (
	"context"
	"net/http"
	"time"
)

// AnalyticsEvent is a single tracked storefront event
type AnalyticsEvent struct {
	EventID    string            `json:"event_id"`
	Name       string            `json:"name"`
	SessionID  string            `json:"session_id,omitempty"`
	VisitorID  string            `json:"visitor_id,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// SendAnalyticsEvents forwards a batch of events to the platform's
// analytics ingest endpoint using the gateway service token
func (c *Client) SendAnalyticsEvents(ctx context.Context, events []AnalyticsEvent) error {
	if len(events) == 0 {
		return nil
	}
	body := map[string]any{"events": events}
	return c.send(ctx, http.MethodPost, "/ingest/analytics/events", body, "", nil)
}
