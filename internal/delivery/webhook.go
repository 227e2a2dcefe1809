package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dotcommander/scorecard/internal/lead"
	"github.com/dotcommander/scorecard/internal/scoring"
)

// Webhook event names.
const (
	EventLeadCaptured  = "lead_captured"
	EventQuizCompleted = "quiz_completed"
)

// Event is the JSON body posted to the webhook.
type Event struct {
	Type      string               `json:"event"`
	ID        string               `json:"id"`
	Timestamp time.Time            `json:"timestamp"`
	Lead      *lead.Lead           `json:"lead,omitempty"`
	Result    *scoring.ScoreResult `json:"result,omitempty"`
}

// WebhookClient posts events to a single URL.
type WebhookClient struct {
	url  string
	http *http.Client
}

// NewWebhookClient creates a client posting to url. A nil client uses a
// 10 second timeout.
func NewWebhookClient(url string, client *http.Client) *WebhookClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookClient{url: url, http: client}
}

// Send posts event. Non-2xx responses are errors; 4xx other than 408 and
// 429 are permanent.
func (c *WebhookClient) Send(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return Permanent(fmt.Errorf("encoding %s event: %w", event.Type, err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting %s event: %w", event.Type, err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return classify(resp.StatusCode, fmt.Errorf("posting %s event: status %d", event.Type, resp.StatusCode))
	}
	return nil
}
