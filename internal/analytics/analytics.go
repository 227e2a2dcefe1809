// Package analytics emits funnel events for the quiz: a lead being captured
// and a quiz being completed.
package analytics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/posthog/posthog-go"

	"github.com/dotcommander/scorecard/internal/scoring"
)

// Funnel events.
const (
	EventLeadCaptured  = "lead_captured"
	EventQuizCompleted = "quiz_completed"
)

const defaultPostHogHost = "https://eu.i.posthog.com"

// Client captures product analytics events.
type Client interface {
	Capture(ctx context.Context, distinctID string, event string, properties map[string]any) error
	Close() error
}

// NopClient discards every event.
type NopClient struct{}

func (NopClient) Capture(context.Context, string, string, map[string]any) error { return nil }
func (NopClient) Close() error                                                  { return nil }

// PostHogClient emits events to PostHog.
type PostHogClient struct {
	client posthog.Client
}

// NewPostHogClient creates a PostHog-backed analytics client.
func NewPostHogClient(apiKey string, host string) (*PostHogClient, error) {
	if apiKey == "" {
		return nil, errors.New("posthog api key is required")
	}

	endpoint := host
	if endpoint == "" {
		endpoint = defaultPostHogHost
	}

	phClient, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		return nil, err
	}
	return &PostHogClient{client: phClient}, nil
}

// New returns a PostHog client when apiKey is set and a NopClient otherwise.
func New(apiKey, host string) (Client, error) {
	if apiKey == "" {
		return NopClient{}, nil
	}
	return NewPostHogClient(apiKey, host)
}

// Capture queues an event for PostHog.
func (c *PostHogClient) Capture(ctx context.Context, distinctID string, event string, properties map[string]any) error {
	if c == nil || c.client == nil {
		return errors.New("posthog client not initialized")
	}

	if distinctID == "" {
		distinctID = "anonymous"
	}

	props := posthog.NewProperties()
	for key, value := range properties {
		props = props.Set(key, value)
	}

	return c.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: props,
		Timestamp:  time.Now(),
	})
}

// Close flushes any buffered events and releases resources.
func (c *PostHogClient) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ResultProperties flattens a score into event properties. Contact details
// are never included.
func ResultProperties(result scoring.ScoreResult) map[string]any {
	props := map[string]any{
		"overall_score":       result.OverallScore,
		"band":                result.Band.Name,
		"segment":             string(result.Segment),
		"strongest_dimension": string(result.StrongestDimension),
		"weakest_dimension":   string(result.WeakestDimension),
	}
	for d, score := range result.DimensionScores {
		props["score_"+slug(string(d))] = score
	}
	return props
}

// slug lower-cases s and replaces spaces with underscores.
func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}
