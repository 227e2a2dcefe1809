package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dotcommander/scorecard/internal/lead"
	"github.com/dotcommander/scorecard/internal/scoring"
)

const (
	// NotionAPIURL is the Notion REST endpoint.
	NotionAPIURL = "https://api.notion.com/v1"
	// NotionVersion pins the API version the page properties are written for.
	NotionVersion = "2022-06-28"

	StatusStarted   = "Quiz Started"
	StatusCompleted = "Quiz Completed"
)

// NotionClient records leads as pages of a Notion database.
type NotionClient struct {
	baseURL    string
	token      string
	databaseID string
	leadSource string
	http       *http.Client
}

// NotionOption configures a NotionClient
type NotionOption func(*NotionClient)

// WithNotionBaseURL points the client at another API root.
func WithNotionBaseURL(url string) NotionOption {
	return func(c *NotionClient) { c.baseURL = url }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) NotionOption {
	return func(c *NotionClient) { c.http = client }
}

// NewNotionClient creates a client for databaseID. leadSource is recorded
// for leads that carry none.
func NewNotionClient(token, databaseID, leadSource string, opts ...NotionOption) *NotionClient {
	c := &NotionClient{
		baseURL:    NotionAPIURL,
		token:      token,
		databaseID: databaseID,
		leadSource: leadSource,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notion property value shapes.
type (
	notionText struct {
		Text struct {
			Content string `json:"content"`
		} `json:"text"`
	}
	notionSelect struct {
		Name string `json:"name"`
	}
	notionDate struct {
		Start string `json:"start"`
	}
)

func richText(s string) map[string]any {
	var t notionText
	t.Text.Content = s
	return map[string]any{"rich_text": []notionText{t}}
}

func title(s string) map[string]any {
	var t notionText
	t.Text.Content = s
	return map[string]any{"title": []notionText{t}}
}

func selectValue(name string) map[string]any {
	return map[string]any{"select": notionSelect{Name: name}}
}

// leadProperties maps a lead onto the database columns.
func (c *NotionClient) leadProperties(l lead.Lead, now time.Time) map[string]any {
	source := l.Source
	if source == "" {
		source = c.leadSource
	}
	var utm lead.UTM
	if l.UTM != nil {
		utm = *l.UTM
	}

	props := map[string]any{
		"Name":         title(l.FullName()),
		"Email":        map[string]any{"email": l.Email},
		"Company":      richText(l.CompanyName),
		"Job Title":    richText(l.JobTitle),
		"Lead Source":  selectValue(source),
		"UTM Source":   richText(utm.Source),
		"UTM Medium":   richText(utm.Medium),
		"UTM Campaign": richText(utm.Campaign),
		"Timestamp":    map[string]any{"date": notionDate{Start: now.UTC().Format(time.RFC3339)}},
		"Status":       selectValue(StatusStarted),
	}
	// Notion rejects empty select options.
	if l.Turnover != "" {
		props["Turnover"] = selectValue(l.Turnover)
	}
	return props
}

// scoreProperties maps a score result onto the database columns.
func scoreProperties(result scoring.ScoreResult) map[string]any {
	return map[string]any{
		"Score":             map[string]any{"number": result.OverallScore},
		"Risk Level":        selectValue(result.Band.Name),
		"Weakest Dimension": richText(string(result.WeakestDimension)),
		"Segment":           selectValue(string(result.Segment)),
		"Status":            selectValue(StatusCompleted),
	}
}

// CreateLead creates the lead's page and returns its ID.
func (c *NotionClient) CreateLead(ctx context.Context, l lead.Lead) (string, error) {
	body := map[string]any{
		"parent":     map[string]string{"database_id": c.databaseID},
		"properties": c.leadProperties(l, time.Now()),
	}
	var page struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return "", fmt.Errorf("creating notion lead: %w", err)
	}
	if page.ID == "" {
		return "", Permanent(fmt.Errorf("creating notion lead: response carried no page id"))
	}
	return page.ID, nil
}

// UpdateScore writes the result onto an existing page and marks it completed.
func (c *NotionClient) UpdateScore(ctx context.Context, pageID string, result scoring.ScoreResult) error {
	body := map[string]any{"properties": scoreProperties(result)}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, body, nil); err != nil {
		return fmt.Errorf("updating notion page %s: %w", pageID, err)
	}
	return nil
}

// APIError is a non-2xx response from Notion.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("notion api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("notion api: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

func (c *NotionClient) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return Permanent(err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", NotionVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, apiErr)
		return classify(resp.StatusCode, apiErr)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// classify marks client errors other than rate limiting as permanent.
func classify(status int, err error) error {
	if status >= 400 && status < 500 && status != http.StatusTooManyRequests && status != http.StatusRequestTimeout {
		return Permanent(err)
	}
	return err
}
