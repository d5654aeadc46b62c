package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/court-calendar/internal/hearing"
	"github.com/pfrederiksen/court-calendar/internal/logger"
)

// WebhookPayload is the JSON body posted for each hearing.
type WebhookPayload struct {
	Text    string       `json:"text"`
	Hearing hearing.Case `json:"hearing"`
}

// WebhookNotifier posts one JSON message per hearing to a URL
type WebhookNotifier struct {
	client *http.Client
	url    string

	// Delay is the pause between consecutive posts.
	Delay time.Duration
}

// NewWebhookNotifier creates a webhook notifier. A nil client uses a 10 second timeout.
func NewWebhookNotifier(url string, client *http.Client) *WebhookNotifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookNotifier{client: client, url: url, Delay: time.Second}
}

// Notify posts a message for each hearing, stopping at the first failure.
func (n *WebhookNotifier) Notify(ctx context.Context, cases []hearing.Case) error {
	for i, c := range cases {
		if err := n.post(ctx, c); err != nil {
			return fmt.Errorf("posting hearing %s: %w", c.CaseNumber, err)
		}
		logger.IncrCounter("notifier.webhook.sent")

		if i < len(cases)-1 && n.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.Delay):
			}
		}
	}
	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, c hearing.Case) error {
	body, err := json.Marshal(WebhookPayload{Text: FormatMessage(c), Hearing: c})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
