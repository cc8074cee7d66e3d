// Package notify delivers direct messages through the host bot. Sends
// are fire-and-forget: a user with DMs disabled is not an error the
// rest of the operation should see.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

type Notifier interface {
	// Notify sends text to a user. Failures are logged, never returned.
	Notify(ctx context.Context, userID, text string)
}

// WebhookNotifier posts notifications to the host bot's DM endpoint.
type WebhookNotifier struct {
	baseURL    string
	httpClient *http.Client
}

func NewWebhookNotifier(baseURL string) *WebhookNotifier {
	return &WebhookNotifier{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type notifyRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

func (n *WebhookNotifier) Notify(ctx context.Context, userID, text string) {
	payload, err := json.Marshal(notifyRequest{UserID: userID, Text: text})
	if err != nil {
		log.Printf("ERROR [notify.Notify] marshal failed: %v", err)
		return
	}

	url := fmt.Sprintf("%s/notify", n.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("ERROR [notify.Notify] request build failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		log.Printf("ERROR [notify.Notify] send to %s failed: %v", userID, err)
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("ERROR [notify.Notify] host returned status %d for %s", resp.StatusCode, userID)
	}
}

// NopNotifier drops everything, for tests and local runs without a
// host bot.
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, userID, text string) {}
