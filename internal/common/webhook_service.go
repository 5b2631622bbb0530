package common

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"guard-collective/gatekeeper/internal/logging"
)

// WebhookService posts plain-text messages to chat webhooks. Delivery is
// best-effort: a failed post is logged and swallowed, never surfaced.
type WebhookService struct {
	Client *http.Client
}

func NewWebhookService() *WebhookService {
	return &WebhookService{
		Client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type webhookPayload struct {
	Content string `json:"content"`
}

// Post sends content to the webhook URL. A blank URL is a silent no-op.
func (s *WebhookService) Post(ctx context.Context, webhookURL string, content string) {
	if webhookURL == "" {
		return
	}

	body, err := json.Marshal(webhookPayload{Content: content})
	if err != nil {
		logging.Error("Failed to marshal webhook payload", "error", err.Error())
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		logging.Error("Failed to build webhook request", "error", err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		logging.Error("Failed to deliver webhook", "error", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.Warn("Webhook delivery returned non-2xx", "status", resp.StatusCode)
	}
}

// PostFile sends content with an attached file using multipart form encoding
// (the chat platform's webhook attachment format).
func (s *WebhookService) PostFile(ctx context.Context, webhookURL string, content string, filename string, file []byte) {
	if webhookURL == "" || len(file) == 0 {
		s.Post(ctx, webhookURL, content)
		return
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("payload_json", mustJSON(webhookPayload{Content: content})); err != nil {
		logging.Error("Failed to encode webhook form", "error", err.Error())
		return
	}
	part, err := mw.CreateFormFile("files[0]", filename)
	if err != nil {
		logging.Error("Failed to attach webhook file", "error", err.Error())
		return
	}
	if _, err := part.Write(file); err != nil {
		logging.Error("Failed to write webhook file", "error", err.Error())
		return
	}
	mw.Close()
	contentType := mw.FormDataContentType()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, &buf)
	if err != nil {
		logging.Error("Failed to build webhook request", "error", err.Error())
		return
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.Client.Do(req)
	if err != nil {
		logging.Error("Failed to deliver webhook attachment", "error", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logging.Warn("Webhook attachment delivery returned non-2xx", "status", resp.StatusCode)
	}
}

func mustJSON(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
