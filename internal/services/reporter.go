package services

import (
	"context"
	"fmt"
	"strings"

	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/logging"
)

// DiagnosticReporter is the single sink for fetcher and pipeline diagnostics.
// Implementations must never block their caller on their own failure.
type DiagnosticReporter interface {
	Report(ctx context.Context, level string, message string)
}

// Reporter logs diagnostics and forwards them to the operator webhook when
// one is configured. Webhook delivery is best-effort.
type Reporter struct {
	webhook    *common.WebhookService
	webhookURL string
}

func NewReporter(webhook *common.WebhookService, webhookURL string) *Reporter {
	return &Reporter{
		webhook:    webhook,
		webhookURL: webhookURL,
	}
}

// Report logs the message at the given level and mirrors it to the operator
// webhook. Unknown levels log as errors.
func (r *Reporter) Report(ctx context.Context, level string, message string) {
	switch strings.ToLower(level) {
	case "warning", "warn":
		logging.Warn(message)
	case "info":
		logging.Info(message)
	default:
		logging.Error(message)
	}

	if r.webhook != nil && r.webhookURL != "" {
		r.webhook.Post(ctx, r.webhookURL, fmt.Sprintf("⚠️ %s: %s", strings.ToUpper(level), message))
	}
}
