package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiranotify/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/jiranotify/pkg/infra/github"
	"github.com/m-mizutani/jiranotify/pkg/utils/async"
)

// maxPayloadSize bounds GitHub webhook bodies (GitHub caps them at 25MB)
const maxPayloadSize = 25 << 20

// WebhookHandler handles GitHub pull_request webhooks
type WebhookHandler struct {
	secret    string
	webhookUC interfaces.WebhookUseCase
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, webhookUC interfaces.WebhookUseCase) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		webhookUC: webhookUC,
	}
}

// Handle verifies and parses a webhook request. Merge events are dispatched
// for notification in the background and answered with 202 Accepted.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Hub-Signature-256")
	if !h.verifySignature(body, signature) {
		logger.Warn("Invalid webhook signature")
		writeError(w, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	event, err := githubinfra.ParseMergeEvent(eventType, body)
	if err != nil {
		logger.Error("Failed to parse webhook payload", "error", err)
		writeError(w, err, http.StatusBadRequest)
		return
	}
	event.DeliveryID = r.Header.Get("X-GitHub-Delivery")

	if !event.IsMerge() {
		logger.Debug("Ignoring webhook event",
			"delivery_id", event.DeliveryID,
			"type", event.Type,
			"action", event.Action,
		)
		writeJSON(ctx, w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	jobID := async.Dispatch(ctx, "merge-notification", func(ctx context.Context) error {
		return h.webhookUC.ProcessEvent(ctx, event)
	})

	logger.Info("Accepted merge event",
		"delivery_id", event.DeliveryID,
		"repository", event.Repository,
		"number", event.Number,
		"job_id", jobID,
	)

	writeJSON(ctx, w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"job_id": jobID,
	})
}

// verifySignature verifies the webhook signature
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}
