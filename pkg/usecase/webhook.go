package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiranotify/pkg/domain/interfaces"
	"github.com/m-mizutani/jiranotify/pkg/domain/model"
)

type webhookUseCase struct {
	notifyUC interfaces.NotifyUseCase
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(notifyUC interfaces.NotifyUseCase) interfaces.WebhookUseCase {
	return &webhookUseCase{
		notifyUC: notifyUC,
	}
}

// ProcessEvent runs the notification for merged pull requests and ignores
// every other event
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.MergeEvent) error {
	logger := ctxlog.From(ctx).With(
		"delivery_id", event.DeliveryID,
		"repository", event.Repository,
		"number", event.Number,
		"received_at", event.ReceivedAt,
	)

	if !event.IsMerge() {
		logger.Debug("Ignoring non-merge event",
			"type", event.Type,
			"action", event.Action,
			"merged", event.Merged,
		)
		return nil
	}

	logger.Debug("Processing merge event", "queued", time.Since(event.ReceivedAt))
	ctx = ctxlog.With(ctx, logger)
	if _, err := uc.notifyUC.Notify(ctx, &event.PullRequest); err != nil {
		return goerr.Wrap(err, "failed to process merge event",
			goerr.V("delivery_id", event.DeliveryID),
			goerr.V("repository", event.Repository),
		)
	}

	return nil
}
