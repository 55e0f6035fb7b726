package interfaces

import (
	"context"

	"github.com/m-mizutani/jiranotify/pkg/domain/model"
)

// NotifyUseCase runs one extract-and-notify pass for a merged pull request
type NotifyUseCase interface {
	Notify(ctx context.Context, pr *model.PullRequest) (*model.NotifyResult, error)
}

// WebhookUseCase defines the interface for GitHub webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.MergeEvent) error
}
