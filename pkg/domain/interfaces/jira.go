package interfaces

import (
	"context"

	"github.com/m-mizutani/jiranotify/pkg/domain/model"
)

// JiraClient delivers merge notifications to a Jira Automation webhook
type JiraClient interface {
	// SendMergeNotification posts payload once. Non-2xx responses are errors.
	SendMergeNotification(ctx context.Context, payload *model.NotificationPayload) error
}
