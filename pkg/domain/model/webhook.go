package model

import "time"

// WebhookEventType represents the type of GitHub webhook event received
type WebhookEventType string

const (
	EventTypePullRequest WebhookEventType = "pull_request"
	EventTypePing        WebhookEventType = "ping"
	EventTypeUnknown     WebhookEventType = "unknown"
)

// MergeEvent represents a pull_request webhook event received from GitHub
type MergeEvent struct {
	DeliveryID  string           // Retrieved from X-GitHub-Delivery header
	Type        WebhookEventType // Retrieved from X-GitHub-Event header
	Action      string           // Event action (e.g., closed, opened)
	Merged      bool
	Repository  string // Repository full name
	Number      int
	PullRequest PullRequest
	ReceivedAt  time.Time
}

// IsMerge reports whether the event is a pull request being merged
func (e *MergeEvent) IsMerge() bool {
	return e.Type == EventTypePullRequest && e.Action == "closed" && e.Merged
}
