package github

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiranotify/pkg/domain/model"
	"github.com/m-mizutani/jiranotify/pkg/domain/types"
)

// ParseMergeEvent converts a GitHub webhook body into a MergeEvent. Event
// types other than pull_request and ping are returned as EventTypeUnknown
// without parsing the body.
func ParseMergeEvent(eventType string, body []byte) (*model.MergeEvent, error) {
	event := &model.MergeEvent{
		Type:       model.WebhookEventType(eventType),
		ReceivedAt: time.Now(),
	}

	switch event.Type {
	case model.EventTypePullRequest, model.EventTypePing:
	default:
		event.Type = model.EventTypeUnknown
		return event, nil
	}

	payload, err := github.ParseWebHook(eventType, body)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid webhook payload", goerr.V("event_type", eventType))
	}

	if e, ok := payload.(*github.PullRequestEvent); ok {
		fillFromPullRequestEvent(event, e)
	}

	return event, nil
}

// LoadPullRequestEvent reads a pull_request event payload file such as the
// one GitHub Actions exposes through GITHUB_EVENT_PATH
func LoadPullRequestEvent(path string) (*model.PullRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read event file",
			goerr.T(types.ErrTagConfig),
			goerr.V("path", path),
		)
	}

	var e github.PullRequestEvent
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, goerr.Wrap(err, "failed to parse event file",
			goerr.T(types.ErrTagConfig),
			goerr.V("path", path),
		)
	}

	return toPullRequest(e.GetPullRequest()), nil
}

func fillFromPullRequestEvent(event *model.MergeEvent, e *github.PullRequestEvent) {
	// Use Get*() helper methods for nil-safe field access
	event.Action = e.GetAction()
	event.Repository = e.GetRepo().GetFullName()
	event.Number = e.GetNumber()
	event.Merged = e.GetPullRequest().GetMerged()
	event.PullRequest = *toPullRequest(e.GetPullRequest())
}

func toPullRequest(pr *github.PullRequest) *model.PullRequest {
	return &model.PullRequest{
		Title:       pr.GetTitle(),
		Description: pr.GetBody(),
		Branch:      pr.GetBase().GetRef(),
		URL:         pr.GetHTMLURL(),
	}
}
