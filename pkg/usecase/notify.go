package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiranotify/pkg/domain/interfaces"
	"github.com/m-mizutani/jiranotify/pkg/domain/model"
)

type notifyUseCase struct {
	jiraClient   interfaces.JiraClient
	ticketPrefix string
}

// NewNotify creates a new instance of NotifyUseCase
func NewNotify(jiraClient interfaces.JiraClient, ticketPrefix string) interfaces.NotifyUseCase {
	return &notifyUseCase{
		jiraClient:   jiraClient,
		ticketPrefix: ticketPrefix,
	}
}

// Notify extracts tickets from pr and notifies Jira about the merge. Finding
// no ticket is not an error; the webhook is simply not called.
func (uc *notifyUseCase) Notify(ctx context.Context, pr *model.PullRequest) (*model.NotifyResult, error) {
	logger := ctxlog.From(ctx)

	tickets := ExtractTickets(pr.Title, pr.Description, uc.ticketPrefix)
	result := &model.NotifyResult{
		Tickets: tickets,
		Branch:  pr.Branch,
	}

	if len(tickets) == 0 {
		// Expected for NO_TICKET pull requests
		logger.Info("No tickets found in the PR title or description. Skipping Jira notification.",
			"prefix", uc.ticketPrefix,
		)
		return result, nil
	}

	logger.Info("Notifying Jira that these tickets are being merged to "+pr.Branch+": "+strings.Join(tickets, ", "),
		"tickets", tickets,
		"branch", pr.Branch,
		"pr_url", pr.URL,
	)

	payload := model.NewNotificationPayload(tickets, pr)
	if err := uc.jiraClient.SendMergeNotification(ctx, payload); err != nil {
		return nil, goerr.Wrap(err, "failed to notify Jira",
			goerr.V("tickets", tickets),
			goerr.V("branch", pr.Branch),
		)
	}

	logger.Info("Successfully notified Jira.", "tickets", tickets)
	result.Notified = true

	return result, nil
}
