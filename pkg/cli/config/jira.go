package config

import (
	"strings"
	"time"

	"github.com/m-mizutani/jiranotify/pkg/domain/interfaces"
	"github.com/m-mizutani/jiranotify/pkg/domain/model"
	"github.com/m-mizutani/jiranotify/pkg/infra/jira"
	"github.com/urfave/cli/v3"
)

// Jira holds Jira Automation webhook configuration
type Jira struct {
	WebhookURL    string
	WebhookSecret string `masq:"secret"`
	TicketPrefix  string
	Timeout       time.Duration
}

// Flags returns CLI flags for Jira configuration
func (c *Jira) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jira-webhook-url",
			Usage:       "Jira Automation incoming webhook URL",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("INPUT_JIRA_WEBHOOK_URL", "JIRANOTIFY_JIRA_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "jira-webhook-secret",
			Usage:       "Value of the X-Automation-Webhook-Token header",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("INPUT_JIRA_WEBHOOK_SECRET", "JIRANOTIFY_JIRA_WEBHOOK_SECRET"),
		},
		&cli.StringFlag{
			Name:        "jira-ticket-code-prefix",
			Usage:       "Ticket code prefix, e.g. PROJ for PROJ-123",
			Destination: &c.TicketPrefix,
			Sources:     cli.EnvVars("INPUT_JIRA_TICKET_CODE_PREFIX", "JIRANOTIFY_JIRA_TICKET_CODE_PREFIX"),
		},
		&cli.DurationFlag{
			Name:        "jira-webhook-timeout",
			Usage:       "Timeout of the webhook request (0 for none)",
			Value:       0,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("JIRANOTIFY_JIRA_WEBHOOK_TIMEOUT"),
		},
	}
}

// Webhook returns the trimmed webhook credentials
func (c *Jira) Webhook() model.Webhook {
	return model.Webhook{
		URL:    strings.TrimSpace(c.WebhookURL),
		Secret: strings.TrimSpace(c.WebhookSecret),
	}
}

// Prefix returns the trimmed ticket code prefix
func (c *Jira) Prefix() string {
	return strings.TrimSpace(c.TicketPrefix)
}

// NewClient creates a Jira webhook client from the configuration
func (c *Jira) NewClient() interfaces.JiraClient {
	return jira.NewClient(c.Webhook(), jira.WithTimeout(c.Timeout))
}
