package config

import (
	"strings"

	"github.com/m-mizutani/jiranotify/pkg/domain/model"
	githubinfra "github.com/m-mizutani/jiranotify/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// PullRequest holds the merged pull request given as action inputs
type PullRequest struct {
	Title       string
	Description string
	Branch      string
	URL         string
	EventFile   string
}

// Flags returns CLI flags for pull request inputs. GitHub Actions exposes
// input "x" as INPUT_X.
func (c *PullRequest) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "pr-title",
			Usage:       "Title of the merged pull request",
			Destination: &c.Title,
			Sources:     cli.EnvVars("INPUT_PR_TITLE", "JIRANOTIFY_PR_TITLE"),
		},
		&cli.StringFlag{
			Name:        "pr-description",
			Usage:       "Description (body) of the merged pull request",
			Destination: &c.Description,
			Sources:     cli.EnvVars("INPUT_PR_DESCRIPTION", "JIRANOTIFY_PR_DESCRIPTION"),
		},
		&cli.StringFlag{
			Name:        "branch",
			Usage:       "Branch the pull request was merged into",
			Destination: &c.Branch,
			Sources:     cli.EnvVars("INPUT_BRANCH", "JIRANOTIFY_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "pr-url",
			Usage:       "URL of the merged pull request",
			Destination: &c.URL,
			Sources:     cli.EnvVars("INPUT_PR_URL", "JIRANOTIFY_PR_URL"),
		},
		&cli.StringFlag{
			Name:        "event-file",
			Usage:       "GitHub pull_request event payload used to fill empty inputs (e.g. $GITHUB_EVENT_PATH)",
			Destination: &c.EventFile,
			Sources:     cli.EnvVars("JIRANOTIFY_EVENT_FILE"),
		},
	}
}

// Build returns the pull request described by the inputs. Inputs are
// trimmed; unset ones stay empty unless the event file provides them.
func (c *PullRequest) Build() (*model.PullRequest, error) {
	pr := &model.PullRequest{
		Title:       strings.TrimSpace(c.Title),
		Description: strings.TrimSpace(c.Description),
		Branch:      strings.TrimSpace(c.Branch),
		URL:         strings.TrimSpace(c.URL),
	}

	if c.EventFile != "" {
		event, err := githubinfra.LoadPullRequestEvent(c.EventFile)
		if err != nil {
			return nil, err
		}
		pr.Complement(event)
	}

	return pr, nil
}
