package config

import "github.com/urfave/cli/v3"

// Server holds configuration of the GitHub webhook receiver
type Server struct {
	Addr          string
	WebhookSecret string `masq:"secret"`
}

// Flags returns CLI flags for the webhook receiver
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Address to listen on for GitHub webhooks",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("JIRANOTIFY_ADDR"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "Secret used to verify GitHub webhook signatures",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("JIRANOTIFY_GITHUB_WEBHOOK_SECRET"),
		},
	}
}
