package cli

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/jiranotify/pkg/cli/config"
	"github.com/m-mizutani/jiranotify/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdNotify() *cli.Command {
	var (
		prCfg   config.PullRequest
		jiraCfg config.Jira
	)

	return &cli.Command{
		Name:    "notify",
		Aliases: []string{"n"},
		Usage:   "Notify Jira once about a merged pull request (GitHub Action entrypoint)",
		Flags:   append(prCfg.Flags(), jiraCfg.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			pr, err := prCfg.Build()
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Debug("Notify configuration",
				"pull_request", pr,
				"webhook", jiraCfg.Webhook(),
				"prefix", jiraCfg.Prefix(),
			)

			notifyUC := usecase.NewNotify(jiraCfg.NewClient(), jiraCfg.Prefix())
			_, err = notifyUC.Notify(ctx, pr)
			return err
		},
	}
}
