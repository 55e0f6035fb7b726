package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/jiranotify/pkg/cli/config"
	"github.com/m-mizutani/jiranotify/pkg/domain/types"
	"github.com/m-mizutani/jiranotify/pkg/infra/actions"
	"github.com/urfave/cli/v3"
)

// FailureReporter marks the run as failed on the host (e.g. GitHub Actions)
type FailureReporter interface {
	Fail(msg string)
}

type runConfig struct {
	reporter FailureReporter
}

// Option is a functional option for Run
type Option func(*runConfig)

// WithReporter replaces the default GitHub Actions failure reporter
func WithReporter(reporter FailureReporter) Option {
	return func(c *runConfig) {
		c.reporter = reporter
	}
}

// Run runs the CLI application. Any error is converted here, exactly once,
// into a failure report and then returned for the exit status.
func Run(ctx context.Context, args []string, opts ...Option) error {
	rc := &runConfig{}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.reporter == nil {
		rc.reporter = actions.NewReporter()
	}

	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		logger    *slog.Logger
	)

	app := &cli.Command{
		Name:    "jiranotify",
		Usage:   "Notify Jira about tickets merged by a pull request",
		Version: types.Version,
		Flags:   append(loggerCfg.Flags(), sentryCfg.Flags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}
			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdNotify(),
			cmdServe(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("jiranotify failed",
			slog.Any("error", err),
			slog.String("kind", types.ErrorKind(err)),
		)
		sentryCfg.Report(err, 2*time.Second)
		rc.reporter.Fail(err.Error())
		return err
	}

	return nil
}
