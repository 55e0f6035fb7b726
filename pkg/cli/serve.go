package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiranotify/pkg/cli/config"
	controller "github.com/m-mizutani/jiranotify/pkg/controller/http"
	"github.com/m-mizutani/jiranotify/pkg/usecase"
	"github.com/m-mizutani/jiranotify/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

// shutdownTimeout bounds both the HTTP shutdown and the delivery of
// notifications still in flight
const shutdownTimeout = 30 * time.Second

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		jiraCfg   config.Jira
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Receive GitHub pull_request webhooks and notify Jira on merge",
		Flags:   append(serverCfg.Flags(), jiraCfg.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			notifyUC := usecase.NewNotify(jiraCfg.NewClient(), jiraCfg.Prefix())
			server, err := controller.NewServer(
				ctx,
				usecase.NewWebhook(notifyUC),
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(serverCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			serveErr := make(chan error, 1)
			go func() {
				logger.Info("Listening for GitHub webhooks",
					slog.String("addr", serverCfg.Addr),
					slog.String("path", controller.WebhookPath),
					slog.String("prefix", jiraCfg.Prefix()),
				)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case <-sigCtx.Done():
				logger.Info("Shutting down, delivering pending notifications",
					slog.Int64("pending", async.Pending()),
				)
			case err := <-serveErr:
				if err != nil {
					return goerr.Wrap(err, "HTTP server stopped", goerr.V("addr", serverCfg.Addr))
				}
			}

			// sigCtx is already done here; the drain gets its own deadline
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			err = server.Shutdown(shutdownCtx)
			sentry.Flush(2 * time.Second)
			if err != nil {
				return err
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
