package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiranotify/pkg/domain/interfaces"
	"github.com/m-mizutani/jiranotify/pkg/domain/types"
	"github.com/m-mizutani/jiranotify/pkg/utils/async"
)

// WebhookPath receives GitHub pull_request webhooks
const WebhookPath = "/hooks/github/pull_request"

type serverOptions struct {
	addr          string
	webhookSecret string
}

// Option configures NewServer
type Option func(*serverOptions)

// WithAddr sets the listen address (default localhost:8080)
func WithAddr(addr string) Option {
	return func(o *serverOptions) {
		o.addr = addr
	}
}

// WithWebhookSecret sets the secret used to verify X-Hub-Signature-256
func WithWebhookSecret(secret string) Option {
	return func(o *serverOptions) {
		o.webhookSecret = secret
	}
}

// Server receives GitHub webhooks and owns the notifications they dispatch
type Server struct {
	*http.Server
}

// NewServer creates the HTTP server receiving GitHub webhooks. It fails
// with a config error when no webhook secret is set.
func NewServer(ctx context.Context, webhookUC interfaces.WebhookUseCase, opts ...Option) (*Server, error) {
	o := &serverOptions{addr: "localhost:8080"}
	for _, opt := range opts {
		opt(o)
	}

	if o.webhookSecret == "" {
		return nil, goerr.New("GitHub webhook secret is required", goerr.T(types.ErrTagConfig))
	}

	return &Server{
		Server: &http.Server{
			Addr:              o.addr,
			Handler:           newRouter(ctx, NewWebhookHandler(o.webhookSecret, webhookUC)),
			ReadHeaderTimeout: 15 * time.Second,
		},
	}, nil
}

func newRouter(ctx context.Context, webhookHandler *WebhookHandler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)
	router.Post(WebhookPath, webhookHandler.Handle)

	return router
}

// Shutdown stops accepting requests, then waits for merge notifications
// already answered with 202 to be delivered. Both steps share ctx as deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.Server.Shutdown(ctx); err != nil {
		return goerr.Wrap(err, "failed to shutdown HTTP server")
	}

	if err := async.Wait(ctx); err != nil {
		return goerr.Wrap(err, "pending merge notifications were not delivered")
	}

	return nil
}
