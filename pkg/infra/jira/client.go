package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/jiranotify/pkg/domain/interfaces"
	"github.com/m-mizutani/jiranotify/pkg/domain/model"
	"github.com/m-mizutani/jiranotify/pkg/domain/types"
)

// TokenHeader carries the shared secret of a Jira Automation incoming webhook
const TokenHeader = "X-Automation-Webhook-Token"

type client struct {
	webhook    model.Webhook
	httpClient *http.Client
	timeout    time.Duration
}

// Option is a functional option for the Jira webhook client
type Option func(*client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds a single webhook request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// NewClient creates a client for the given webhook. The URL is validated on
// send so that runs without tickets never depend on it.
func NewClient(webhook model.Webhook, opts ...Option) interfaces.JiraClient {
	c := &client{
		webhook:    webhook,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMergeNotification posts payload to the webhook exactly once
func (c *client) SendMergeNotification(ctx context.Context, payload *model.NotificationPayload) error {
	endpoint, err := c.endpoint()
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal notification payload", goerr.T(types.ErrTagUnexpected))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to create webhook request", goerr.T(types.ErrTagUnexpected))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TokenHeader, c.webhook.Secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send webhook request",
			goerr.T(types.ErrTagUnexpected),
			goerr.V("url", endpoint),
		)
	}
	defer resp.Body.Close()

	// Response content is not part of the contract
	_, _ = io.Copy(io.Discard, resp.Body)

	ctxlog.From(ctx).Debug("Jira webhook responded",
		"status", resp.StatusCode,
		"url", endpoint,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return goerr.New(fmt.Sprintf("HTTP status: %d", resp.StatusCode),
			goerr.T(types.ErrTagDelivery),
			goerr.V("status", resp.StatusCode),
			goerr.V("url", endpoint),
		)
	}

	return nil
}

func (c *client) endpoint() (string, error) {
	if c.webhook.URL == "" {
		return "", goerr.New("Jira webhook URL is not configured", goerr.T(types.ErrTagConfig))
	}

	u, err := url.Parse(c.webhook.URL)
	if err != nil {
		return "", goerr.Wrap(err, "invalid Jira webhook URL", goerr.T(types.ErrTagConfig))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", goerr.New("Jira webhook URL must use http or https",
			goerr.T(types.ErrTagConfig),
			goerr.V("scheme", u.Scheme),
		)
	}
	if u.Host == "" {
		return "", goerr.New("Jira webhook URL has no host", goerr.T(types.ErrTagConfig))
	}

	return u.String(), nil
}
