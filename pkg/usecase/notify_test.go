package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/jiranotify/pkg/domain/model"
	"github.com/m-mizutani/jiranotify/pkg/domain/types"
	"github.com/m-mizutani/jiranotify/pkg/usecase"
)

// MockJiraClient is a mock implementation of JiraClient
type MockJiraClient struct {
	sendFunc func(ctx context.Context, payload *model.NotificationPayload) error
	calls    []*model.NotificationPayload
}

func (m *MockJiraClient) SendMergeNotification(ctx context.Context, payload *model.NotificationPayload) error {
	m.calls = append(m.calls, payload)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, payload)
	}
	return nil
}

func TestNotifyUseCase_Notify_TicketInTitle(t *testing.T) {
	mockClient := &MockJiraClient{}
	uc := usecase.NewNotify(mockClient, "PREFIX")

	result, err := uc.Notify(context.Background(), &model.PullRequest{
		Title:       "PREFIX-123: Fix login bug",
		Description: "PREFIX-456 should be ignored",
		Branch:      "main",
		URL:         "https://github.com/owner/repo/pull/1",
	})

	gt.NoError(t, err)
	gt.True(t, result.Notified)
	gt.Value(t, result.Tickets).Equal([]string{"PREFIX-123"})
	gt.A(t, mockClient.calls).Length(1)
	gt.Value(t, mockClient.calls[0].Issues).Equal([]string{"PREFIX-123"})
	gt.Value(t, mockClient.calls[0].Data.Branch).Equal("main")
	gt.Value(t, mockClient.calls[0].Data.PRURL).Equal("https://github.com/owner/repo/pull/1")
}

func TestNotifyUseCase_Notify_MultipleTicketsInOnePayload(t *testing.T) {
	mockClient := &MockJiraClient{}
	uc := usecase.NewNotify(mockClient, "PREFIX")

	result, err := uc.Notify(context.Background(), &model.PullRequest{
		Title:  "PREFIX-1 and PREFIX-2",
		Branch: "qa",
	})

	gt.NoError(t, err)
	gt.True(t, result.Notified)
	gt.A(t, mockClient.calls).Length(1)
	gt.Value(t, mockClient.calls[0].Issues).Equal([]string{"PREFIX-1", "PREFIX-2"})
}

func TestNotifyUseCase_Notify_DescriptionFallback(t *testing.T) {
	mockClient := &MockJiraClient{}
	uc := usecase.NewNotify(mockClient, "PREFIX")

	result, err := uc.Notify(context.Background(), &model.PullRequest{
		Title:       "Release pipeline",
		Description: "- [PREFIX-124 - Add a feature](x)\n- [NO_TICKET - cleanup](y)",
		Branch:      "dev",
	})

	gt.NoError(t, err)
	gt.Value(t, result.Tickets).Equal([]string{"PREFIX-124"})
	gt.A(t, mockClient.calls).Length(1)
}

func TestNotifyUseCase_Notify_NoTickets(t *testing.T) {
	mockClient := &MockJiraClient{}
	uc := usecase.NewNotify(mockClient, "PREFIX")

	result, err := uc.Notify(context.Background(), &model.PullRequest{
		Title:       "NO_TICKET: cleanup",
		Description: "",
		Branch:      "main",
	})

	gt.NoError(t, err)
	gt.False(t, result.Notified)
	gt.A(t, result.Tickets).Length(0)
	gt.A(t, mockClient.calls).Length(0)
}

func TestNotifyUseCase_Notify_EmptyInputs(t *testing.T) {
	mockClient := &MockJiraClient{}
	uc := usecase.NewNotify(mockClient, "PREFIX")

	result, err := uc.Notify(context.Background(), &model.PullRequest{})

	gt.NoError(t, err)
	gt.False(t, result.Notified)
	gt.A(t, mockClient.calls).Length(0)
}

func TestNotifyUseCase_Notify_DeliveryFailure(t *testing.T) {
	mockClient := &MockJiraClient{
		sendFunc: func(ctx context.Context, payload *model.NotificationPayload) error {
			return goerr.New("HTTP status: 500",
				goerr.T(types.ErrTagDelivery),
				goerr.V("status", 500),
			)
		},
	}
	uc := usecase.NewNotify(mockClient, "PREFIX")

	result, err := uc.Notify(context.Background(), &model.PullRequest{
		Title:  "PREFIX-9 change",
		Branch: "main",
	})

	gt.Error(t, err)
	gt.Value(t, result).Nil()
	gt.Value(t, err.Error()).Equal("failed to notify Jira: HTTP status: 500")
	gt.Value(t, types.ErrorKind(err)).Equal(types.KindDelivery)
	gt.A(t, mockClient.calls).Length(1)
}

// logContext returns a context whose logger writes JSON records to buf at
// debug level, and a function decoding the records written so far.
func logContext(t *testing.T) (context.Context, func() []map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.With(context.Background(), logger)

	return ctx, func() []map[string]any {
		var records []map[string]any
		for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
			if line == "" {
				continue
			}
			var rec map[string]any
			gt.NoError(t, json.Unmarshal([]byte(line), &rec))
			records = append(records, rec)
		}
		return records
	}
}

func infoMessages(records []map[string]any) []string {
	var msgs []string
	for _, rec := range records {
		if rec["level"] == "INFO" {
			msgs = append(msgs, rec["msg"].(string))
		}
	}
	return msgs
}

func TestNotifyUseCase_Notify_LogLines(t *testing.T) {
	t.Run("tickets found", func(t *testing.T) {
		ctx, records := logContext(t)
		uc := usecase.NewNotify(&MockJiraClient{}, "PREFIX")

		_, err := uc.Notify(ctx, &model.PullRequest{
			Title:  "PREFIX-1 and PREFIX-2",
			Branch: "main",
		})
		gt.NoError(t, err)

		gt.Value(t, infoMessages(records())).Equal([]string{
			"Notifying Jira that these tickets are being merged to main: PREFIX-1, PREFIX-2",
			"Successfully notified Jira.",
		})
	})

	t.Run("no tickets", func(t *testing.T) {
		ctx, records := logContext(t)
		uc := usecase.NewNotify(&MockJiraClient{}, "PREFIX")

		_, err := uc.Notify(ctx, &model.PullRequest{Title: "NO_TICKET: docs", Branch: "main"})
		gt.NoError(t, err)

		gt.Value(t, infoMessages(records())).Equal([]string{
			"No tickets found in the PR title or description. Skipping Jira notification.",
		})
	})

	t.Run("delivery failure logs no success line", func(t *testing.T) {
		ctx, records := logContext(t)
		uc := usecase.NewNotify(&MockJiraClient{
			sendFunc: func(ctx context.Context, payload *model.NotificationPayload) error {
				return goerr.New("HTTP status: 500", goerr.T(types.ErrTagDelivery))
			},
		}, "PREFIX")

		_, err := uc.Notify(ctx, &model.PullRequest{Title: "PREFIX-7", Branch: "qa"})
		gt.Error(t, err)

		gt.Value(t, infoMessages(records())).Equal([]string{
			"Notifying Jira that these tickets are being merged to qa: PREFIX-7",
		})
	})
}
