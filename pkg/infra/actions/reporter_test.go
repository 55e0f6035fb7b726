package actions_test

import (
	"bytes"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/jiranotify/pkg/infra/actions"
)

func TestReporter_Fail(t *testing.T) {
	tests := []struct {
		name       string
		inActions  bool
		msg        string
		wantStdout string
		wantStderr string
	}{
		{
			name:       "workflow command in GitHub Actions",
			inActions:  true,
			msg:        "failed to notify Jira: HTTP status: 500",
			wantStdout: "::error::failed to notify Jira: HTTP status: 500\n",
		},
		{
			name:       "newlines and percent are escaped",
			inActions:  true,
			msg:        "100% broken\r\nsecond line",
			wantStdout: "::error::100%25 broken%0D%0Asecond line\n",
		},
		{
			name:       "plain message outside GitHub Actions",
			inActions:  false,
			msg:        "boom",
			wantStderr: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			reporter := actions.NewReporter(
				actions.WithWriters(&stdout, &stderr),
				actions.WithActions(tt.inActions),
			)

			reporter.Fail(tt.msg)

			if tt.inActions {
				gt.Value(t, stdout.String()).Equal(tt.wantStdout)
				gt.Value(t, stderr.Len()).Equal(0)
				return
			}
			gt.Value(t, stdout.Len()).Equal(0)
			gt.String(t, stderr.String()).Contains("Error: ")
			gt.String(t, stderr.String()).Contains(tt.wantStderr)
		})
	}
}
