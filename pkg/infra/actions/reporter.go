package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Reporter marks a run as failed for the host. Inside GitHub Actions it
// emits an ::error:: workflow command, elsewhere a coloured message.
type Reporter struct {
	stdout    io.Writer
	stderr    io.Writer
	inActions bool
}

// ReporterOption is a functional option for Reporter
type ReporterOption func(*Reporter)

// WithWriters overrides the output streams
func WithWriters(stdout, stderr io.Writer) ReporterOption {
	return func(r *Reporter) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithActions forces GitHub Actions mode on or off
func WithActions(enabled bool) ReporterOption {
	return func(r *Reporter) {
		r.inActions = enabled
	}
}

// NewReporter creates a Reporter. GitHub Actions mode is detected through
// the GITHUB_ACTIONS environment variable.
func NewReporter(opts ...ReporterOption) *Reporter {
	r := &Reporter{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		inActions: os.Getenv("GITHUB_ACTIONS") == "true",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fail reports msg as the failure reason of the run. It never panics or
// exits; the caller decides the exit status.
func (r *Reporter) Fail(msg string) {
	if r.inActions {
		fmt.Fprintf(r.stdout, "::error::%s\n", escapeData(msg))
		return
	}

	_, _ = color.New(color.FgRed, color.Bold).Fprintf(r.stderr, "Error: %s\n", msg)
}

// escapeData escapes a workflow command message the same way @actions/core does
func escapeData(s string) string {
	return strings.NewReplacer(
		"%", "%25",
		"\r", "%0D",
		"\n", "%0A",
	).Replace(s)
}
