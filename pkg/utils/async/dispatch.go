package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

var (
	jobs    sync.WaitGroup
	pending atomic.Int64
)

// Dispatch runs handler in a new goroutine and returns the job ID attached
// to its logger.
//
// The handler receives a background context: the logger of ctx is kept
// (with "job" and "job_id" attributes), but cancellation of ctx does not
// reach the handler. Returned errors and recovered panics are logged and
// sent to Sentry (a no-op when Sentry is not initialized). Use Wait to
// drain dispatched jobs before exit.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) string {
	jobID := uuid.NewString()
	newCtx := newBackgroundContext(ctx, name, jobID)

	jobs.Add(1)
	pending.Add(1)

	go func() {
		defer jobs.Done()
		defer pending.Add(-1)

		logger := ctxlog.From(newCtx)
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetTag("job", name)
		hub.Scope().SetTag("job_id", jobID)

		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()))
				hub.CaptureException(fmt.Errorf("panic in async handler: %v", r))
			}
		}()

		if err := handler(newCtx); err != nil {
			logger.Error("error in async handler", "error", err)
			hub.CaptureException(err)
		}
	}()

	return jobID
}

// Pending returns the number of dispatched jobs that have not finished yet
func Pending() int64 {
	return pending.Load()
}

// Wait blocks until every dispatched job has finished or ctx is done. In the
// latter case the returned error carries the number of unfinished jobs.
func Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		jobs.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "async jobs did not finish",
			goerr.V("pending", pending.Load()),
		)
	}
}

func newBackgroundContext(ctx context.Context, name, jobID string) context.Context {
	logger := ctxlog.From(ctx).With("job", name, "job_id", jobID)
	return ctxlog.With(context.Background(), logger)
}
