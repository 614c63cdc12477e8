package assist

import (
	"context"
	"time"
)

// PollOutcome is the terminal state of a poll loop.
type PollOutcome int

const (
	// PollCompleted means the worker wrote its status file.
	PollCompleted PollOutcome = iota
	// PollTimedOut means the deadline (plus grace) passed with no status.
	PollTimedOut
	// PollCanceled means the context ended first, e.g. daemon shutdown.
	PollCanceled
)

const pollInterval = 200 * time.Millisecond

// timeoutGrace extends the poll deadline past the worker's own HTTP
// timeout, so the worker's error report wins over a bare timeout whenever
// it manages to write one.
const timeoutGrace = 4 * time.Second

// PollJob watches a job directory until the worker finishes, the deadline
// (plus grace) expires, or ctx is done. It never kills the worker; a
// timed-out worker's late artifacts are simply discarded by the caller.
func PollJob(ctx context.Context, job *Job, deadline time.Duration) PollOutcome {
	limit := time.NewTimer(deadline + timeoutGrace)
	defer limit.Stop()
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()

	if job.Done() {
		return PollCompleted
	}
	for {
		select {
		case <-ctx.Done():
			return PollCanceled
		case <-limit.C:
			return PollTimedOut
		case <-tick.C:
			if job.Done() {
				return PollCompleted
			}
		}
	}
}
