package assistants

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultPollInitial = 500 * time.Millisecond
	defaultPollCap     = 5 * time.Second
	defaultPollTimeout = 2 * time.Minute
)

// Terminal run outcomes other than completion.
var (
	ErrRunFailed    = eris.New("assistants: run failed")
	ErrRunCancelled = eris.New("assistants: run cancelled")
	ErrRunTimedOut  = eris.New("assistants: run timed out")
)

// PollOption configures polling behavior.
type PollOption func(*pollConfig)

type pollConfig struct {
	initial time.Duration
	cap     time.Duration
	timeout time.Duration
}

func defaultPollConfig() pollConfig {
	return pollConfig{
		initial: defaultPollInitial,
		cap:     defaultPollCap,
		timeout: defaultPollTimeout,
	}
}

// WithPollInterval overrides the initial poll interval.
func WithPollInterval(d time.Duration) PollOption {
	return func(c *pollConfig) {
		c.initial = d
	}
}

// WithPollCap overrides the maximum poll interval.
func WithPollCap(d time.Duration) PollOption {
	return func(c *pollConfig) {
		c.cap = d
	}
}

// WithPollTimeout overrides the default timeout (applied only if the parent
// context has no deadline).
func WithPollTimeout(d time.Duration) PollOption {
	return func(c *pollConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// PollRun polls GetRun until the run reaches a terminal status or the
// context expires. Intervals double from the initial value up to the cap.
// A run that needs tool outputs is reported as failed: this client never
// registers tools.
func PollRun(ctx context.Context, client Client, threadID, runID string, opts ...PollOption) (*Run, error) {
	cfg := defaultPollConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	interval := cfg.initial
	for {
		run, err := client.GetRun(ctx, threadID, runID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrapf(ErrRunTimedOut, "run %s: %v", runID, err)
			}
			return nil, eris.Wrapf(err, "assistants: poll run %s", runID)
		}

		switch run.Status {
		case RunCompleted:
			return run, nil
		case RunFailed, RunIncomplete, RunRequiresAction:
			msg := run.Status
			if run.LastError != nil {
				msg = run.LastError.Code + ": " + run.LastError.Message
			}
			return run, eris.Wrapf(ErrRunFailed, "run %s: %s", runID, msg)
		case RunCancelled, RunCancelling:
			return run, eris.Wrapf(ErrRunCancelled, "run %s", runID)
		case RunExpired:
			return run, eris.Wrapf(ErrRunTimedOut, "run %s expired", runID)
		}

		select {
		case <-ctx.Done():
			return nil, eris.Wrapf(ErrRunTimedOut, "run %s: %v", runID, ctx.Err())
		case <-time.After(interval):
		}

		interval *= 2
		if interval > cfg.cap {
			interval = cfg.cap
		}
	}
}

// Outcome is the terminal result of a polled run.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeTimedOut  Outcome = "timed_out"
)

// OutcomeOf classifies the error returned by PollRun. Transport errors
// count as failures.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCompleted
	case eris.Is(err, ErrRunTimedOut):
		return OutcomeTimedOut
	case eris.Is(err, ErrRunCancelled):
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}
