package assistants

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fastPoll() []PollOption {
	return []PollOption{WithPollInterval(time.Millisecond), WithPollCap(2 * time.Millisecond)}
}

func TestPollRun_Completes(t *testing.T) {
	t.Parallel()

	m := new(mockClient)
	m.On("GetRun", mock.Anything, "th", "run").Return(&Run{ID: "run", Status: RunQueued}, nil).Once()
	m.On("GetRun", mock.Anything, "th", "run").Return(&Run{ID: "run", Status: RunInProgress}, nil).Once()
	m.On("GetRun", mock.Anything, "th", "run").Return(&Run{ID: "run", Status: RunCompleted}, nil).Once()

	run, err := PollRun(context.Background(), m, "th", "run", fastPoll()...)
	require.NoError(t, err)
	assert.Equal(t, RunCompleted, run.Status)
	assert.Equal(t, OutcomeCompleted, OutcomeOf(err))
	m.AssertExpectations(t)
}

func TestPollRun_TerminalStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  string
		want    error
		outcome Outcome
	}{
		{RunFailed, ErrRunFailed, OutcomeFailed},
		{RunIncomplete, ErrRunFailed, OutcomeFailed},
		{RunRequiresAction, ErrRunFailed, OutcomeFailed},
		{RunCancelled, ErrRunCancelled, OutcomeCancelled},
		{RunExpired, ErrRunTimedOut, OutcomeTimedOut},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			t.Parallel()
			m := new(mockClient)
			m.On("GetRun", mock.Anything, "th", "run").
				Return(&Run{ID: "run", Status: tt.status, LastError: &RunError{Code: "server_error", Message: "boom"}}, nil)

			_, err := PollRun(context.Background(), m, "th", "run", fastPoll()...)
			require.Error(t, err)
			assert.True(t, eris.Is(err, tt.want), err.Error())
			assert.Equal(t, tt.outcome, OutcomeOf(err))
		})
	}
}

func TestPollRun_Timeout(t *testing.T) {
	t.Parallel()

	m := new(mockClient)
	m.On("GetRun", mock.Anything, "th", "run").Return(&Run{ID: "run", Status: RunInProgress}, nil)

	opts := append(fastPoll(), WithPollTimeout(20*time.Millisecond))
	_, err := PollRun(context.Background(), m, "th", "run", opts...)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrRunTimedOut))
	assert.Equal(t, OutcomeTimedOut, OutcomeOf(err))
}

func TestPollRun_GetRunError(t *testing.T) {
	t.Parallel()

	m := new(mockClient)
	m.On("GetRun", mock.Anything, "th", "run").Return(nil, &Error{StatusCode: 500, Message: "oops"})

	_, err := PollRun(context.Background(), m, "th", "run", fastPoll()...)
	require.Error(t, err)
	assert.Equal(t, 500, StatusCode(err))
	assert.False(t, eris.Is(err, ErrRunTimedOut))
}
