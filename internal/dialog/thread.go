package dialog

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/pkg/assistants"
)

// Thread phrases replies through an external assistant thread that keeps
// its own conversation memory. The thread handle lives on the session.
type Thread struct {
	client      assistants.Client
	assistantID string
	pollOpts    []assistants.PollOption
}

// NewThread returns a Thread context running assistantID.
func NewThread(client assistants.Client, assistantID string, opts ...assistants.PollOption) *Thread {
	return &Thread{client: client, assistantID: assistantID, pollOpts: opts}
}

// Respond implements Context. A thread created by a turn that fails is
// logged and cleared from sess.
func (t *Thread) Respond(ctx context.Context, sess *model.Session, message string, brief Brief) (text string, err error) {
	if sess.ThreadID == "" {
		th, cerr := t.client.CreateThread(ctx)
		if cerr != nil {
			return "", eris.Wrap(cerr, "dialog: create thread")
		}
		sess.ThreadID = th.ID
		zap.L().Debug("dialog: thread created",
			zap.String("session_id", sess.ID),
			zap.String("thread_id", th.ID),
		)
		defer func() {
			if err == nil {
				return
			}
			zap.L().Warn("dialog: abandoning thread after failed turn",
				zap.String("session_id", sess.ID),
				zap.String("thread_id", th.ID),
			)
			sess.ThreadID = ""
		}()
	}

	if err := t.client.AddMessage(ctx, sess.ThreadID, model.RoleUser, message); err != nil {
		return "", eris.Wrap(err, "dialog: add message")
	}
	run, err := t.client.CreateRun(ctx, sess.ThreadID, assistants.RunRequest{
		AssistantID:            t.assistantID,
		AdditionalInstructions: collectingSystem + "\n\n" + brief.Render(),
	})
	if err != nil {
		return "", eris.Wrap(err, "dialog: create run")
	}

	if _, err := assistants.PollRun(ctx, t.client, sess.ThreadID, run.ID, t.pollOpts...); err != nil {
		zap.L().Warn("dialog: thread run did not complete",
			zap.String("session_id", sess.ID),
			zap.String("run_id", run.ID),
			zap.String("outcome", string(assistants.OutcomeOf(err))),
			zap.Error(err),
		)
		return "", eris.Wrap(err, "dialog: poll run")
	}

	reply, err := t.client.LatestReply(ctx, sess.ThreadID)
	if err != nil {
		return "", eris.Wrap(err, "dialog: read reply")
	}
	return reply, nil
}
