// Package conversation runs one chat turn: it merges what the user said into
// the trip profile, decides whether to keep collecting, ask for
// confirmation or plan, and routes messages after the itinerary to the
// follow-up handler.
package conversation

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/dialog"
	"github.com/sells-group/trip-assistant/internal/extract"
	"github.com/sells-group/trip-assistant/internal/itinerary"
	"github.com/sells-group/trip-assistant/internal/model"
	"github.com/sells-group/trip-assistant/internal/planner"
	"github.com/sells-group/trip-assistant/internal/store"
)

// Planner runs the provider lookups for a confirmed trip.
type Planner interface {
	Plan(ctx context.Context, p model.TripProfile) planner.Bundle
}

// Synthesizer writes the itinerary from the lookup results.
type Synthesizer interface {
	Synthesize(ctx context.Context, p model.TripProfile, b planner.Bundle) (string, error)
}

// FollowUpHandler answers messages once an itinerary exists.
type FollowUpHandler interface {
	Handle(ctx context.Context, message string, p model.TripProfile, stored string, history []model.Message) (itinerary.Answer, error)
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Store       store.Store
	Extractor   extract.Engine
	Dialog      dialog.Context
	Planner     Planner
	Synthesizer Synthesizer
	FollowUp    FollowUpHandler
}

// Option configures a Controller.
type Option func(*Controller)

// WithHistoryLimit caps the stored history per session.
func WithHistoryLimit(n int) Option {
	return func(c *Controller) {
		c.historyLimit = n
	}
}

// WithHorizon sets the planning horizon quoted in date corrections.
func WithHorizon(days int) Option {
	return func(c *Controller) {
		if days > 0 {
			c.horizonDays = days
		}
	}
}

// WithCurrency sets the default currency of parsed cost breakdowns.
func WithCurrency(cur string) Option {
	return func(c *Controller) {
		if cur != "" {
			c.currency = cur
		}
	}
}

// Controller is the per-turn state machine.
type Controller struct {
	Deps
	historyLimit int
	horizonDays  int
	currency     string
}

// New returns a Controller over deps.
func New(deps Deps, opts ...Option) *Controller {
	c := &Controller{
		Deps:         deps,
		historyLimit: 50,
		horizonDays:  extract.DefaultHorizonDays,
		currency:     "USD",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Reply is the outcome of one turn.
type Reply struct {
	Response string
	Profile  model.TripProfile
	State    model.State
	Missing  []model.Field
}

func reply(s *model.Session, response string) Reply {
	return Reply{
		Response: response,
		Profile:  s.Profile,
		State:    s.State(),
		Missing:  s.Profile.MissingRequired(),
	}
}

// Handle runs one turn for sessionID. The returned Reply always carries a
// user-facing response; a non-nil error means the session could not be
// loaded or saved and nothing was persisted.
func (c *Controller) Handle(ctx context.Context, sessionID, message string) (Reply, error) {
	log := zap.L().With(zap.String("session_id", sessionID))

	sess, err := c.Store.Load(ctx, sessionID)
	if err != nil {
		log.Error("conversation: load session failed", zap.Error(err))
		return Reply{Response: msgTryLater, State: model.StateCollecting}, eris.Wrap(err, "conversation: load session")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return reply(sess, msgEmpty), nil
	}

	work := sess.Clone()
	work.Append(model.RoleUser, message)

	var (
		response string
		persist  bool
	)
	if work.State() == model.StatePostItinerary {
		response, persist = c.followUp(ctx, log, work, message)
	} else {
		response, persist = c.collect(ctx, log, work, message)
	}
	if !persist {
		return reply(sess, response), nil
	}

	work.Append(model.RoleAssistant, response)
	work.TrimHistory(c.historyLimit)
	if err := c.Store.Save(ctx, work); err != nil {
		log.Error("conversation: save session failed", zap.Error(err))
		return reply(sess, msgTryLater), eris.Wrap(err, "conversation: save session")
	}
	return reply(work, response), nil
}

// collect handles every state before the itinerary exists.
func (c *Controller) collect(ctx context.Context, log *zap.Logger, work *model.Session, message string) (string, bool) {
	before := work.State()
	intent := Classify(message)

	extractCtx := ctx
	if f, ok := lastQuestion(work); ok {
		extractCtx = extract.Asking(ctx, f)
	}
	partial, err := c.Extractor.Extract(extractCtx, message, work.Profile)
	if err != nil {
		log.Warn("conversation: extraction failed", zap.Error(err))
		partial = model.Partial{}
	}
	merged := work.Profile.Merge(partial)
	changed := len(merged.Changed) > 0
	if changed && work.Confirmed {
		work.Confirmed = false
		log.Info("conversation: profile changed after confirmation, asking again")
	}
	notes := issueNotes(merged.Issues, c.horizonDays)

	log.Debug("conversation: turn",
		zap.String("state", string(before)),
		zap.Stringer("intent", intent),
		zap.Int("changed", len(merged.Changed)),
		zap.Int("issues", len(merged.Issues)),
		zap.String("reference", string(partial.Reference)),
	)

	if !work.Profile.Complete() {
		if intent == IntentAffirm {
			log.Info("conversation: confirmation ignored, profile incomplete",
				zap.Strings("missing", model.Labels(work.Profile.MissingRequired())),
			)
		}
		text, err := c.Dialog.Respond(ctx, work, message, dialog.NewBrief(work.Profile, notes...))
		if err != nil {
			log.Warn("conversation: dialog failed", zap.Error(err))
			return msgTryAgain, false
		}
		return text, true
	}

	if len(notes) > 0 {
		return strings.Join(notes, "\n") + "\n\n" + summary(work.Profile, partial.Reference), true
	}

	switch {
	case changed || partial.Reference != model.RefNone:
		return summary(work.Profile, partial.Reference), true
	case intent == IntentDeny:
		work.Confirmed = false
		return msgChangeWhat, true
	case intent == IntentAffirm, before == model.StateConfirmedPlanning:
		return c.plan(ctx, log, work), true
	default:
		return summary(work.Profile, partial.Reference), true
	}
}

// lastQuestion returns the field the previous reply asked for. Only a
// collecting-phase reply asks one, and it asks for the first missing
// required field. work already holds the current user message.
func lastQuestion(work *model.Session) (model.Field, bool) {
	n := len(work.History)
	if n < 2 || work.History[n-2].Role != model.RoleAssistant || work.State() != model.StateCollecting {
		return 0, false
	}
	missing := work.Profile.MissingRequired()
	if len(missing) == 0 {
		return 0, false
	}
	return missing[0], true
}

// plan confirms the trip, runs the lookups and writes the itinerary. A
// synthesis failure leaves the session confirmed without itinerary so the
// next message retries.
func (c *Controller) plan(ctx context.Context, log *zap.Logger, work *model.Session) string {
	if !work.Confirm() {
		log.Warn("conversation: confirm refused", zap.Strings("missing", model.Labels(work.Profile.MissingRequired())))
		return summary(work.Profile, model.RefNone)
	}
	log.Info("conversation: trip confirmed, planning", zap.String("destination", work.Profile.Destination))

	bundle := c.Planner.Plan(ctx, work.Profile)
	text, err := c.Synthesizer.Synthesize(ctx, work.Profile, bundle)
	if err != nil {
		log.Error("conversation: synthesis failed", zap.Error(err))
		return msgPlanFailed
	}

	work.Itinerary = text
	work.CostBreakdown = nil
	if cb, ok := itinerary.ParseCostBreakdown(text, c.currency); ok {
		work.CostBreakdown = cb
	}
	log.Info("conversation: itinerary ready",
		zap.Strings("failed_lookups", bundle.Failed()),
		zap.Bool("cost_breakdown", work.CostBreakdown != nil),
	)
	return text
}

// followUp answers a message about an existing itinerary. On failure the
// session is left untouched.
func (c *Controller) followUp(ctx context.Context, log *zap.Logger, work *model.Session, message string) (string, bool) {
	ans, err := c.FollowUp.Handle(ctx, message, work.Profile, work.Itinerary, work.History)
	if err != nil {
		log.Warn("conversation: follow-up failed", zap.Error(err))
		return msgFollowUpFailed, false
	}
	if ans.Replaces {
		work.Itinerary = ans.Text
		if cb, ok := itinerary.ParseCostBreakdown(ans.Text, c.currency); ok {
			work.CostBreakdown = cb
		}
		log.Info("conversation: itinerary replaced by follow-up")
	}
	return ans.Text, true
}

// Reset wipes everything stored for sessionID.
func (c *Controller) Reset(ctx context.Context, sessionID string) error {
	if err := c.Store.Reset(ctx, sessionID); err != nil {
		return eris.Wrapf(err, "conversation: reset %s", sessionID)
	}
	zap.L().Info("conversation: session reset", zap.String("session_id", sessionID))
	return nil
}

// Session returns the stored session for inspection.
func (c *Controller) Session(ctx context.Context, sessionID string) (*model.Session, error) {
	s, err := c.Store.Load(ctx, sessionID)
	if err != nil {
		return nil, eris.Wrapf(err, "conversation: load %s", sessionID)
	}
	return s, nil
}
