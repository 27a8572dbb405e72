// Package extract turns a free-text travel message into a partial trip
// profile. A rule-based extractor always works; an LLM extractor handles
// richer phrasing and falls back to the rules when it fails.
package extract

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/model"
)

// ErrUnparseable is returned when an extractor's output cannot be read.
var ErrUnparseable = eris.New("extract: unparseable output")

// DefaultHorizonDays is how far ahead a trip may start.
const DefaultHorizonDays = 180

// Engine extracts trip facts from one message, using the current profile as
// context for short answers.
type Engine interface {
	Extract(ctx context.Context, message string, profile model.TripProfile) (model.Partial, error)
}

type askedKey struct{}

// Asking returns a context recording that the assistant's previous reply
// asked for f. Extractors only read a bare short answer as a place when the
// question was about that place.
func Asking(ctx context.Context, f model.Field) context.Context {
	return context.WithValue(ctx, askedKey{}, f)
}

// askedField returns the field recorded by Asking.
func askedField(ctx context.Context) (model.Field, bool) {
	f, ok := ctx.Value(askedKey{}).(model.Field)
	return f, ok
}

// Option configures an extractor.
type Option func(*resolver)

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(r *resolver) {
		r.now = now
	}
}

// WithHorizon sets how many days ahead a trip may start.
func WithHorizon(days int) Option {
	return func(r *resolver) {
		if days > 0 {
			r.horizonDays = days
		}
	}
}

func newResolver(opts []Option) resolver {
	r := resolver{now: time.Now, horizonDays: DefaultHorizonDays}
	for _, o := range opts {
		o(&r)
	}
	return r
}

// evidence is what was found in one message before date validation.
type evidence struct {
	origin      string
	destination string
	start, end  *model.Date
	span        int
	travelers   int
	budget      *float64
	preferences string
	reference   model.DateReference
}

// fill copies fields still unset in e from o.
func (e *evidence) fill(o evidence) {
	if e.origin == "" {
		e.origin = o.origin
	}
	if e.destination == "" {
		e.destination = o.destination
	}
	if e.start == nil {
		e.start = o.start
	}
	if e.end == nil {
		e.end = o.end
	}
	if e.span == 0 {
		e.span = o.span
	}
	if e.travelers == 0 {
		e.travelers = o.travelers
	}
	if e.budget == nil {
		e.budget = o.budget
	}
	if e.preferences == "" {
		e.preferences = o.preferences
	}
	if e.reference == model.RefNone {
		e.reference = o.reference
	}
}

func (e evidence) empty() bool {
	return e == evidence{}
}

// resolver turns evidence into a validated Partial. Both extractors share it
// so date rules are identical whichever one ran.
type resolver struct {
	now         func() time.Time
	horizonDays int
}

func (r resolver) today() model.Date {
	return model.DateOf(r.now())
}

func (r resolver) resolve(e evidence, profile model.TripProfile) model.Partial {
	today := r.today()
	p := model.Partial{
		Origin:      e.origin,
		Destination: e.destination,
		Travelers:   e.travelers,
		Budget:      e.budget,
		Preferences: e.preferences,
	}

	start, end := e.start, e.end
	confidence := model.ConfidenceExplicit
	if e.reference != model.RefNone && start == nil && end == nil {
		if s, en, ok := referenceRange(e.reference, today); ok {
			start = &s
			if e.span == 0 {
				end = &en
			}
			confidence = model.ConfidenceInferred
			p.Reference = e.reference
		}
	}
	if e.span > 0 {
		switch {
		case start != nil && end == nil:
			d := start.AddDays(e.span)
			end = &d
		case start == nil && end != nil:
			d := end.AddDays(-e.span)
			start = &d
		case start == nil && end == nil && profile.StartDate != nil:
			d := profile.StartDate.AddDays(e.span)
			end = &d
		}
	}

	p.StartDate = r.check(start, confidence, today)
	p.EndDate = r.check(end, confidence, today)
	if p.StartDate.State == model.SlotValue && p.EndDate.State == model.SlotValue &&
		!p.EndDate.Date.After(p.StartDate.Date) {
		p.StartDate = model.RejectedDate(p.StartDate.Date, model.RejectEndNotAfter)
		p.EndDate = model.RejectedDate(p.EndDate.Date, model.RejectEndNotAfter)
	}
	return p
}

func (r resolver) check(d *model.Date, c model.Confidence, today model.Date) model.DateSlot {
	switch {
	case d == nil:
		return model.DateSlot{}
	case d.Before(today):
		return model.RejectedDate(*d, model.RejectPast)
	case d.After(today.AddDays(r.horizonDays)):
		return model.RejectedDate(*d, model.RejectBeyondHorizon)
	default:
		return model.KnownDate(*d, c)
	}
}

// Hybrid runs a primary extractor and falls back to rules when it errors.
type Hybrid struct {
	primary  Engine
	fallback Engine
}

// NewHybrid wraps primary with fallback.
func NewHybrid(primary, fallback Engine) *Hybrid {
	return &Hybrid{primary: primary, fallback: fallback}
}

// Extract implements Engine. It only errors if the fallback does.
func (h *Hybrid) Extract(ctx context.Context, message string, profile model.TripProfile) (model.Partial, error) {
	p, err := h.primary.Extract(ctx, message, profile)
	if err == nil {
		return p, nil
	}
	zap.L().Warn("extract: primary extractor failed, using rules", zap.Error(err))
	return h.fallback.Extract(ctx, message, profile)
}
