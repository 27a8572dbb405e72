// Package dialog produces the assistant's reply while trip details are still
// being collected. The controller decides what must be asked; a Context
// decides how to phrase it, from local history, an external assistant thread
// or a fixed template.
package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/sells-group/trip-assistant/internal/model"
)

// Context phrases the next collecting-phase reply. Implementations may
// record a thread handle on sess; the caller persists it.
type Context interface {
	Respond(ctx context.Context, sess *model.Session, message string, brief Brief) (string, error)
}

// Brief is what the controller needs said this turn.
type Brief struct {
	Profile model.TripProfile
	// Missing holds unset required fields, Optional unset optional ones.
	Missing  []model.Field
	Optional []model.Field
	// Notes are corrections the reply must include verbatim, such as a
	// rejected date.
	Notes []string
}

// NewBrief derives the missing fields from p.
func NewBrief(p model.TripProfile, notes ...string) Brief {
	return Brief{
		Profile:  p,
		Missing:  p.MissingRequired(),
		Optional: p.MissingOptional(),
		Notes:    notes,
	}
}

var questions = map[model.Field]string{
	model.FieldOrigin:      "Where will you be traveling from?",
	model.FieldDestination: "Where would you like to go?",
	model.FieldStartDate:   "What date would you like to leave?",
	model.FieldEndDate:     "When will you be coming back?",
	model.FieldTravelers:   "How many people are traveling, including you?",
	model.FieldBudget:      "Do you have a total budget in mind?",
	model.FieldPreferences: "Any activities or interests I should plan around?",
}

// Question returns the question for the first missing field, required
// fields first.
func (b Brief) Question() string {
	switch {
	case len(b.Missing) > 0:
		return questions[b.Missing[0]]
	case len(b.Optional) > 0:
		return questions[b.Optional[0]]
	default:
		return ""
	}
}

// Render formats the brief as prompt context for a text-generation call.
func (b Brief) Render() string {
	var sb strings.Builder
	known := b.Profile.Known()
	if len(known) > 0 {
		sb.WriteString("Known trip details (never ask for these again):\n")
		for _, f := range known {
			fmt.Fprintf(&sb, "- %s: %s\n", f.Label(), displayValue(b.Profile, f))
		}
	} else {
		sb.WriteString("No trip details are known yet.\n")
	}
	if len(b.Missing) > 0 {
		fmt.Fprintf(&sb, "Still required: %s\n", strings.Join(model.Labels(b.Missing), ", "))
	}
	if len(b.Optional) > 0 {
		fmt.Fprintf(&sb, "Optional, ask only after the required details: %s\n", strings.Join(model.Labels(b.Optional), ", "))
	}
	if len(b.Notes) > 0 {
		sb.WriteString("Tell the user about these problems first:\n")
		for _, n := range b.Notes {
			fmt.Fprintf(&sb, "- %s\n", n)
		}
	}
	if q := b.Question(); q != "" {
		fmt.Fprintf(&sb, "Next question: %s\n", q)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func displayValue(p model.TripProfile, f model.Field) string {
	v := p.Value(f)
	if f.IsDate() {
		d := p.StartDate
		if f == model.FieldEndDate {
			d = p.EndDate
		}
		v = d.Pretty()
		if p.ConfidenceOf(f) == model.ConfidenceInferred {
			v += " (inferred, needs confirmation)"
		}
	}
	return v
}
