package model

// SlotState distinguishes "not mentioned" from "mentioned but rejected".
type SlotState int

const (
	// SlotUnknown means the utterance carried no evidence for the slot.
	SlotUnknown SlotState = iota
	// SlotValue means the slot holds a usable value.
	SlotValue
	// SlotRejected means a value was mentioned but failed validation.
	SlotRejected
)

// RejectReason explains why a date slot was rejected.
type RejectReason string

const (
	RejectPast          RejectReason = "past"
	RejectBeyondHorizon RejectReason = "beyond_horizon"
	RejectEndNotAfter   RejectReason = "end_not_after_start"
)

// DateReference tags a vague temporal phrase found in the utterance.
type DateReference string

const (
	RefNone        DateReference = ""
	RefNextWeek    DateReference = "next_week"
	RefNextMonth   DateReference = "next_month"
	RefThisWeekend DateReference = "this_weekend"
)

// Phrase returns the words the user would have used.
func (r DateReference) Phrase() string {
	switch r {
	case RefNextWeek:
		return "next week"
	case RefNextMonth:
		return "next month"
	case RefThisWeekend:
		return "this weekend"
	default:
		return ""
	}
}

// DateSlot is one extracted date with its validation state.
type DateSlot struct {
	State      SlotState
	Date       Date
	Confidence Confidence
	Reason     RejectReason
}

// KnownDate returns a slot holding d with the given confidence.
func KnownDate(d Date, c Confidence) DateSlot {
	return DateSlot{State: SlotValue, Date: d, Confidence: c}
}

// RejectedDate returns a slot for d that failed validation.
func RejectedDate(d Date, reason RejectReason) DateSlot {
	return DateSlot{State: SlotRejected, Date: d, Reason: reason}
}

// Partial is the evidence extracted from a single utterance. Zero values mean
// "unknown": nothing in a Partial ever clears an existing profile value.
type Partial struct {
	Origin      string
	Destination string
	StartDate   DateSlot
	EndDate     DateSlot
	Travelers   int
	Budget      *float64
	Preferences string

	// Reference is set when the utterance used a vague temporal phrase.
	Reference DateReference
}

// Fields lists the slots for which the partial carries a usable value.
func (p Partial) Fields() []Field {
	var out []Field
	if p.Origin != "" {
		out = append(out, FieldOrigin)
	}
	if p.Destination != "" {
		out = append(out, FieldDestination)
	}
	if p.StartDate.State == SlotValue {
		out = append(out, FieldStartDate)
	}
	if p.EndDate.State == SlotValue {
		out = append(out, FieldEndDate)
	}
	if p.Travelers > 0 {
		out = append(out, FieldTravelers)
	}
	if p.Budget != nil {
		out = append(out, FieldBudget)
	}
	if p.Preferences != "" {
		out = append(out, FieldPreferences)
	}
	return out
}

// Empty reports whether the partial carries no evidence at all.
func (p Partial) Empty() bool {
	return len(p.Fields()) == 0 &&
		p.StartDate.State != SlotRejected &&
		p.EndDate.State != SlotRejected &&
		p.Reference == RefNone
}

// Fill copies slots that are still unknown in p from other. It is used to
// combine results of several extraction rules where the first match wins.
func (p *Partial) Fill(other Partial) {
	if p.Origin == "" {
		p.Origin = other.Origin
	}
	if p.Destination == "" {
		p.Destination = other.Destination
	}
	if p.StartDate.State == SlotUnknown {
		p.StartDate = other.StartDate
	}
	if p.EndDate.State == SlotUnknown {
		p.EndDate = other.EndDate
	}
	if p.Travelers == 0 {
		p.Travelers = other.Travelers
	}
	if p.Budget == nil {
		p.Budget = other.Budget
	}
	if p.Preferences == "" {
		p.Preferences = other.Preferences
	}
	if p.Reference == RefNone {
		p.Reference = other.Reference
	}
}
