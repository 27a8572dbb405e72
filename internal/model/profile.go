package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TripProfile is the slot-filling record for one session.
type TripProfile struct {
	Origin      string               `json:"origin,omitempty"`
	Destination string               `json:"destination,omitempty"`
	StartDate   *Date                `json:"start_date,omitempty"`
	EndDate     *Date                `json:"end_date,omitempty"`
	Travelers   int                  `json:"travelers,omitempty"`
	Budget      *float64             `json:"budget,omitempty"`
	Preferences string               `json:"preferences,omitempty"`
	Confidence  map[Field]Confidence `json:"confidence_levels,omitempty"`
}

// Has reports whether the slot for f holds a value.
func (p TripProfile) Has(f Field) bool {
	switch f {
	case FieldOrigin:
		return p.Origin != ""
	case FieldDestination:
		return p.Destination != ""
	case FieldStartDate:
		return p.StartDate != nil
	case FieldEndDate:
		return p.EndDate != nil
	case FieldTravelers:
		return p.Travelers > 0
	case FieldBudget:
		return p.Budget != nil
	case FieldPreferences:
		return p.Preferences != ""
	default:
		return false
	}
}

// Value renders the slot for f as display text, or "" when unset.
func (p TripProfile) Value(f Field) string {
	if !p.Has(f) {
		return ""
	}
	switch f {
	case FieldOrigin:
		return p.Origin
	case FieldDestination:
		return p.Destination
	case FieldStartDate:
		return p.StartDate.String()
	case FieldEndDate:
		return p.EndDate.String()
	case FieldTravelers:
		return strconv.Itoa(p.Travelers)
	case FieldBudget:
		return FormatMoney(*p.Budget)
	case FieldPreferences:
		return p.Preferences
	default:
		return ""
	}
}

// Missing returns the fields from candidates that are not set, in order.
func (p TripProfile) Missing(candidates []Field) []Field {
	var out []Field
	for _, f := range candidates {
		if !p.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// MissingRequired returns unset required fields.
func (p TripProfile) MissingRequired() []Field {
	return p.Missing(RequiredFields)
}

// MissingOptional returns unset optional fields.
func (p TripProfile) MissingOptional() []Field {
	return p.Missing(OptionalFields)
}

// Complete reports whether every required field is set.
func (p TripProfile) Complete() bool {
	return len(p.MissingRequired()) == 0
}

// Known returns the set fields in canonical order.
func (p TripProfile) Known() []Field {
	var out []Field
	for _, f := range AllFields {
		if p.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// ConfidenceOf returns the confidence tag of a date field. Untagged dates
// are explicit.
func (p TripProfile) ConfidenceOf(f Field) Confidence {
	if c, ok := p.Confidence[f]; ok {
		return c
	}
	return ConfidenceExplicit
}

// NeedsDateConfirmation reports whether any set date was inferred.
func (p TripProfile) NeedsDateConfirmation() bool {
	return (p.StartDate != nil && p.ConfidenceOf(FieldStartDate) == ConfidenceInferred) ||
		(p.EndDate != nil && p.ConfidenceOf(FieldEndDate) == ConfidenceInferred)
}

// PromoteDates marks every set date as explicit after the user confirmed it.
func (p *TripProfile) PromoteDates() {
	for _, f := range []Field{FieldStartDate, FieldEndDate} {
		if p.Has(f) {
			p.setConfidence(f, ConfidenceExplicit)
		}
	}
}

// Nights returns the number of nights between start and end, or 0 when
// either date is unset.
func (p TripProfile) Nights() int {
	if p.StartDate == nil || p.EndDate == nil {
		return 0
	}
	return p.StartDate.DaysUntil(*p.EndDate)
}

// Clone returns a deep copy.
func (p TripProfile) Clone() TripProfile {
	out := p
	if p.StartDate != nil {
		d := *p.StartDate
		out.StartDate = &d
	}
	if p.EndDate != nil {
		d := *p.EndDate
		out.EndDate = &d
	}
	if p.Budget != nil {
		b := *p.Budget
		out.Budget = &b
	}
	if p.Confidence != nil {
		out.Confidence = make(map[Field]Confidence, len(p.Confidence))
		for k, v := range p.Confidence {
			out.Confidence[k] = v
		}
	}
	return out
}

func (p *TripProfile) setConfidence(f Field, c Confidence) {
	if c == "" || c == ConfidenceExplicit {
		delete(p.Confidence, f)
		if len(p.Confidence) == 0 {
			p.Confidence = nil
		}
		return
	}
	if p.Confidence == nil {
		p.Confidence = make(map[Field]Confidence)
	}
	p.Confidence[f] = c
}

// DateIssue records a date that was mentioned but not merged.
type DateIssue struct {
	Field  Field
	Date   Date
	Reason RejectReason
}

// MergeResult reports what a Merge did.
type MergeResult struct {
	Changed []Field
	Issues  []DateIssue
}

// HasIssues reports whether any mentioned date was rejected.
func (r MergeResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// Merge applies the usable slots of u onto p. Only values present in u
// overwrite; nothing in u can clear an existing slot. Rejected dates and
// dates that would leave end_date on or before start_date are reported as
// issues and not applied.
func (p *TripProfile) Merge(u Partial) MergeResult {
	var res MergeResult

	setString := func(f Field, dst *string, v string) {
		if v != "" && v != *dst {
			*dst = v
			res.Changed = append(res.Changed, f)
		}
	}
	setString(FieldOrigin, &p.Origin, u.Origin)
	setString(FieldDestination, &p.Destination, u.Destination)

	if u.Travelers > 0 && u.Travelers != p.Travelers {
		p.Travelers = u.Travelers
		res.Changed = append(res.Changed, FieldTravelers)
	}
	if u.Budget != nil && *u.Budget >= 0 && (p.Budget == nil || *p.Budget != *u.Budget) {
		b := *u.Budget
		p.Budget = &b
		res.Changed = append(res.Changed, FieldBudget)
	}
	setString(FieldPreferences, &p.Preferences, u.Preferences)

	for _, slot := range []struct {
		field Field
		ds    DateSlot
	}{{FieldStartDate, u.StartDate}, {FieldEndDate, u.EndDate}} {
		if slot.ds.State == SlotRejected {
			res.Issues = append(res.Issues, DateIssue{Field: slot.field, Date: slot.ds.Date, Reason: slot.ds.Reason})
		}
	}

	start, end := p.StartDate, p.EndDate
	newStart := u.StartDate.State == SlotValue
	newEnd := u.EndDate.State == SlotValue
	if newStart {
		d := u.StartDate.Date
		start = &d
	}
	if newEnd {
		d := u.EndDate.Date
		end = &d
	}
	if !newStart && !newEnd {
		return res
	}

	if start != nil && end != nil && !end.After(*start) {
		if newStart {
			res.Issues = append(res.Issues, DateIssue{Field: FieldStartDate, Date: *start, Reason: RejectEndNotAfter})
		}
		if newEnd {
			res.Issues = append(res.Issues, DateIssue{Field: FieldEndDate, Date: *end, Reason: RejectEndNotAfter})
		}
		return res
	}

	if newStart {
		if p.StartDate == nil || *p.StartDate != *start {
			res.Changed = append(res.Changed, FieldStartDate)
		}
		p.StartDate = start
		p.setConfidence(FieldStartDate, u.StartDate.Confidence)
	}
	if newEnd {
		if p.EndDate == nil || *p.EndDate != *end {
			res.Changed = append(res.Changed, FieldEndDate)
		}
		p.EndDate = end
		p.setConfidence(FieldEndDate, u.EndDate.Confidence)
	}
	return res
}

// String renders the set fields for logs and prompts.
func (p TripProfile) String() string {
	known := p.Known()
	if len(known) == 0 {
		return "Empty trip profile"
	}
	parts := make([]string, 0, len(known))
	for _, f := range known {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Label(), p.Value(f)))
	}
	return strings.Join(parts, ", ")
}

// FormatMoney renders an amount as "$1,234" or "$1,234.50".
func FormatMoney(v float64) string {
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents == 100 {
		whole++
		cents = 0
	}
	s := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if cents > 0 {
		return fmt.Sprintf("$%s.%02d", b.String(), cents)
	}
	return "$" + b.String()
}
