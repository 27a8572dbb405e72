package model

import (
	"github.com/rotisserie/eris"
)

// Field identifies one slot of a TripProfile. The enumeration is the single
// source of truth for which slots exist and which are required.
type Field int

const (
	FieldOrigin Field = iota
	FieldDestination
	FieldStartDate
	FieldEndDate
	FieldTravelers
	FieldBudget
	FieldPreferences
)

// RequiredFields must all be present before a trip can be confirmed.
var RequiredFields = []Field{
	FieldOrigin,
	FieldDestination,
	FieldStartDate,
	FieldEndDate,
	FieldTravelers,
}

// OptionalFields are collected when offered but never block confirmation.
var OptionalFields = []Field{
	FieldBudget,
	FieldPreferences,
}

// AllFields lists required fields first, then optional ones.
var AllFields = append(append([]Field{}, RequiredFields...), OptionalFields...)

var fieldKeys = map[Field]string{
	FieldOrigin:      "origin",
	FieldDestination: "destination",
	FieldStartDate:   "start_date",
	FieldEndDate:     "end_date",
	FieldTravelers:   "travelers",
	FieldBudget:      "budget",
	FieldPreferences: "preferences",
}

var fieldLabels = map[Field]string{
	FieldOrigin:      "origin",
	FieldDestination: "destination",
	FieldStartDate:   "start date",
	FieldEndDate:     "end date",
	FieldTravelers:   "number of travelers",
	FieldBudget:      "budget",
	FieldPreferences: "activity preferences",
}

// Key returns the snake_case key used in JSON and prompts.
func (f Field) Key() string {
	if k, ok := fieldKeys[f]; ok {
		return k
	}
	return "unknown"
}

// Label returns the human-readable name used when asking the user.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return "unknown"
}

// Required reports whether f is one of RequiredFields.
func (f Field) Required() bool {
	for _, r := range RequiredFields {
		if r == f {
			return true
		}
	}
	return false
}

// IsDate reports whether f carries a confidence tag.
func (f Field) IsDate() bool {
	return f == FieldStartDate || f == FieldEndDate
}

func (f Field) String() string {
	return f.Key()
}

// FieldByKey resolves a snake_case key back to its Field.
func FieldByKey(key string) (Field, bool) {
	for f, k := range fieldKeys {
		if k == key {
			return f, true
		}
	}
	return 0, false
}

func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.Key()), nil
}

func (f *Field) UnmarshalText(b []byte) error {
	parsed, ok := FieldByKey(string(b))
	if !ok {
		return eris.Errorf("model: unknown field %q", string(b))
	}
	*f = parsed
	return nil
}

// Labels maps fields to their labels, preserving order.
func Labels(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Label()
	}
	return out
}

// Confidence tags how a date value was obtained.
type Confidence string

const (
	// ConfidenceExplicit means the user stated the date directly.
	ConfidenceExplicit Confidence = "explicit"
	// ConfidenceInferred means the date was derived from a vague reference
	// and still needs the user's confirmation.
	ConfidenceInferred Confidence = "inferred"
)
