package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Sets(t *testing.T) {
	t.Parallel()

	assert.Len(t, AllFields, len(RequiredFields)+len(OptionalFields))
	for _, f := range RequiredFields {
		assert.True(t, f.Required(), f.Key())
	}
	for _, f := range OptionalFields {
		assert.False(t, f.Required(), f.Key())
	}
	assert.True(t, FieldStartDate.IsDate())
	assert.False(t, FieldBudget.IsDate())
}

func TestField_Keys(t *testing.T) {
	t.Parallel()

	for _, f := range AllFields {
		back, ok := FieldByKey(f.Key())
		require.True(t, ok, f.Key())
		assert.Equal(t, f, back)
	}
	_, ok := FieldByKey("nope")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Field(99).Key())
}

func TestField_Labels(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"start date", "number of travelers", "activity preferences"},
		Labels([]Field{FieldStartDate, FieldTravelers, FieldPreferences}))
}

func TestField_TextKeysInMaps(t *testing.T) {
	t.Parallel()

	m := map[Field]Confidence{FieldEndDate: ConfidenceInferred}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"end_date":"inferred"}`, string(b))

	var back map[Field]Confidence
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, m, back)

	assert.Error(t, json.Unmarshal([]byte(`{"bogus":"inferred"}`), &back))
}

func TestPartial_FillFirstMatchWins(t *testing.T) {
	t.Parallel()

	p := Partial{Destination: "Paris"}
	p.Fill(Partial{Destination: "Rome", Origin: "Boston", Travelers: 2})
	assert.Equal(t, "Paris", p.Destination)
	assert.Equal(t, "Boston", p.Origin)
	assert.Equal(t, 2, p.Travelers)

	assert.True(t, Partial{}.Empty())
	assert.False(t, Partial{StartDate: RejectedDate(MustDate("2020-01-01"), RejectPast)}.Empty())
	assert.False(t, Partial{Reference: RefNextMonth}.Empty())
	assert.Equal(t, "next month", RefNextMonth.Phrase())
}
