package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trip-assistant/internal/llm"
	"github.com/sells-group/trip-assistant/internal/model"
)

func fixedGenerator(text string, err error) llm.Generator {
	return llm.GeneratorFunc(func(_ context.Context, _ llm.Request) (string, error) {
		return text, err
	})
}

func newTestLLM(gen llm.Generator) *LLMExtractor {
	return NewLLMExtractor(gen, time.Second, WithClock(clockAt(friday)))
}

func TestLLMExtractor_ParsesFencedJSON(t *testing.T) {
	t.Parallel()

	var got llm.Request
	gen := llm.GeneratorFunc(func(_ context.Context, req llm.Request) (string, error) {
		got = req
		return "```json\n" + `{"origin":"Boston","destination":"Paris","start_date":"2026-06-01","end_date":"2026-06-07","travelers":"3","budget":2500,"preferences":"museums","date_reference":null}` + "\n```", nil
	})

	p, err := newTestLLM(gen).Extract(context.Background(), "Boston to Paris June 1-7, 3 of us, $2500, museums", model.TripProfile{})
	require.NoError(t, err)
	assert.Equal(t, "Boston", p.Origin)
	assert.Equal(t, "Paris", p.Destination)
	assert.Equal(t, model.KnownDate(model.MustDate("2026-06-01"), model.ConfidenceExplicit), p.StartDate)
	assert.Equal(t, "2026-06-07", p.EndDate.Date.String())
	assert.Equal(t, 3, p.Travelers)
	require.NotNil(t, p.Budget)
	assert.Equal(t, 2500.0, *p.Budget)
	assert.Equal(t, "museums", p.Preferences)

	assert.True(t, got.Fast)
	assert.Equal(t, "extraction", got.Phase)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.1, *got.Temperature, 1e-9)
	assert.Contains(t, got.System, "2026-05-15")
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "Empty trip profile")
}

func TestLLMExtractor_DateReference(t *testing.T) {
	t.Parallel()

	gen := fixedGenerator(`{"destination":"Rome","date_reference":"next_month","start_date":"2026-06-03"}`, nil)
	p, err := newTestLLM(gen).Extract(context.Background(), "Rome next month", model.TripProfile{})
	require.NoError(t, err)
	assert.Equal(t, model.RefNextMonth, p.Reference)
	assert.Equal(t, model.KnownDate(model.MustDate("2026-06-01"), model.ConfidenceInferred), p.StartDate)
	assert.Equal(t, model.KnownDate(model.MustDate("2026-06-30"), model.ConfidenceInferred), p.EndDate)
}

func TestLLMExtractor_ExplicitDatesBeatReference(t *testing.T) {
	t.Parallel()

	gen := fixedGenerator(`{"date_reference":"next_week","start_date":"2026-06-03","end_date":"2026-06-08"}`, nil)
	p, err := newTestLLM(gen).Extract(context.Background(), "not next week, June 3 to June 8", model.TripProfile{})
	require.NoError(t, err)
	assert.Equal(t, model.RefNone, p.Reference)
	assert.Equal(t, model.KnownDate(model.MustDate("2026-06-03"), model.ConfidenceExplicit), p.StartDate)
	assert.Equal(t, model.KnownDate(model.MustDate("2026-06-08"), model.ConfidenceExplicit), p.EndDate)
}

func TestLLMExtractor_PromptNamesAskedField(t *testing.T) {
	t.Parallel()

	var got llm.Request
	gen := llm.GeneratorFunc(func(_ context.Context, req llm.Request) (string, error) {
		got = req
		return `{"origin":"Denver"}`, nil
	})
	ctx := Asking(context.Background(), model.FieldOrigin)
	p, err := newTestLLM(gen).Extract(ctx, "Denver", model.TripProfile{Destination: "Rome"})
	require.NoError(t, err)
	assert.Equal(t, "Denver", p.Origin)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "The assistant just asked for the origin.")
}

func TestLLMExtractor_ValidatesDates(t *testing.T) {
	t.Parallel()

	gen := fixedGenerator(`{"start_date":"2025-01-10","end_date":"2025-01-12"}`, nil)
	p, err := newTestLLM(gen).Extract(context.Background(), "January 10 to 12 2025", model.TripProfile{})
	require.NoError(t, err)
	assert.Equal(t, model.RejectPast, p.StartDate.Reason)
	assert.Equal(t, model.RejectPast, p.EndDate.Reason)
}

func TestLLMExtractor_DropsDatesNotInMessage(t *testing.T) {
	t.Parallel()

	start := model.MustDate("2026-06-01")
	gen := fixedGenerator(`{"destination":"Rome","start_date":"2026-06-01"}`, nil)
	p, err := newTestLLM(gen).Extract(context.Background(), "actually make it Rome", model.TripProfile{StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, "Rome", p.Destination)
	assert.Equal(t, model.SlotUnknown, p.StartDate.State)
}

func TestLLMExtractor_Errors(t *testing.T) {
	t.Parallel()

	_, err := newTestLLM(fixedGenerator("I could not find anything", nil)).
		Extract(context.Background(), "hello", model.TripProfile{})
	assert.True(t, eris.Is(err, ErrUnparseable))

	_, err = newTestLLM(fixedGenerator(`{"start_date":"June 1"}`, nil)).
		Extract(context.Background(), "June 1", model.TripProfile{})
	assert.True(t, eris.Is(err, ErrUnparseable))

	_, err = newTestLLM(fixedGenerator(`{"travelers":"several"}`, nil)).
		Extract(context.Background(), "several of us", model.TripProfile{})
	assert.True(t, eris.Is(err, ErrUnparseable))

	boom := errors.New("upstream down")
	_, err = newTestLLM(fixedGenerator("", boom)).Extract(context.Background(), "hi", model.TripProfile{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestLLMExtractor_Timeout(t *testing.T) {
	t.Parallel()

	slow := llm.GeneratorFunc(func(ctx context.Context, _ llm.Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	x := NewLLMExtractor(slow, 10*time.Millisecond, WithClock(clockAt(friday)))
	_, err := x.Extract(context.Background(), "Paris", model.TripProfile{})
	require.Error(t, err)
	assert.True(t, eris.Is(err, context.DeadlineExceeded))
}

func TestHybrid_FallsBackToRules(t *testing.T) {
	t.Parallel()

	h := NewHybrid(newTestLLM(fixedGenerator("not json", nil)), newTestRules())
	p, err := h.Extract(context.Background(), "trip to Rome for 2 people", model.TripProfile{})
	require.NoError(t, err)
	assert.Equal(t, "Rome", p.Destination)
	assert.Equal(t, 2, p.Travelers)
}

func TestHybrid_PrefersPrimary(t *testing.T) {
	t.Parallel()

	h := NewHybrid(newTestLLM(fixedGenerator(`{"destination":"Roma"}`, nil)), newTestRules())
	p, err := h.Extract(context.Background(), "trip to Rome", model.TripProfile{})
	require.NoError(t, err)
	assert.Equal(t, "Roma", p.Destination)
}
