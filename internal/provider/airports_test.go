package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trip-assistant/internal/llm"
)

func TestAirportResolver_CachesAnswer(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Phase == "airports" && req.Messages[0].Content == "Paris"
	})).Return("CDG, ORY", nil).Once()

	r := NewAirportResolver(gen)
	code, err := r.Resolve(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, "CDG,ORY", code)

	code, err = r.Resolve(context.Background(), " paris ")
	require.NoError(t, err)
	assert.Equal(t, "CDG,ORY", code)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestAirportResolver_PassesCodesThrough(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{}
	code, err := NewAirportResolver(gen).Resolve(context.Background(), "JFK")
	require.NoError(t, err)
	assert.Equal(t, "JFK", code)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAirportResolver_Errors(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, mock.Anything).Return("I am not sure.", nil).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()

	r := NewAirportResolver(gen)
	_, err := r.Resolve(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no airport code")

	_, err = r.Resolve(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve airport")
}
