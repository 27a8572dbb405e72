package itinerary

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/trip-assistant/internal/llm"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
