package llm

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/trip-assistant/pkg/anthropic"
	"github.com/sells-group/trip-assistant/pkg/gemini"
)

type mockAnthropic struct {
	mock.Mock
}

func (m *mockAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*anthropic.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGemini struct {
	mock.Mock
}

func (m *mockGemini) Generate(ctx context.Context, req gemini.Request) (*gemini.Response, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*gemini.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGemini) Close() error {
	return m.Called().Error(0)
}
