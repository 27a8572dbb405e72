package dialog

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/trip-assistant/internal/llm"
	"github.com/sells-group/trip-assistant/pkg/assistants"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type mockAssistants struct {
	mock.Mock
}

func (m *mockAssistants) CreateThread(ctx context.Context) (*assistants.Thread, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.(*assistants.Thread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssistants) AddMessage(ctx context.Context, threadID, role, content string) error {
	return m.Called(ctx, threadID, role, content).Error(0)
}

func (m *mockAssistants) CreateRun(ctx context.Context, threadID string, req assistants.RunRequest) (*assistants.Run, error) {
	args := m.Called(ctx, threadID, req)
	if r := args.Get(0); r != nil {
		return r.(*assistants.Run), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssistants) GetRun(ctx context.Context, threadID, runID string) (*assistants.Run, error) {
	args := m.Called(ctx, threadID, runID)
	if r := args.Get(0); r != nil {
		return r.(*assistants.Run), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssistants) LatestReply(ctx context.Context, threadID string) (string, error) {
	args := m.Called(ctx, threadID)
	return args.String(0), args.Error(1)
}
