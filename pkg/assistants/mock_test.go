package assistants

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) CreateThread(ctx context.Context) (*Thread, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.(*Thread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClient) AddMessage(ctx context.Context, threadID, role, content string) error {
	return m.Called(ctx, threadID, role, content).Error(0)
}

func (m *mockClient) CreateRun(ctx context.Context, threadID string, req RunRequest) (*Run, error) {
	args := m.Called(ctx, threadID, req)
	if r := args.Get(0); r != nil {
		return r.(*Run), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClient) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	args := m.Called(ctx, threadID, runID)
	if r := args.Get(0); r != nil {
		return r.(*Run), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClient) LatestReply(ctx context.Context, threadID string) (string, error) {
	args := m.Called(ctx, threadID)
	return args.String(0), args.Error(1)
}
