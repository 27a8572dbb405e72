package provider

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/trip-assistant/internal/llm"
	"github.com/sells-group/trip-assistant/pkg/serpapi"
)

type mockSerp struct {
	mock.Mock
}

func (m *mockSerp) Flights(ctx context.Context, req serpapi.FlightsRequest) (*serpapi.FlightsResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*serpapi.FlightsResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSerp) Hotels(ctx context.Context, req serpapi.HotelsRequest) (*serpapi.HotelsResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*serpapi.HotelsResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSerp) Local(ctx context.Context, req serpapi.LocalRequest) (*serpapi.LocalResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*serpapi.LocalResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSerp) Events(ctx context.Context, req serpapi.EventsRequest) (*serpapi.EventsResponse, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*serpapi.EventsResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type staticAirports map[string]string

func (s staticAirports) Resolve(_ context.Context, place string) (string, error) {
	if code, ok := s[place]; ok {
		return code, nil
	}
	return "", ErrNoResults
}
