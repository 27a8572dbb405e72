package store

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sells-group/trip-assistant/internal/model"
)

// MemoryStore keeps sessions in process memory. Sessions are stored encoded
// so callers never share state with the store.
type MemoryStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemory creates a MemoryStore whose entries expire after ttl.
func NewMemory(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: gocache.New(ttl, ttl/2), ttl: ttl}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*model.Session, error) {
	v, ok := m.cache.Get(id)
	if !ok {
		return model.NewSession(id), nil
	}
	return decodeSession(id, v.([]byte)), nil
}

func (m *MemoryStore) Save(_ context.Context, s *model.Session) error {
	b, err := encodeSession(s)
	if err != nil {
		return err
	}
	m.cache.Set(s.ID, b, m.ttl)
	return nil
}

func (m *MemoryStore) Reset(_ context.Context, id string) error {
	m.cache.Delete(id)
	return nil
}

func (m *MemoryStore) Migrate(context.Context) error { return nil }

func (m *MemoryStore) Close() error {
	m.cache.Flush()
	return nil
}
