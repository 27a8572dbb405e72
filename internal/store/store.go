// Package store persists conversation sessions with a rolling expiry.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/config"
	"github.com/sells-group/trip-assistant/internal/model"
)

// DefaultTTL is how long an untouched session lives.
const DefaultTTL = time.Hour

// Store loads and saves sessions. Load of an absent or expired session
// returns a fresh default session. Save writes every part of the session in
// one step and restarts its expiry.
type Store interface {
	Load(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, s *model.Session) error
	Reset(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Sweeper is implemented by stores whose expired rows must be deleted
// explicitly.
type Sweeper interface {
	DeleteExpired(ctx context.Context) (int, error)
}

// Open creates the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(ttl), nil
	case "redis":
		return NewRedis(ctx, cfg.RedisURL, ttl)
	case "sqlite":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "trip-assistant.db"
		}
		return NewSQLite(dsn, ttl)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, ttl, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

func encodeSession(s *model.Session) ([]byte, error) {
	b, err := json.Marshal(s)
	return b, eris.Wrapf(err, "store: encode session %s", s.ID)
}

// decodeSession reads a stored session. Undecodable data is logged and
// replaced by a fresh session so one bad row cannot wedge a conversation.
func decodeSession(id string, data []byte) *model.Session {
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		zap.L().Warn("store: discarding undecodable session",
			zap.String("session_id", id),
			zap.Error(err),
		)
		return model.NewSession(id)
	}
	s.ID = id
	return &s
}
