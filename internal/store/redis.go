package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trip-assistant/internal/model"
)

const sessionKeyPrefix = "session:"

// Per-session key suffixes. Every part shares the session's expiry.
const (
	partProfile   = "profile"
	partConfirmed = "confirmed"
	partItinerary = "itinerary"
	partCosts     = "costs"
	partHistory   = "history"
	partThread    = "thread"
)

var sessionParts = []string{partProfile, partConfirmed, partItinerary, partCosts, partHistory, partThread}

// RedisStore keeps each part of a session under its own key.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the Redis server at url.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, eris.Wrap(err, "redis: parse url")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "redis: ping")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func sessionKey(id, part string) string {
	return sessionKeyPrefix + id + ":" + part
}

func sessionKeys(id string) []string {
	keys := make([]string, len(sessionParts))
	for i, p := range sessionParts {
		keys[i] = sessionKey(id, p)
	}
	return keys
}

func (r *RedisStore) Load(ctx context.Context, id string) (*model.Session, error) {
	vals, err := r.client.MGet(ctx, sessionKeys(id)...).Result()
	if err != nil {
		return nil, eris.Wrapf(err, "redis: load session %s", id)
	}
	parts := make(map[string]string, len(sessionParts))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			parts[sessionParts[i]] = s
		}
	}
	return decodeParts(id, parts), nil
}

func (r *RedisStore) Save(ctx context.Context, s *model.Session) error {
	parts, err := encodeParts(s)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, p := range sessionParts {
			key := sessionKey(s.ID, p)
			if v, ok := parts[p]; ok {
				pipe.Set(ctx, key, v, r.ttl)
			} else {
				pipe.Del(ctx, key)
			}
		}
		return nil
	})
	return eris.Wrapf(err, "redis: save session %s", s.ID)
}

func (r *RedisStore) Reset(ctx context.Context, id string) error {
	err := r.client.Del(ctx, sessionKeys(id)...).Err()
	return eris.Wrapf(err, "redis: reset session %s", id)
}

func (r *RedisStore) Migrate(context.Context) error { return nil }

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// encodeParts splits a session into its stored parts. Empty parts are
// omitted so Save deletes them.
func encodeParts(s *model.Session) (map[string]string, error) {
	parts := make(map[string]string, len(sessionParts))

	profile, err := json.Marshal(s.Profile)
	if err != nil {
		return nil, eris.Wrap(err, "redis: encode profile")
	}
	parts[partProfile] = string(profile)

	if s.Confirmed {
		parts[partConfirmed] = "1"
	}
	if s.Itinerary != "" {
		parts[partItinerary] = s.Itinerary
	}
	if s.CostBreakdown != nil {
		costs, err := json.Marshal(s.CostBreakdown)
		if err != nil {
			return nil, eris.Wrap(err, "redis: encode costs")
		}
		parts[partCosts] = string(costs)
	}
	if len(s.History) > 0 {
		history, err := json.Marshal(s.History)
		if err != nil {
			return nil, eris.Wrap(err, "redis: encode history")
		}
		parts[partHistory] = string(history)
	}
	if s.ThreadID != "" {
		parts[partThread] = s.ThreadID
	}
	return parts, nil
}

// decodeParts rebuilds a session. A part that fails to decode is dropped
// with a warning and the rest of the session is kept.
func decodeParts(id string, parts map[string]string) *model.Session {
	s := model.NewSession(id)
	decode := func(part string, dst any) {
		v, ok := parts[part]
		if !ok {
			return
		}
		if err := json.Unmarshal([]byte(v), dst); err != nil {
			zap.L().Warn("redis: discarding undecodable session part",
				zap.String("session_id", id),
				zap.String("part", part),
				zap.Error(err),
			)
		}
	}

	decode(partProfile, &s.Profile)
	s.Confirmed = parts[partConfirmed] == "1"
	s.Itinerary = parts[partItinerary]
	if _, ok := parts[partCosts]; ok {
		var costs model.CostBreakdown
		decode(partCosts, &costs)
		if len(costs.Items) > 0 || costs.Total > 0 {
			s.CostBreakdown = &costs
		}
	}
	decode(partHistory, &s.History)
	s.ThreadID = parts[partThread]
	return s
}
