package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trip-assistant/internal/model"
)

func TestSessionKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "session:abc:profile", sessionKey("abc", partProfile))
	assert.Equal(t, []string{
		"session:abc:profile",
		"session:abc:confirmed",
		"session:abc:itinerary",
		"session:abc:costs",
		"session:abc:history",
		"session:abc:thread",
	}, sessionKeys("abc"))
}

func TestEncodeParts_RoundTrip(t *testing.T) {
	t.Parallel()

	want := sampleSession("abc")
	parts, err := encodeParts(want)
	require.NoError(t, err)
	assert.Equal(t, "1", parts[partConfirmed])
	assert.Equal(t, "thread_123", parts[partThread])
	assert.Equal(t, want, decodeParts("abc", parts))

	parts, err = encodeParts(model.NewSession("empty"))
	require.NoError(t, err)
	assert.Len(t, parts, 1)
	assert.Contains(t, parts, partProfile)
}

func TestDecodeParts_DropsCorruptPart(t *testing.T) {
	t.Parallel()

	s := decodeParts("abc", map[string]string{
		partProfile:   `{"destination":"Paris"}`,
		partHistory:   `not json`,
		partItinerary: "Day 1",
	})
	assert.Equal(t, "Paris", s.Profile.Destination)
	assert.Empty(t, s.History)
	assert.Equal(t, "Day 1", s.Itinerary)
}

func TestRedisStore_Contract(t *testing.T) {
	url := os.Getenv("TRIP_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TRIP_TEST_REDIS_URL not set, skipping")
	}
	st, err := NewRedis(context.Background(), url, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	storeContract(t, st)
}
