package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senbank/backoffice/internal/core/domain"
)

// recordingClient answers Exists and TxPipelined; any other command panics
// through the nil embedded interface.
type recordingClient struct {
	redis.Cmdable

	pipeline    redis.Pipeliner
	txCalls     int
	queued      []redis.Cmder
	existsKeys  []string
	existsValue int64
	existsErr   error
}

func newRecordingClient(t *testing.T) *recordingClient {
	t.Helper()
	// The client never dials: commands are only queued on its pipeline.
	c := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = c.Close() })
	return &recordingClient{pipeline: c.TxPipeline()}
}

func (c *recordingClient) TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	c.txCalls++
	if err := fn(c.pipeline); err != nil {
		return nil, err
	}
	c.queued = c.pipeline.Cmds()
	return c.queued, nil
}

func (c *recordingClient) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	c.existsKeys = append(c.existsKeys, keys...)
	return redis.NewIntResult(c.existsValue, c.existsErr)
}

func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

func TestRevocationStore_Revoke_SkipsExpiredToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	client := newRecordingClient(t)
	store := NewRevocationStore(client)
	store.now = fixedClock(now)

	for _, expiresAt := range []time.Time{now, now.Add(-time.Minute)} {
		err := store.Revoke(context.Background(), domain.Revocation{JTI: "abc", ExpiresAt: expiresAt})
		require.NoError(t, err)
	}
	assert.Zero(t, client.txCalls)
}

func TestRevocationStore_Revoke_WritesHashWithExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	client := newRecordingClient(t)
	store := NewRevocationStore(client)
	store.now = fixedClock(now)

	rev := domain.Revocation{
		JTI:       "abc",
		UserID:    "u1",
		Role:      "Agent",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, store.Revoke(context.Background(), rev))

	assert.Equal(t, 1, client.txCalls)
	require.Len(t, client.queued, 2)

	hset := client.queued[0]
	assert.Equal(t, "hset", hset.Name())
	assert.Equal(t, []interface{}{
		"hset", "revoked:abc",
		"userId", "u1",
		"role", "Agent",
		"createdAt", "2024-05-01T12:00:00Z",
	}, hset.Args())

	expire := client.queued[1]
	assert.Equal(t, "expireat", expire.Name())
	assert.Equal(t, "revoked:abc", expire.Args()[1])
	assert.Equal(t, rev.ExpiresAt.Unix(), expire.Args()[2])
}

func TestRevocationStore_IsRevoked(t *testing.T) {
	tests := []struct {
		name    string
		value   int64
		err     error
		want    bool
		wantErr bool
	}{
		{name: "listed", value: 1, want: true},
		{name: "not listed", value: 0, want: false},
		{name: "redis down", err: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newRecordingClient(t)
			client.existsValue = tt.value
			client.existsErr = tt.err
			store := NewRevocationStore(client)

			got, err := store.IsRevoked(context.Background(), "abc")
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, []string{"revoked:abc"}, client.existsKeys)
		})
	}
}
