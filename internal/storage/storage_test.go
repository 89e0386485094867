package storage

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/landlord-engine/internal/game"
	"github.com/palemoky/landlord-engine/internal/game/player"
)

// playingSnapshot 叫完地主并出过一手牌的快照
func playingSnapshot(t *testing.T, id string) *game.Snapshot {
	t.Helper()
	g := game.New(id, game.WithRand(rand.New(rand.NewPCG(7, 8))))
	for _, pid := range []string{"p1", "p2", "p3"} {
		require.NoError(t, g.AddPlayer(player.New(pid)))
	}
	require.NoError(t, g.ProcessBid(g.CurrentTurn(), game.MaxBid))

	lead, ok := g.Player(g.CurrentTurn())
	require.True(t, ok)
	hand := lead.Hand()
	require.NoError(t, g.PlayCards(lead.ID(), hand[len(hand)-1:]))
	return g.Snapshot()
}

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"json", "proto"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			codec, err := CodecByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, codec.Name())

			s := playingSnapshot(t, "g1")
			data, err := codec.Marshal(s)
			require.NoError(t, err)

			back, err := codec.Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(t, s, back)

			g, err := game.Restore(back)
			require.NoError(t, err)
			assert.Equal(t, game.StatePlaying, g.State())
		})
	}
}

func TestCodecs_Deterministic(t *testing.T) {
	t.Parallel()

	s := playingSnapshot(t, "g1")
	a, err := ProtoCodec{}.Marshal(s)
	require.NoError(t, err)
	b, err := ProtoCodec{}.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCodecs_Errors(t *testing.T) {
	t.Parallel()

	_, err := CodecByName("xml")
	assert.Error(t, err)

	c, err := CodecByName("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	_, err = JSONCodec{}.Unmarshal([]byte("{not json"))
	assert.Error(t, err)
	_, err = ProtoCodec{}.Unmarshal([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ms := NewMemoryStore(nil)

	_, err := ms.Load(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotFound)

	s := playingSnapshot(t, "g1")
	require.NoError(t, ms.Save(ctx, s))
	require.NoError(t, ms.Save(ctx, nil))

	loaded, err := ms.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	// 修改读出的快照不影响存储
	loaded.Players[0].Hand = nil
	again, err := ms.Load(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, s, again)

	require.NoError(t, ms.Save(ctx, playingSnapshot(t, "g0")))
	ids, err := ms.ListGameIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"g0", "g1"}, ids)

	require.NoError(t, ms.Delete(ctx, "g1"))
	_, err = ms.Load(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	for _, codec := range []Codec{JSONCodec{}, ProtoCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			t.Parallel()
			client, mr := newTestRedis(t)
			ctx := context.Background()
			rs := NewRedisStore(client, RedisStoreOptions{KeyPrefix: "test:", Codec: codec})

			_, err := rs.Load(ctx, "g1")
			assert.ErrorIs(t, err, ErrNotFound)

			s := playingSnapshot(t, "g1")
			require.NoError(t, rs.Save(ctx, s))
			assert.True(t, mr.Exists("test:game:g1"))
			assert.Equal(t, defaultGameExpiration, mr.TTL("test:game:g1"))

			loaded, err := rs.Load(ctx, "g1")
			require.NoError(t, err)
			assert.Equal(t, s, loaded)

			require.NoError(t, rs.Save(ctx, playingSnapshot(t, "g2")))
			ids, err := rs.ListGameIDs(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"g1", "g2"}, ids)

			require.NoError(t, rs.Delete(ctx, "g1"))
			assert.False(t, mr.Exists("test:game:g1"))
		})
	}
}

func TestRedisStore_Expiration(t *testing.T) {
	t.Parallel()

	client, mr := newTestRedis(t)
	ctx := context.Background()

	rs := NewRedisStore(client, RedisStoreOptions{Expiration: -1})
	require.NoError(t, rs.Save(ctx, playingSnapshot(t, "forever")))
	assert.Zero(t, mr.TTL("game:forever"))

	rs = NewRedisStore(client, RedisStoreOptions{Expiration: defaultGameExpiration / 4})
	require.NoError(t, rs.Save(ctx, playingSnapshot(t, "short")))

	mr.FastForward(defaultGameExpiration / 2)
	_, err := rs.Load(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = rs.Load(ctx, "forever")
	assert.NoError(t, err)
}

func TestRedisStore_CorruptData(t *testing.T) {
	t.Parallel()

	client, mr := newTestRedis(t)
	require.NoError(t, mr.Set("game:bad", "garbage"))

	_, err := NewRedisStore(client, RedisStoreOptions{}).Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
