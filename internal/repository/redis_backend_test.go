package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/rental-booking/internal/model"
)

func newRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisBackend(rdb), mr
}

func TestRedisBackendEmpty(t *testing.T) {
	ctx := context.Background()
	b, _ := newRedisBackend(t)

	rs, err := b.LoadReservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, rs)

	lists, err := b.LoadChecklists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestRedisBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t)

	price := 120.5
	created := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	r := stay(42, day(3, 1), day(3, 4))
	r.Price = &price
	r.CreatedAt = created
	require.NoError(t, b.SaveReservations(ctx, []model.Reservation{r}))

	raw, err := mr.Get(RedisKeyReservations)
	require.NoError(t, err)
	assert.Contains(t, raw, `"check_in":"2024-03-01"`)

	got, err := b.LoadReservations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, day(3, 4), got[0].CheckOut)
	assert.True(t, created.Equal(got[0].CreatedAt))
	require.NotNil(t, got[0].Price)
	assert.Equal(t, price, *got[0].Price)

	entries := []model.CompletedReminder{{ID: "checkin_42_today", Day: day(3, 1), Kind: model.KindCheckIn, CompletedAt: created}}
	require.NoError(t, b.SaveCompletions(ctx, entries))
	loaded, err := b.LoadCompletions(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, day(3, 1), loaded[0].Day)

	require.NoError(t, b.SaveChecklists(ctx, map[string][]bool{"prep_42": {true, false}}))
	lists, err := b.LoadChecklists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, lists["prep_42"])
}

func TestRedisBackendCorruptValue(t *testing.T) {
	ctx := context.Background()
	b, mr := newRedisBackend(t)
	require.NoError(t, mr.Set(RedisKeyReservations, "{not json"))

	_, err := b.LoadReservations(ctx)
	assert.Error(t, err)
}
