package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/rental-booking/internal/model"
)

// Keys used by RedisBackend. Each holds one JSON document.
const (
	RedisKeyReservations = "rental:reservations"
	RedisKeyCompleted    = "rental:reminders:completed"
	RedisKeyChecklists   = "rental:checklists"
)

// RedisBackend stores each collection as a single JSON value, mirroring the
// wholesale load/save contract of Backend.
type RedisBackend struct {
	rdb redis.Cmdable
}

// NewRedisBackend returns a backend using rdb.
func NewRedisBackend(rdb redis.Cmdable) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

func (b *RedisBackend) LoadReservations(ctx context.Context) ([]model.Reservation, error) {
	var rs []model.Reservation
	if err := b.load(ctx, RedisKeyReservations, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func (b *RedisBackend) SaveReservations(ctx context.Context, rs []model.Reservation) error {
	if rs == nil {
		rs = []model.Reservation{}
	}
	return b.save(ctx, RedisKeyReservations, rs)
}

func (b *RedisBackend) LoadCompletions(ctx context.Context) ([]model.CompletedReminder, error) {
	var entries []model.CompletedReminder
	if err := b.load(ctx, RedisKeyCompleted, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (b *RedisBackend) SaveCompletions(ctx context.Context, entries []model.CompletedReminder) error {
	if entries == nil {
		entries = []model.CompletedReminder{}
	}
	return b.save(ctx, RedisKeyCompleted, entries)
}

func (b *RedisBackend) LoadChecklists(ctx context.Context) (map[string][]bool, error) {
	state := map[string][]bool{}
	if err := b.load(ctx, RedisKeyChecklists, &state); err != nil {
		return nil, err
	}
	return state, nil
}

func (b *RedisBackend) SaveChecklists(ctx context.Context, state map[string][]bool) error {
	return b.save(ctx, RedisKeyChecklists, state)
}

// load decodes key into dst. A missing key leaves dst untouched.
func (b *RedisBackend) load(ctx context.Context, key string, dst any) error {
	raw, err := b.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (b *RedisBackend) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := b.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
