package repository

import (
	"context"
	"errors"
	"net"
	"slices"

	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/redis/go-redis/v9"
)

// RedisMusicianRepository stores musicians as fields of a single Redis hash,
// field = id, value = document.
type RedisMusicianRepository struct {
	client *redis.Client
	key    string
}

func NewRedisMusicianRepository(client *redis.Client, key string) *RedisMusicianRepository {
	return &RedisMusicianRepository{client: client, key: key}
}

func (r *RedisMusicianRepository) GetMusicians(ctx context.Context) ([]musician.Musician, error) {
	all, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, redisError("list", "", err)
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]musician.Musician, 0, len(ids))
	for _, id := range ids {
		out = append(out, musician.Musician(all[id]))
	}
	return out, nil
}

func (r *RedisMusicianRepository) GetMusician(ctx context.Context, id string) (musician.Musician, error) {
	doc, err := r.client.HGet(ctx, r.key, id).Bytes()
	if err != nil {
		return nil, redisError("get", id, err)
	}
	return doc, nil
}

func (r *RedisMusicianRepository) PutMusician(ctx context.Context, id string, body musician.Musician) (string, error) {
	if err := r.client.HSet(ctx, r.key, id, []byte(body)).Err(); err != nil {
		return "", redisError("put", id, err)
	}
	return id, nil
}

func (r *RedisMusicianRepository) DeleteMusician(ctx context.Context, id string) (string, error) {
	removed, err := r.client.HDel(ctx, r.key, id).Result()
	if err != nil {
		return "", redisError("delete", id, err)
	}
	if removed == 0 {
		return "", musician.NotFound("delete", id)
	}
	return id, nil
}

func (r *RedisMusicianRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// redisError maps go-redis failures onto store error kinds.
func redisError(op, id string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, redis.Nil):
		return musician.NotFound(op, id)
	case errors.Is(err, redis.ErrClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return musician.NewError(musician.KindUnavailable, op, id, err)
	default:
		return musician.NewError(musician.KindInternal, op, id, err)
	}
}
