package repository

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/deppfellow/musician-api/internal/musician"
)

// MemoryMusicianRepository keeps musicians in a map guarded by a RWMutex.
// Contents are lost on restart.
type MemoryMusicianRepository struct {
	mu        sync.RWMutex
	musicians map[string]musician.Musician
}

func NewMemoryMusicianRepository() *MemoryMusicianRepository {
	return &MemoryMusicianRepository{
		musicians: make(map[string]musician.Musician),
	}
}

func (r *MemoryMusicianRepository) GetMusicians(ctx context.Context) ([]musician.Musician, error) {
	if err := ctx.Err(); err != nil {
		return nil, musician.NewError(musician.KindUnavailable, "list", "", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.musicians))
	for id := range r.musicians {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]musician.Musician, 0, len(ids))
	for _, id := range ids {
		out = append(out, bytes.Clone(r.musicians[id]))
	}
	return out, nil
}

func (r *MemoryMusicianRepository) GetMusician(ctx context.Context, id string) (musician.Musician, error) {
	if err := ctx.Err(); err != nil {
		return nil, musician.NewError(musician.KindUnavailable, "get", id, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.musicians[id]
	if !ok {
		return nil, musician.NotFound("get", id)
	}
	return bytes.Clone(doc), nil
}

func (r *MemoryMusicianRepository) PutMusician(ctx context.Context, id string, body musician.Musician) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", musician.NewError(musician.KindUnavailable, "put", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.musicians[id] = bytes.Clone(body)
	return id, nil
}

func (r *MemoryMusicianRepository) DeleteMusician(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", musician.NewError(musician.KindUnavailable, "delete", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.musicians[id]; !ok {
		return "", musician.NotFound("delete", id)
	}
	delete(r.musicians, id)
	return id, nil
}
