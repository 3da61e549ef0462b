package service

import (
	"context"
	"sync"
	"time"

	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/rs/zerolog"
)

// ChangePublisher announces successful musician writes.
type ChangePublisher interface {
	EnqueueMusicianChanged(ctx context.Context, id, action string) error
}

// PublishTimeout bounds one change event enqueue.
const PublishTimeout = 2 * time.Second

// MusicianService is the musician.Store the handlers use. It delegates to
// the repository and publishes a change event after every successful write.
// Events are enqueued in the background, so a slow queue never delays the
// response; failures are logged and never fail the write.
type MusicianService struct {
	repo      musician.Store
	publisher ChangePublisher
	logger    *zerolog.Logger

	pending sync.WaitGroup
}

// NewMusicianService wraps repo. publisher may be nil.
func NewMusicianService(repo musician.Store, publisher ChangePublisher, logger *zerolog.Logger) *MusicianService {
	return &MusicianService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *MusicianService) GetMusicians(ctx context.Context) ([]musician.Musician, error) {
	return s.repo.GetMusicians(ctx)
}

func (s *MusicianService) GetMusician(ctx context.Context, id string) (musician.Musician, error) {
	return s.repo.GetMusician(ctx, id)
}

func (s *MusicianService) PutMusician(ctx context.Context, id string, body musician.Musician) (string, error) {
	written, err := s.repo.PutMusician(ctx, id, body)
	if err != nil {
		return "", err
	}

	s.publish(ctx, written, musician.ActionPut)
	return written, nil
}

func (s *MusicianService) DeleteMusician(ctx context.Context, id string) (string, error) {
	deleted, err := s.repo.DeleteMusician(ctx, id)
	if err != nil {
		return "", err
	}

	s.publish(ctx, deleted, musician.ActionDelete)
	return deleted, nil
}

// Ping forwards to the repository when it can report connectivity.
func (s *MusicianService) Ping(ctx context.Context) error {
	if p, ok := s.repo.(musician.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *MusicianService) publish(ctx context.Context, id string, action musician.Action) {
	if s.publisher == nil {
		return
	}

	// The event outlives the request but not the timeout.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()

		if err := s.publisher.EnqueueMusicianChanged(ctx, id, string(action)); err != nil {
			s.logger.Error().
				Err(err).
				Str("musician_id", id).
				Str("action", string(action)).
				Msg("failed to publish musician change")
		}
	}()
}

// Wait blocks until every background publish has finished or ctx ends.
func (s *MusicianService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
