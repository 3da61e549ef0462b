package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/deppfellow/musician-api/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) EnqueueMusicianChanged(ctx context.Context, id, action string) error {
	args := m.Called(ctx, id, action)
	return args.Error(0)
}

func newService(pub ChangePublisher) *MusicianService {
	logger := zerolog.Nop()
	return NewMusicianService(repository.NewMemoryMusicianRepository(), pub, &logger)
}

func TestMusicianService_PublishesWrites(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{}
	pub.On("EnqueueMusicianChanged", mock.Anything, "42", "put").Return(nil).Once()
	pub.On("EnqueueMusicianChanged", mock.Anything, "42", "delete").Return(nil).Once()

	svc := newService(pub)
	ctx := context.Background()

	id, err := svc.PutMusician(ctx, "42", musician.Musician(`{"name":"Ella"}`))
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	id, err = svc.DeleteMusician(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	require.NoError(t, svc.Wait(ctx))
	pub.AssertExpectations(t)
}

func TestMusicianService_FailedWriteDoesNotPublish(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{}
	svc := newService(pub)

	_, err := svc.DeleteMusician(context.Background(), "missing")
	assert.True(t, musician.IsNotFound(err))
	require.NoError(t, svc.Wait(context.Background()))
	pub.AssertNotCalled(t, "EnqueueMusicianChanged", mock.Anything, mock.Anything, mock.Anything)
}

func TestMusicianService_PublishErrorIsIgnored(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{}
	pub.On("EnqueueMusicianChanged", mock.Anything, "1", "put").Return(errors.New("redis down"))

	svc := newService(pub)
	id, err := svc.PutMusician(context.Background(), "1", musician.Musician(`{"name":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	require.NoError(t, svc.Wait(context.Background()))
	pub.AssertNumberOfCalls(t, "EnqueueMusicianChanged", 1)
}

func TestMusicianService_SlowQueueDoesNotDelayWrites(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	pub := &mockPublisher{}
	pub.On("EnqueueMusicianChanged", mock.Anything, "1", "put").
		Run(func(mock.Arguments) { <-release }).
		Return(nil).Once()

	svc := newService(pub)

	start := time.Now()
	_, err := svc.PutMusician(context.Background(), "1", musician.Musician(`{"name":"x"}`))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), PublishTimeout/2)

	// Still enqueuing: Wait honors its context.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, svc.Wait(context.Background()))
	pub.AssertExpectations(t)
}

func TestMusicianService_PublishSurvivesCanceledRequest(t *testing.T) {
	t.Parallel()

	pub := &mockPublisher{}
	pub.On("EnqueueMusicianChanged", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), "1", "put").Return(nil).Once()

	repo := repository.NewMemoryMusicianRepository()
	logger := zerolog.Nop()
	svc := NewMusicianService(repo, pub, &logger)

	// Drive publish directly: the memory store rejects canceled contexts.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.publish(ctx, "1", musician.ActionPut)

	require.NoError(t, svc.Wait(context.Background()))
	pub.AssertExpectations(t)
}

func TestMusicianService_NilPublisher(t *testing.T) {
	t.Parallel()

	svc := newService(nil)
	_, err := svc.PutMusician(context.Background(), "1", musician.Musician(`{"name":"x"}`))
	assert.NoError(t, err)
	assert.NoError(t, svc.Ping(context.Background()))
}
