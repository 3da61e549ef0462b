package job

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/deppfellow/musician-api/internal/config"
	"github.com/deppfellow/musician-api/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMusicianChangedTask(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, time.March, 9, 19, 30, 0, 0, time.FixedZone("CET", 3600))
	task, err := NewMusicianChangedTask("42", "put", at)
	require.NoError(t, err)

	assert.Equal(t, TaskMusicianChanged, task.Type())
	assert.JSONEq(t, `{"id":"42","action":"put","at":"2024-03-09T18:30:00Z"}`, string(task.Payload()))
}

func newTestService(cfg *config.Config) *JobService {
	logger := zerolog.Nop()
	return &JobService{
		logger:      &logger,
		email:       email.NewClient(cfg, &logger),
		notifyEmail: cfg.Integration.NotifyEmail,
	}
}

func TestHandleMusicianChangedTask(t *testing.T) {
	t.Parallel()

	payload, err := json.Marshal(MusicianChangedPayload{ID: "7", Action: "delete", At: time.Now()})
	require.NoError(t, err)

	// Without Resend configured the task only logs.
	svc := newTestService(&config.Config{Integration: config.IntegrationConfig{NotifyEmail: "ops@example.com"}})
	assert.NoError(t, svc.handleMusicianChangedTask(context.Background(), asynq.NewTask(TaskMusicianChanged, payload)))
}

func TestHandleMusicianChangedTask_BadPayload(t *testing.T) {
	t.Parallel()

	svc := newTestService(&config.Config{})
	err := svc.handleMusicianChangedTask(context.Background(), asynq.NewTask(TaskMusicianChanged, []byte("{")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestRedisOpt(t *testing.T) {
	t.Parallel()

	opt := RedisOpt(&config.Config{Redis: config.RedisConfig{Address: "localhost:6379", Password: "secret", DB: 2}})
	assert.Equal(t, asynq.RedisClientOpt{Addr: "localhost:6379", Password: "secret", DB: 2}, opt)
}
