package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TaskMusicianChanged is the task type published after a musician write.
const TaskMusicianChanged = "musician:changed"

// MusicianChangedPayload is the JSON payload of a musician:changed task.
type MusicianChangedPayload struct {
	ID     string    `json:"id"`
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

// NewMusicianChangedTask constructs the task for a write on musician id.
//
// Options: MaxRetry(3), default queue, 30s timeout.
func NewMusicianChangedTask(id, action string, at time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(MusicianChangedPayload{
		ID:     id,
		Action: action,
		At:     at.UTC(),
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskMusicianChanged,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueMusicianChanged publishes a musician:changed task.
func (j *JobService) EnqueueMusicianChanged(ctx context.Context, id, action string) error {
	task, err := NewMusicianChangedTask(id, action, time.Now())
	if err != nil {
		return fmt.Errorf("failed to build %s task: %w", TaskMusicianChanged, err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", TaskMusicianChanged, err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Str("musician_id", id).
		Str("action", action).
		Msg("enqueued musician change")

	return nil
}
