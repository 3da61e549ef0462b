package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// handleMusicianChangedTask logs the change and, when configured, emails
// integration.notify_email about it.
func (j *JobService) handleMusicianChangedTask(ctx context.Context, t *asynq.Task) error {
	var p MusicianChangedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Retrying cannot fix a malformed payload.
		return fmt.Errorf("failed to unmarshal musician changed payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", TaskMusicianChanged).
		Str("musician_id", p.ID).
		Str("action", p.Action).
		Time("at", p.At).
		Logger()

	logger.Info().Msg("processing musician change")

	if j.notifyEmail == "" || !j.email.Enabled() {
		return nil
	}

	if err := j.email.SendMusicianChangedEmail(ctx, j.notifyEmail, p.ID, p.Action, p.At); err != nil {
		logger.Error().Err(err).Str("to", j.notifyEmail).Msg("failed to send musician change email")
		return err
	}

	logger.Info().Str("to", j.notifyEmail).Msg("sent musician change email")
	return nil
}
