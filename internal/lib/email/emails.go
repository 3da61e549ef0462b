package email

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/musician-api/internal/config"
)

// SendMusicianChangedEmail tells to that musician id was written or removed.
func (c *Client) SendMusicianChangedEmail(ctx context.Context, to, id, action string, at time.Time) error {
	data := map[string]any{
		"MusicianID": id,
		"Action":     action,
		"At":         at,
		"Service":    config.ServiceName,
	}

	return c.SendEmail(
		ctx,
		to,
		fmt.Sprintf("Musician %s: %s", id, action),
		TemplateMusicianChanged,
		data,
	)
}
