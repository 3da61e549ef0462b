package email

import "time"

// PreviewData contains sample template data for local preview/testing,
// keyed by template name.
var PreviewData = map[Template]map[string]any{
	TemplateMusicianChanged: {
		"MusicianID": "42",
		"Action":     "put",
		"At":         time.Date(2024, time.March, 9, 18, 30, 0, 0, time.UTC),
		"Service":    "musician-api",
	},
}
