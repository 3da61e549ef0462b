package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateMusicianChanged corresponds to templates/emails/musician_changed.html
	TemplateMusicianChanged Template = "musician_changed"
)

//go:embed templates/emails/*.html
var templateFS embed.FS

// templates holds every embedded email template, parsed once with the sprig
// function map.
var templates = template.Must(
	template.New("emails").Funcs(sprig.FuncMap()).ParseFS(templateFS, "templates/emails/*.html"),
)

// Render executes the named template with data and returns the HTML body.
func Render(name Template, data map[string]any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}
