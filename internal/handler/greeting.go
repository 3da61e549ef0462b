package handler

import (
	"net/http"
	"time"

	"github.com/deppfellow/musician-api/internal/server"
	"github.com/labstack/echo/v4"
)

// Fixed bodies of the plain-text routes.
const (
	TextHealth    = "Hello Rejendra Status: ok!"
	TextHi        = "Hi all,Hope u are enjoying the music"
	TextHello     = "Hello all,Hope u are enjoying the classical music"
	TextMusic     = "Playing The Music"
	TextClassical = "Playing The Classical Music"

	// TodayPrefix keeps the double space the route has always returned.
	TodayPrefix = "Today  is :"

	// TodayLayout follows the shape of a JS Date string, but the zone in
	// parentheses is the abbreviation,
	// e.g. "Sat Mar 09 2024 18:30:00 GMT+0000 (UTC)".
	TodayLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
)

// GreetingHandler serves the plain-text routes. None of them touch the store.
type GreetingHandler struct {
	Handler
	now func() time.Time
}

// NewGreetingHandler builds a GreetingHandler; now is the clock used by /today.
func NewGreetingHandler(s *server.Server, now func() time.Time) *GreetingHandler {
	if now == nil {
		now = time.Now
	}
	return &GreetingHandler{
		Handler: NewHandler(s),
		now:     now,
	}
}

func (h *GreetingHandler) text(body string) echo.HandlerFunc {
	return HandleText(h.Handler, func(echo.Context, *EmptyRequest) (string, error) {
		return body, nil
	}, http.StatusOK, newEmptyRequest)
}

// Health handles GET /health.
func (h *GreetingHandler) Health(c echo.Context) error { return h.text(TextHealth)(c) }

// Hi handles GET /hi.
func (h *GreetingHandler) Hi(c echo.Context) error { return h.text(TextHi)(c) }

// Hello handles GET /hello.
func (h *GreetingHandler) Hello(c echo.Context) error { return h.text(TextHello)(c) }

// Music handles GET /music.
func (h *GreetingHandler) Music(c echo.Context) error { return h.text(TextMusic)(c) }

// Classical handles GET /classical.
func (h *GreetingHandler) Classical(c echo.Context) error { return h.text(TextClassical)(c) }

// Today handles GET /today with the current server-local date.
func (h *GreetingHandler) Today(c echo.Context) error {
	return HandleText(h.Handler, func(echo.Context, *EmptyRequest) (string, error) {
		return TodayPrefix + h.now().Format(TodayLayout), nil
	}, http.StatusOK, newEmptyRequest)(c)
}
