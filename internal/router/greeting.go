package router

import (
	"github.com/deppfellow/musician-api/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerGreetingRoutes registers the fixed plain-text routes.
func registerGreetingRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/health", h.Greeting.Health)
	r.GET("/hi", h.Greeting.Hi)
	r.GET("/today", h.Greeting.Today)
	r.GET("/hello", h.Greeting.Hello)
	r.GET("/music", h.Greeting.Music)
	r.GET("/classical", h.Greeting.Classical)
}
