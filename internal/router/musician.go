package router

import (
	"github.com/deppfellow/musician-api/internal/handler"
	"github.com/deppfellow/musician-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerMusicianRoutes registers the musician resource.
//
// Echo matches static segments before params, so GET /all and the routes
// above are never treated as ids. Writes go through RequireAuth, which is
// a pass-through when auth is not configured.
func registerMusicianRoutes(r *echo.Echo, h *handler.Handlers, auth *middleware.AuthMiddleware) {
	r.GET("/all", h.Musician.ListMusicians)
	r.GET("/:id", h.Musician.GetMusician)
	r.PUT("/:id", h.Musician.PutMusician, auth.RequireAuth)
	r.DELETE("/:id", h.Musician.DeleteMusician, auth.RequireAuth)
}
