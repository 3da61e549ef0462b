package handler

import (
	"time"

	"github.com/deppfellow/musician-api/internal/server"
	"github.com/deppfellow/musician-api/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Greeting *GreetingHandler
	Musician *MusicianHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Greeting: NewGreetingHandler(s, time.Now),
		Musician: NewMusicianHandler(s, services.Musicians, services.Validator),
	}
}
