package service

import (
	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/deppfellow/musician-api/internal/server"
)

// AuthService configures the Clerk SDK with the secret key from config.
type AuthService struct {
	server *server.Server
}

func NewAuthService(s *server.Server) *AuthService {
	if s.Config.AuthEnabled() {
		clerk.SetKey(s.Config.Auth.SecretKey)
	}
	return &AuthService{
		server: s,
	}
}

// Enabled reports whether write routes require a Clerk session.
func (a *AuthService) Enabled() bool {
	return a.server.Config.AuthEnabled()
}
