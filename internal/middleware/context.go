package middleware

import (
	"context"

	"github.com/deppfellow/musician-api/internal/logger"
	"github.com/deppfellow/musician-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// Echo context keys shared by the middleware and handlers.
const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"
	LoggerKey   = "logger"
)

// ContextEnhancer builds a request-scoped logger carrying request_id,
// method, route, ip and, when present, trace ids.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext stores the request logger in the echo context and, through
// zerolog's context helpers, in the request's context.Context so code that
// only sees a ctx (services, repositories) can log with the same fields.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			c.Set(LoggerKey, &contextLogger)
			c.SetRequest(c.Request().WithContext(contextLogger.WithContext(c.Request().Context())))

			return next(c)
		}
	}
}

// SetUser records the authenticated user on the echo context and adds it to
// the request logger.
func SetUser(c echo.Context, userID, role string) {
	c.Set(UserIDKey, userID)
	if role != "" {
		c.Set(UserRoleKey, role)
	}

	enriched := GetLogger(c).With().Str("user_id", userID).Logger()
	if role != "" {
		enriched = enriched.With().Str("user_role", role).Logger()
	}
	c.Set(LoggerKey, &enriched)
}

// GetUserID reads the authenticated user id, or "".
func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetLogger retrieves the request-scoped logger from echo context.
// Without EnhanceContext it returns a no-op logger.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}

	nop := zerolog.Nop()
	return &nop
}

// LoggerFromContext returns the request logger stored in ctx by
// EnhanceContext, or zerolog's disabled logger.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
