package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/musician-api/internal/config"
	"github.com/deppfellow/musician-api/internal/errs"
	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/deppfellow/musician-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Store:         config.StoreConfig{Driver: config.DriverMemory},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func TestToHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "http error passes through",
			err:     errs.InvalidBodyError(),
			status:  http.StatusBadRequest,
			message: "Invalid request body",
		},
		{
			name:    "store error",
			err:     musician.NotFound("get", "3"),
			status:  http.StatusBadRequest,
			message: "musician 3 not found",
		},
		{
			name:    "unknown route",
			err:     echo.ErrNotFound,
			status:  http.StatusNotFound,
			message: "Route not found",
		},
		{
			name:    "echo error keeps status",
			err:     echo.ErrStatusRequestEntityTooLarge,
			status:  http.StatusRequestEntityTooLarge,
			message: "Request Entity Too Large",
		},
		{
			name:    "echo rate limit",
			err:     echo.ErrTooManyRequests,
			status:  http.StatusTooManyRequests,
			message: "Too many requests",
		},
		{
			name:    "anything else hides details",
			err:     errors.New("pq: password authentication failed"),
			status:  http.StatusInternalServerError,
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			httpErr := toHTTPError(tt.err)
			assert.Equal(t, tt.status, httpErr.Status)
			assert.Equal(t, tt.message, httpErr.Message)
			assert.Equal(t, tt.status, statusFromError(tt.err))
		})
	}
}

func TestGlobalErrorHandler(t *testing.T) {
	t.Parallel()

	global := NewGlobalMiddlewares(newTestServer())
	e := echo.New()

	t.Run("writes errorMessage", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/42", nil), rec)

		global.GlobalErrorHandler(errs.StoreError(musician.NotFound("get", "42")), c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"errorMessage":"musician 42 not found"}`, rec.Body.String())
	})

	t.Run("head has no body", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodHead, "/42", nil), rec)

		global.GlobalErrorHandler(echo.ErrNotFound, c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("panic becomes 500", func(t *testing.T) {
		t.Parallel()

		router := echo.New()
		router.HTTPErrorHandler = global.GlobalErrorHandler
		router.Use(global.Recover())
		router.GET("/boom", func(echo.Context) error { panic("boom") })

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"errorMessage":"Internal Server Error"}`, rec.Body.String())
	})
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		seen = GetRequestID(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestContextEnhancer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	s := newTestServer()
	s.Logger = &logger

	e := echo.New()
	e.Use(RequestID(), NewContextEnhancer(s).EnhanceContext())
	e.GET("/:id", func(c echo.Context) error {
		SetUser(c, "user_1", "admin")
		assert.Equal(t, "user_1", GetUserID(c))

		GetLogger(c).Info().Msg("from echo context")
		LoggerFromContext(c.Request().Context()).Info().Msg("from request context")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/7", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, `"request_id":"req-7"`)
		assert.Contains(t, line, `"path":"/:id"`)
	}
	assert.Contains(t, lines[0], `"user_id":"user_1"`)
}

func TestGetLogger_WithoutEnhancer(t *testing.T) {
	t.Parallel()

	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, zerolog.Disabled, GetLogger(c).GetLevel())
	assert.Empty(t, GetUserID(c))
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	t.Run("disabled passes through", func(t *testing.T) {
		t.Parallel()

		auth := NewAuthMiddleware(newTestServer())
		e := echo.New()
		e.PUT("/:id", ok, auth.RequireAuth)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("enabled without token is rejected", func(t *testing.T) {
		t.Parallel()

		s := newTestServer()
		s.Config.Auth.SecretKey = "sk_test_dummy"
		auth := NewAuthMiddleware(s)

		e := echo.New()
		e.HTTPErrorHandler = NewGlobalMiddlewares(s).GlobalErrorHandler
		e.PUT("/:id", ok, auth.RequireAuth)

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/1", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"errorMessage":"Unauthorized"}`, rec.Body.String())
	})
}
