package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/deppfellow/musician-api/internal/config"
	"github.com/deppfellow/musician-api/internal/middleware"
	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/deppfellow/musician-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Server:        config.ServerConfig{Port: "0"},
			Store:         config.StoreConfig{Driver: config.DriverMemory},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

// newTestEcho returns an echo instance with the global error handler so
// error bodies match what clients see.
func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetMusicians(ctx context.Context) ([]musician.Musician, error) {
	args := m.Called(ctx)
	musicians, _ := args.Get(0).([]musician.Musician)
	return musicians, args.Error(1)
}

func (m *mockStore) GetMusician(ctx context.Context, id string) (musician.Musician, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(musician.Musician)
	return doc, args.Error(1)
}

func (m *mockStore) PutMusician(ctx context.Context, id string, body musician.Musician) (string, error) {
	args := m.Called(ctx, id, body)
	return args.String(0), args.Error(1)
}

func (m *mockStore) DeleteMusician(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type validatorFunc func(ctx context.Context, body []byte) (bool, error)

func (f validatorFunc) IsValid(ctx context.Context, body []byte) (bool, error) {
	return f(ctx, body)
}
