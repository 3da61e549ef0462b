package handler

import (
	"time"

	"github.com/deppfellow/musician-api/internal/middleware"
	"github.com/deppfellow/musician-api/internal/server"
	"github.com/deppfellow/musician-api/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler carries the shared *server.Server. Concrete handlers embed it.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it gets the bound and validated request
// and returns the value to write, or an error for the global error handler.
//
// Req is a pointer type such as *PutMusicianRequest.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler writes a successful result in one representation.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error

	// GetOperation names the representation in logs.
	GetOperation() string

	// AddAttributes lets a representation add its own New Relic attributes.
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler encodes the result as JSON.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string { return "json" }

func (h JSONResponseHandler) AddAttributes(*newrelic.Transaction, interface{}) {}

// TextResponseHandler writes the result, which must be a string, as text/plain.
type TextResponseHandler struct {
	status int
}

func (h TextResponseHandler) Handle(c echo.Context, result interface{}) error {
	text, _ := result.(string)
	return c.String(h.status, text)
}

func (h TextResponseHandler) GetOperation() string { return "text" }

func (h TextResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if text, ok := result.(string); ok {
		txn.AddAttribute("response.text_bytes", len(text))
	}
}

// phaseTrace records per-phase outcomes on the request's New Relic
// transaction. A nil txn turns every method into a no-op.
type phaseTrace struct {
	txn *newrelic.Transaction
}

func (t phaseTrace) done(phase string, took time.Duration, err error) {
	if t.txn == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
		t.txn.NoticeError(nrpkgerrors.Wrap(err))
	}
	t.txn.AddAttribute(phase+".status", status)
	t.txn.AddAttribute(phase+".duration_ms", took.Milliseconds())
}

// handleRequest runs bind+validate, the endpoint, then the response
// handler, logging each step with the request-scoped logger.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	trace := phaseTrace{txn: newrelic.FromContext(c.Request().Context())}
	if trace.txn != nil {
		trace.txn.AddAttribute("handler.name", c.Path())
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Logger()

	bindStart := time.Now()
	err := validation.BindAndValidate(c, req)
	bindTook := time.Since(bindStart)
	trace.done("validation", bindTook, err)

	if err != nil {
		logger.Warn().
			Err(err).
			Dur("validation_duration", bindTook).
			Msg("request rejected")
		return err
	}

	runStart := time.Now()
	result, err := handler(c, req)
	runTook := time.Since(runStart)
	trace.done("handler", runTook, err)

	if err != nil {
		logger.Warn().
			Err(err).
			Dur("handler_duration", runTook).
			Dur("total_duration", time.Since(start)).
			Msg("handler returned error")
		return err
	}

	if trace.txn != nil {
		trace.txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
		responseHandler.AddAttributes(trace.txn, result)
	}

	logger.Debug().
		Dur("validation_duration", bindTook).
		Dur("handler_duration", runTook).
		Dur("total_duration", time.Since(start)).
		Msg("request handled")

	return responseHandler.Handle(c, result)
}

// Handle adapts a typed endpoint to echo, answering with JSON and status.
// newReq builds a fresh request value per call.
//
//	func (h *MusicianHandler) GetMusician(c echo.Context) error {
//		return Handle(h.Handler, getMusician, http.StatusOK, newMusicianIDRequest)(c)
//	}
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return wrap(handler, newReq, JSONResponseHandler{status: status})
}

// HandleText is Handle for endpoints that answer with plain text.
func HandleText[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, string],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return wrap(handler, newReq, TextResponseHandler{status: status})
}

func wrap[Req validation.Validatable, Res any](
	handler HandlerFunc[Req, Res],
	newReq func() Req,
	responseHandler ResponseHandler,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, responseHandler)
	}
}

// EmptyRequest is the payload of routes that take no input.
type EmptyRequest struct{}

func (*EmptyRequest) Validate() error { return nil }

// Bind skips echo's binder: these routes ignore query and body.
func (*EmptyRequest) Bind(echo.Context) error { return nil }

func newEmptyRequest() *EmptyRequest { return &EmptyRequest{} }
