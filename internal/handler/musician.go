package handler

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/deppfellow/musician-api/internal/errs"
	"github.com/deppfellow/musician-api/internal/middleware"
	"github.com/deppfellow/musician-api/internal/musician"
	"github.com/deppfellow/musician-api/internal/server"
	"github.com/deppfellow/musician-api/internal/validation"
	"github.com/labstack/echo/v4"
)

// MusicianHandler serves the musician resource routes. Every route calls
// exactly one store method.
type MusicianHandler struct {
	Handler
	store     musician.Store
	validator musician.Validator
}

func NewMusicianHandler(s *server.Server, store musician.Store, validator musician.Validator) *MusicianHandler {
	return &MusicianHandler{
		Handler:   NewHandler(s),
		store:     store,
		validator: validator,
	}
}

// MusicianIDRequest carries the :id path parameter.
type MusicianIDRequest struct {
	ID string `param:"id" validate:"required"`
}

func newMusicianIDRequest() *MusicianIDRequest { return &MusicianIDRequest{} }

func (r *MusicianIDRequest) Bind(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (r *MusicianIDRequest) Validate() error {
	return validation.Struct(r)
}

// PutMusicianRequest carries the :id path parameter and the raw body.
// The body is kept byte-for-byte; only the schema validator decodes it.
type PutMusicianRequest struct {
	ID   string `validate:"required"`
	Body musician.Musician
}

func newPutMusicianRequest() *PutMusicianRequest { return &PutMusicianRequest{} }

func (r *PutMusicianRequest) Bind(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r.ID = id

	if !isJSONContentType(c.Request().Header.Get(echo.HeaderContentType)) {
		return errs.InvalidBodyError()
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errs.InvalidBodyError()
	}
	r.Body = body
	return nil
}

func (r *PutMusicianRequest) Validate() error {
	return validation.Struct(r)
}

// pathID reads :id. Echo can hand the param more than one path segment,
// and an id is always exactly one, so anything containing a slash (raw or
// percent-encoded) is answered as an unknown route.
func pathID(c echo.Context) (string, error) {
	id := c.Param("id")
	if strings.Contains(id, "/") || strings.Contains(strings.ToUpper(id), "%2F") {
		return "", errs.RouteNotFoundError()
	}
	return id, nil
}

// isJSONContentType accepts application/json and any +json media type.
func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == echo.MIMEApplicationJSON || strings.HasSuffix(mediaType, "+json")
}

// PutMusicianResponse is returned after a successful write.
type PutMusicianResponse struct {
	ID string `json:"id"`
}

// ListMusicians handles GET /all.
func (h *MusicianHandler) ListMusicians(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, _ *EmptyRequest) ([]musician.Musician, error) {
		musicians, err := h.store.GetMusicians(c.Request().Context())
		if err != nil {
			return nil, errs.StoreError(err)
		}
		if musicians == nil {
			musicians = []musician.Musician{}
		}
		return musicians, nil
	}, http.StatusOK, newEmptyRequest)(c)
}

// GetMusician handles GET /:id.
func (h *MusicianHandler) GetMusician(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *MusicianIDRequest) (musician.Musician, error) {
		doc, err := h.store.GetMusician(c.Request().Context(), req.ID)
		if err != nil {
			return nil, errs.StoreError(err)
		}
		return doc, nil
	}, http.StatusOK, newMusicianIDRequest)(c)
}

// PutMusician handles PUT /:id.
//
// The store is called only after the validator explicitly accepts the body.
// Any rejection or validator error answers "Invalid request body".
func (h *MusicianHandler) PutMusician(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *PutMusicianRequest) (PutMusicianResponse, error) {
		ctx := c.Request().Context()

		ok, err := h.validator.IsValid(ctx, req.Body)
		if err != nil || !ok {
			middleware.GetLogger(c).Info().
				Err(err).
				Str("musician_id", req.ID).
				Msg("rejected musician body")
			return PutMusicianResponse{}, errs.InvalidBodyError()
		}

		id, err := h.store.PutMusician(ctx, req.ID, req.Body)
		if err != nil {
			return PutMusicianResponse{}, errs.StoreError(err)
		}
		return PutMusicianResponse{ID: id}, nil
	}, http.StatusOK, newPutMusicianRequest)(c)
}

// DeleteMusician handles DELETE /:id and answers with the deleted id as a
// JSON string.
func (h *MusicianHandler) DeleteMusician(c echo.Context) error {
	return Handle(h.Handler, func(c echo.Context, req *MusicianIDRequest) (string, error) {
		id, err := h.store.DeleteMusician(c.Request().Context(), req.ID)
		if err != nil {
			return "", errs.StoreError(err)
		}
		return id, nil
	}, http.StatusOK, newMusicianIDRequest)(c)
}
