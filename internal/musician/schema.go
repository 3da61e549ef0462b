package musician

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator decides whether a request body is an acceptable musician document.
//
// IsValid returns (false, nil) when the document breaks a rule and a non-nil
// error when it could not be checked at all (malformed JSON, canceled ctx).
// Callers treat both the same way.
type Validator interface {
	IsValid(ctx context.Context, body []byte) (bool, error)
}

// ErrEmptyBody is returned by SchemaValidator for an empty request body.
var ErrEmptyBody = errors.New("musician: empty body")

// schema lists the fields the validator knows about. Unknown fields are
// allowed and stored untouched.
type schema struct {
	Name       string   `json:"name" validate:"required,max=200"`
	Instrument string   `json:"instrument" validate:"omitempty,max=100"`
	Genre      string   `json:"genre" validate:"omitempty,max=100"`
	Born       int      `json:"born" validate:"omitempty,min=1,max=3000"`
	Died       int      `json:"died" validate:"omitempty,min=1,max=3000"`
	Albums     []string `json:"albums" validate:"omitempty,dive,required,max=200"`
}

// SchemaValidator checks bodies against the musician schema using
// go-playground/validator struct tags.
type SchemaValidator struct {
	validate *validator.Validate
}

// NewSchemaValidator returns a ready SchemaValidator.
func NewSchemaValidator() *SchemaValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(lifespan, schema{})
	return &SchemaValidator{validate: v}
}

func (s *SchemaValidator) IsValid(ctx context.Context, body []byte) (bool, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return false, ErrEmptyBody
	}

	var doc schema
	if err := json.Unmarshal(body, &doc); err != nil {
		return false, err
	}

	// Name must carry something other than whitespace.
	doc.Name = strings.TrimSpace(doc.Name)

	if err := s.validate.StructCtx(ctx, doc); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// lifespan rejects a death year before the birth year.
func lifespan(sl validator.StructLevel) {
	doc := sl.Current().Interface().(schema)
	if doc.Born != 0 && doc.Died != 0 && doc.Died < doc.Born {
		sl.ReportError(doc.Died, "died", "Died", "lifespan", "")
	}
}
