package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "id", "error": "is required" }
type FieldError struct {
	// Field is the field name/key the error relates to (e.g. "id").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// Clients only ever see the message (as "errorMessage") and, for request
// validation failures, the per-field errors. Code and Status drive the
// response and the logs.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message, serialised as errorMessage.
//   - Status: HTTP status code.
//   - Override: the message is safe to show verbatim.
//   - Errors: list of per-field errors (validation).
type HTTPError struct {
	Code     string `json:"-"`
	Message  string `json:"errorMessage"`
	Status   int    `json:"-"`
	Override bool   `json:"-"`

	// Errors holds field-level validation errors.
	Errors []FieldError `json:"errors,omitempty"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
// Printing/logging the error shows the message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports true for any *HTTPError target.
//
// It does NOT compare Code/Status; it only checks the type.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
	}
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
