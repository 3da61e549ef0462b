// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (e.g. FieldErrors for request binding or HTTPError for API responses)
// so every failure leaves the API in the same shape:
//
//	{ "errorMessage": "..." }
package errs
