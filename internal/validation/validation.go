// Package validation binds and validates request payloads.
//
// Payloads declare their rules with go-playground/validator struct tags.
// Failures become 400 responses, with per-field errors when the validator
// can name the field.
package validation
