// Package handler is the first layer after the router.
//
// It parses requests, validates input through the validation
// package and calls the service layer. Every handler goes through
// the generic pipeline in base.go.
package handler
