// Package musician defines the musician resource as the rest of the
// application sees it.
//
// A musician is an opaque JSON document identified by a string id.
// The HTTP layer never looks inside the document; it only passes the raw
// request body through to a Store after a Validator accepted it.
//
// It holds:
//   - the Musician document type
//   - the Store contract every persistence backend implements
//   - the typed Error returned by stores (see errors.go)
//   - the schema Validator used on writes (see schema.go)
package musician

import (
	"context"
	"encoding/json"
)

// Musician is the stored document, exactly as the client sent it.
type Musician = json.RawMessage

// Store is the persistence collaborator for musicians.
//
// Every method runs once per call: no retries happen at this layer.
// Failures are returned as *Error so callers can tell kinds apart
// without parsing driver messages.
type Store interface {
	// GetMusicians returns every musician in the order the backend provides.
	GetMusicians(ctx context.Context) ([]Musician, error)

	// GetMusician returns the document stored at id.
	GetMusician(ctx context.Context, id string) (Musician, error)

	// PutMusician creates or replaces the document at id and returns the id written.
	PutMusician(ctx context.Context, id string, body Musician) (string, error)

	// DeleteMusician removes the document at id and returns the id removed.
	DeleteMusician(ctx context.Context, id string) (string, error)
}

// Pinger is implemented by stores that can report backend connectivity.
// Health checks use it when available.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Action names a write that changed a musician.
type Action string

const (
	ActionPut    Action = "put"
	ActionDelete Action = "delete"
)
