package musician

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidator_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		valid   bool
		wantErr bool
	}{
		{name: "minimal", body: `{"name":"Bach"}`, valid: true},
		{name: "full", body: `{"name":"Bach","instrument":"organ","genre":"baroque","born":1685,"died":1750,"albums":["Goldberg Variations"]}`, valid: true},
		{name: "unknown fields kept", body: `{"name":"Bach","nickname":"JS"}`, valid: true},
		{name: "missing name", body: `{"instrument":"organ"}`},
		{name: "blank name", body: `{"name":"   "}`},
		{name: "died before born", body: `{"name":"Bach","born":1750,"died":1685}`},
		{name: "empty album title", body: `{"name":"Bach","albums":[""]}`},
		{name: "null", body: `null`},
		{name: "wrong type", body: `{"name":42}`, wantErr: true},
		{name: "array", body: `[{"name":"Bach"}]`, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
	}

	v := NewSchemaValidator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			valid, err := v.IsValid(context.Background(), []byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.valid, valid)
		})
	}
}

func TestSchemaValidator_EmptyBody(t *testing.T) {
	t.Parallel()

	_, err := NewSchemaValidator().IsValid(context.Background(), []byte("  \n"))
	require.ErrorIs(t, err, ErrEmptyBody)
}

func TestError_Messages(t *testing.T) {
	t.Parallel()

	driverErr := errors.New("dial tcp 10.0.0.1:5432: connection refused")

	tests := []struct {
		err  *Error
		want string
	}{
		{err: NotFound("get", "42"), want: "musician 42 not found"},
		{err: NewError(KindConflict, "put", "42", nil), want: "musician 42 already exists"},
		{err: NewError(KindInvalid, "put", "42", nil), want: "musician 42 is invalid"},
		{err: NewError(KindUnavailable, "list", "", driverErr), want: "musician store unavailable"},
		{err: NewError(KindInternal, "delete", "7", driverErr), want: "failed to delete musician 7"},
		{err: &Error{Kind: KindInvalid, Message: "The Name is required"}, want: "The Name is required"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
		assert.NotContains(t, tt.err.Error(), "connection refused")
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	wrapped := errors.Join(errors.New("context"), NotFound("get", "1"))

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))

	driverErr := errors.New("driver")
	assert.ErrorIs(t, NewError(KindInternal, "get", "1", driverErr), driverErr)
}
