package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", NewError("factory missing").Mark(ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"validation", NewErrorf("bad id %q", "x").Mark(ErrValidation), http.StatusBadRequest, ErrCodeValidation},
		{"permission", NewError("no").Mark(ErrPermissionDenied), http.StatusForbidden, ErrCodePermissionDenied},
		{"unauthenticated", NewError("no token").Mark(ErrUnauthenticated), http.StatusUnauthorized, ErrCodeUnauthenticated},
		{"database", WithError(fmt.Errorf("conn reset")).Mark(ErrDatabase), http.StatusInternalServerError, ErrCodeDatabase},
		{"wrapped", fmt.Errorf("listing: %w", NewError("gone").Mark(ErrNotFound)), http.StatusNotFound, ErrCodeNotFound},
		{"unmarked", fmt.Errorf("boom"), http.StatusInternalServerError, ErrCodeSystemError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatusFromErr(tt.err))
			assert.Equal(t, tt.code, Code(tt.err))
		})
	}
}

func TestHint(t *testing.T) {
	err := NewError("unknown county").WithHint("use a listed code").Mark(ErrValidation)
	assert.Equal(t, "use a listed code", Hint(err))
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.Equal(t, "", Hint(fmt.Errorf("plain")))
}
