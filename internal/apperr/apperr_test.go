package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindUnauthorized: 401,
		KindForbidden:    403,
		KindNotFound:     404,
		KindConflict:     409,
		KindBadRequest:   400,
		KindInvalidGrant: 400,
		KindDatabase:     500,
		KindInternal:     500,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), "kind %s", kind)
	}
}

func TestDatabaseAndInternal_NeverLeakUnderlyingCause(t *testing.T) {
	underlying := errors.New("pq: relation \"users\" does not exist")
	err := Database(underlying)

	assert.NotContains(t, err.SafeMessage(), "relation")
	assert.ErrorIs(t, err, underlying)

	internalErr := Internal(underlying)
	assert.NotContains(t, internalErr.SafeMessage(), "relation")
	assert.ErrorIs(t, internalErr, underlying)
}

func TestAs_UnwrapsWrappedError(t *testing.T) {
	base := NotFound("user", "user not found")
	wrapped := fmt.Errorf("loading profile: %w", base)

	found, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, found.Kind)
}

func TestAs_FalseForPlainError(t *testing.T) {
	_, ok := As(errors.New("boom"))
	assert.False(t, ok)
}
