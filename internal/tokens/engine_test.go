package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"authd/internal/apperr"
	"authd/internal/model"
)

func TestValidateScopes(t *testing.T) {
	allowed := model.StringSlice{"read", "write"}

	assert.NoError(t, validateScopes([]string{"read"}, allowed))
	assert.NoError(t, validateScopes(nil, allowed))

	err := validateScopes([]string{"admin"}, allowed)
	if assert.Error(t, err) {
		ae, ok := apperr.As(err)
		assert.True(t, ok)
		assert.Equal(t, apperr.KindInvalidGrant, ae.Kind)
	}
}

// TestEngine_Refresh_RotationIsSingleUse would exercise invariant 1 (a
// refresh token can be redeemed exactly once) end to end, but doing so
// needs a live Postgres instance behind repo.Repos.
func TestEngine_Refresh_RotationIsSingleUse(t *testing.T) {
	t.Skip("requires a live database; RefreshTokenRepo.Revoke's WHERE revoked=FALSE + RowsAffected()==1 is the enforcement point")
}
