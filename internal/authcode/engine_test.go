package authcode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"authd/internal/model"
)

func TestContainsExact(t *testing.T) {
	uris := model.StringSlice{"https://app.example/cb", "https://app.example/cb2"}

	assert.True(t, containsExact(uris, "https://app.example/cb"))
	assert.False(t, containsExact(uris, "https://app.example/cb?extra=1"))
	assert.False(t, containsExact(uris, "https://evil.example/cb"))
}

func TestValidateScopes(t *testing.T) {
	allowed := model.StringSlice{"profile"}
	assert.NoError(t, validateScopes([]string{"profile"}, allowed))
	assert.Error(t, validateScopes([]string{"profile", "admin"}, allowed))
}

// TestEngine_Redeem_CodeIsSingleUse would exercise invariant 2 (an
// authorization code can be redeemed exactly once) end to end, but doing so
// needs a live Postgres instance behind repo.Repos for the conditional
// MarkUsed update.
func TestEngine_Redeem_CodeIsSingleUse(t *testing.T) {
	t.Skip("requires a live database; MarkUsed's WHERE used=FALSE + RowsAffected()==1 is the enforcement point")
}
