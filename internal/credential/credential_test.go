package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_UniqueSaltPerCall(t *testing.T) {
	h1, err := HashPassword("same-input")
	require.NoError(t, err)
	h2, err := HashPassword("same-input")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifySecret_SameAlgorithmAsPassword(t *testing.T) {
	hash, err := HashSecret("a-client-secret")
	require.NoError(t, err)
	ok, err := VerifySecret(hash, "a-client-secret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashRefreshToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashRefreshToken("abc"), HashRefreshToken("abc"))
	assert.NotEqual(t, HashRefreshToken("abc"), HashRefreshToken("abd"))
}

func TestGenerateAuthorizationCode_Unique(t *testing.T) {
	a, err := GenerateAuthorizationCode()
	require.NoError(t, err)
	b, err := GenerateAuthorizationCode()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, len(a), 128)
}

func TestVerifyPKCE(t *testing.T) {
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	challenge := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"

	tests := []struct {
		name      string
		challenge string
		method    string
		verifier  string
		want      bool
	}{
		{"matching S256 pair", challenge, "S256", verifier, true},
		{"empty method defaults to S256 semantics", challenge, "", verifier, true},
		{"wrong verifier", challenge, "S256", "not-the-verifier", false},
		{"empty verifier always fails", challenge, "S256", "", false},
		{"unsupported method rejected", challenge, "plain", verifier, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPKCE(tt.challenge, tt.method, tt.verifier))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid strong password", "MyStrongPass123!", false},
		{"too short", "Pass1!", true},
		{"no uppercase", "mystrongpass123!", true},
		{"no lowercase", "MYSTRONGPASS123!", true},
		{"no digit", "MyStrongPass!", true},
		{"no special character", "MyStrongPass123", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
