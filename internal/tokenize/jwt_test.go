package tokenize

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authd/internal/keys"
	"authd/internal/model"
)

func newTestKeyStore(t *testing.T) *keys.Store {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	require.NoError(t, os.WriteFile(privPath, pem.EncodeToMemory(&pem.Block{
		Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv),
	}), 0600))

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{
		Type: "PUBLIC KEY", Bytes: pubDER,
	}), 0600))

	store, err := keys.Load(privPath, pubPath)
	require.NoError(t, err)
	return store
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	store := newTestKeyStore(t)
	svc := New(store, "https://authd.example")

	user := &model.User{ID: "user-1", Role: model.RoleUser}
	app := &model.Application{ID: "app-1", ClientID: "client-1"}

	token, expiresAt, err := svc.Issue(user, app, []string{"profile", "email"}, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, []string{"client-1"}, []string(claims.Audience))
	assert.ElementsMatch(t, []string{"profile", "email"}, claims.Scopes)
	assert.Equal(t, "user", claims.Role)
}

func TestVerify_RejectsWrongIssuer(t *testing.T) {
	store := newTestKeyStore(t)
	issued := New(store, "https://authd.example")
	verifying := New(store, "https://someone-else.example")

	user := &model.User{ID: "user-1", Role: model.RoleUser}
	app := &model.Application{ID: "app-1", ClientID: "client-1"}

	token, _, err := issued.Issue(user, app, nil, time.Hour)
	require.NoError(t, err)

	_, err = verifying.Verify(token)
	assert.Error(t, err)
}

func TestVerify_DoesNotCheckAudience(t *testing.T) {
	// §4.4/§9: audience validation is deliberately not performed on decode.
	// A token minted for one client must still verify as structurally
	// valid; callers that care about aud check it explicitly.
	store := newTestKeyStore(t)
	svc := New(store, "https://authd.example")

	user := &model.User{ID: "user-1", Role: model.RoleUser}
	app := &model.Application{ID: "app-for-someone-else", ClientID: "client-other"}

	token, _, err := svc.Issue(user, app, nil, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"client-other"}, []string(claims.Audience))
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	store := newTestKeyStore(t)
	svc := New(store, "https://authd.example")

	user := &model.User{ID: "user-1", Role: model.RoleUser}
	app := &model.Application{ID: "app-1", ClientID: "client-1"}

	token, _, err := svc.Issue(user, app, nil, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}
