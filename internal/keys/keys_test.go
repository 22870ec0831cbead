package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestKeyPair(t *testing.T) (privPath, pubPath string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath = filepath.Join(dir, "private.pem")
	pubPath = filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	return privPath, pubPath
}

func TestLoad_RoundTrip(t *testing.T) {
	privPath, pubPath := writeTestKeyPair(t)

	store, err := Load(privPath, pubPath)
	require.NoError(t, err)

	assert.NotNil(t, store.PrivateKey())
	assert.NotNil(t, store.PublicKey())
	assert.Len(t, store.KeyID(), 16)
}

func TestLoad_StableKeyID(t *testing.T) {
	privPath, pubPath := writeTestKeyPair(t)

	a, err := Load(privPath, pubPath)
	require.NoError(t, err)
	b, err := Load(privPath, pubPath)
	require.NoError(t, err)

	assert.Equal(t, a.KeyID(), b.KeyID())
}

func TestJWKSDocument(t *testing.T) {
	privPath, pubPath := writeTestKeyPair(t)
	store, err := Load(privPath, pubPath)
	require.NoError(t, err)

	doc := store.JWKSDocument()
	keysList, ok := doc["keys"].([]JWK)
	require.True(t, ok)
	require.Len(t, keysList, 1)
	assert.Equal(t, "RSA", keysList[0].Kty)
	assert.Equal(t, "RS256", keysList[0].Alg)
	assert.Equal(t, store.KeyID(), keysList[0].Kid)
	assert.NotEmpty(t, keysList[0].N)
	assert.NotEmpty(t, keysList[0].E)
}
