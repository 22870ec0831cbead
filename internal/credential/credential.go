// Package credential implements C3, the credential primitives: Argon2id
// password/secret hashing, SHA-256 refresh-token hashing, random token and
// authorization-code generation, and the PKCE S256 verifier check.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// argon2Params tunes Argon2id per OWASP's current baseline recommendation:
// 64 MiB memory, single pass, four lanes.
type argon2Params struct {
	memoryKiB  uint32
	iterations uint32
	lanes      uint8
	saltLen    uint32
	keyLen     uint32
}

var defaultParams = argon2Params{
	memoryKiB:  65536,
	iterations: 1,
	lanes:      4,
	saltLen:    16,
	keyLen:     32,
}

// HashPassword hashes a plaintext password. The same function hashes
// client secrets (§4.3 specifies the identical algorithm for both).
func HashPassword(password string) (string, error) {
	return hashWithParams(password, defaultParams)
}

// HashSecret is an alias for HashPassword kept separate for call-site
// clarity where the input is a client secret rather than a user password.
func HashSecret(secret string) (string, error) {
	return hashWithParams(secret, defaultParams)
}

func hashWithParams(plaintext string, p argon2Params) (string, error) {
	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	hash := argon2.IDKey([]byte(plaintext), salt, p.iterations, p.memoryKiB, p.lanes, p.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memoryKiB, p.iterations, p.lanes,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword reports whether password matches the stored encoded hash.
func VerifyPassword(encodedHash, password string) (bool, error) {
	return verify(encodedHash, password)
}

// VerifySecret is an alias kept separate for call-site clarity.
func VerifySecret(encodedHash, secret string) (bool, error) {
	return verify(encodedHash, secret)
}

func verify(encodedHash, plaintext string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errors.New("malformed argon2id hash")
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("parse version: %w", err)
	}
	var memoryKiB, iterations uint32
	var lanes uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memoryKiB, &iterations, &lanes); err != nil {
		return false, fmt.Errorf("parse params: %w", err)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}
	got := argon2.IDKey([]byte(plaintext), salt, iterations, memoryKiB, lanes, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// HashRefreshToken returns the unsalted SHA-256 hex digest used to index
// refresh tokens by their presented opaque value. Unsalted is intentional:
// the plaintext is already 256 bits of randomness, so there is no
// low-entropy input to protect against offline guessing.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GenerateRandomToken returns a 256-bit random value, base64url encoded
// without padding, suitable for opaque refresh/access token bodies.
func GenerateRandomToken() (string, error) {
	return randomBase64URL(32)
}

// GenerateAuthorizationCode returns an opaque single-use code. 32 random
// bytes base64url-encode to 43 characters, comfortably inside the 128-char
// column the data model reserves.
func GenerateAuthorizationCode() (string, error) {
	code, err := randomBase64URL(32)
	if err != nil {
		return "", err
	}
	if len(code) > 128 {
		code = code[:128]
	}
	return code, nil
}

func randomBase64URL(nBytes int) (string, error) {
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// VerifyPKCE implements RFC 7636's S256 check: SHA-256(verifier),
// base64url-no-pad, constant-time compared to the stored challenge. An empty
// method is treated as S256; any other method is rejected, as is an empty
// verifier.
func VerifyPKCE(codeChallenge, codeChallengeMethod, codeVerifier string) bool {
	if codeVerifier == "" {
		return false
	}
	if codeChallengeMethod != "" && codeChallengeMethod != "S256" {
		return false
	}
	sum := sha256.Sum256([]byte(codeVerifier))
	computed := base64.RawURLEncoding.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(computed), []byte(codeChallenge)) == 1
}
