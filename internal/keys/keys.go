// Package keys implements C1, the key store: RSA key material is read once
// at process start and held immutable for the life of the process, the way
// §9's Design Notes require ("no singletons or module-level mutable maps"
// applies to everything except this config/keys pair).
package keys

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
)

// Store holds the loaded RSA key pair and a key ID derived from the public
// key, grounded on the teacher's oauth2.Provider (computeKID).
type Store struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
	kid     string
}

// Load reads PEM-encoded PKCS#1/PKCS#8 private and PKCS#1/PKIX public keys
// from the given paths. Both files must exist and parse; the process should
// refuse to start otherwise.
func Load(privatePath, publicPath string) (*Store, error) {
	privPEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("read private key %s: %w", privatePath, err)
	}
	priv, err := parsePrivateKey(privPEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key %s: %w", privatePath, err)
	}

	pubPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key %s: %w", publicPath, err)
	}
	pub, err := parsePublicKey(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key %s: %w", publicPath, err)
	}

	return &Store{private: priv, public: pub, kid: computeKID(pub)}, nil
}

func (s *Store) PrivateKey() *rsa.PrivateKey { return s.private }
func (s *Store) PublicKey() *rsa.PublicKey   { return s.public }
func (s *Store) KeyID() string               { return s.kid }

func parsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is not an RSA private key")
	}
	return rsaKey, nil
}

func parsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("key is not an RSA public key")
	}
	return rsaKey, nil
}

// computeKID derives a stable key identifier from the DER-encoded public
// key, matching the teacher's oauth2.Provider.computeKID.
func computeKID(pub *rsa.PublicKey) string {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "default"
	}
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:])[:16]
}
