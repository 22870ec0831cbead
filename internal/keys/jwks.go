package keys

import "encoding/base64"

// JWK is one entry of a JSON Web Key Set, grounded on the teacher's
// oauth2.Provider.GetJWKS/rsaKeyToJWKComponents.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSDocument returns the JWKS body served at GET /oauth/jwks.json so
// resource servers can verify access tokens without calling back into
// authd for introspection.
func (s *Store) JWKSDocument() map[string]interface{} {
	n := base64.RawURLEncoding.EncodeToString(s.public.N.Bytes())
	e := base64.RawURLEncoding.EncodeToString(bigEndianBytes(s.public.E))

	return map[string]interface{}{
		"keys": []JWK{{
			Kty: "RSA",
			Use: "sig",
			Alg: "RS256",
			Kid: s.kid,
			N:   n,
			E:   e,
		}},
	}
}

func bigEndianBytes(v int) []byte {
	// RSA public exponents are small (almost always 65537); three bytes is
	// always enough, and jwt.io-style encoders trim leading zero bytes.
	b := []byte{byte(v >> 16), byte(v >> 8), byte(v)}
	i := 0
	for i < len(b)-1 && b[i] == 0 {
		i++
	}
	return b[i:]
}
