package auth

import (
	"crypto/rand"
	"encoding/base64"
)

// stateTokenBytes of entropy encode to a fixed 22-character token.
const stateTokenBytes = 16

// StateTokenLength is the encoded length of every generated state token.
var StateTokenLength = base64.RawURLEncoding.EncodedLen(stateTokenBytes)

// NewStateToken returns a cryptographically random, URL-safe CSRF state
// token. The base64url alphabet makes it safe to embed unescaped in a
// query string. A crypto/rand read failure is unrecoverable and panics.
func NewStateToken() string {
	b := make([]byte, stateTokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic("auth: reading crypto/rand: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
