package signature

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
)

// Verifier authenticates inbound webhook payloads signed with a shared secret.
type Verifier struct {
	secret []byte
}

// NewVerifier builds Verifier around the processor's shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Sign computes the lowercase hex HMAC-SHA512 digest of body.
func (v *Verifier) Sign(body []byte) string {
	mac := hmac.New(sha512.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether provided matches the digest of the exact raw
// transport bytes. The payload must not be re-serialized before hashing.
// Comparison is constant time.
func (v *Verifier) Verify(body []byte, provided string) bool {
	expected := v.Sign(body)
	return hmac.Equal([]byte(expected), []byte(provided))
}
