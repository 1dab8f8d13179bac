package security

import (
	"crypto/subtle"
)

// ComparePlaintext reports whether the supplied credential equals the stored
// one. Stored credentials are plaintext; the comparison runs in constant time.
func ComparePlaintext(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
