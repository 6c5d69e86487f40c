// Package fingerprint derives a stable hash of client request headers.
//
// The hash is bound to a session at creation and compared on every
// validation to detect a stolen cookie replayed from a different client.
// It is a tripwire, not a security boundary on its own.
package fingerprint

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"io"
	"net/http"
)

// headers contribute to the fingerprint, in order. Client hints are
// included when the browser sends them.
var headers = []string{
	"User-Agent",
	"Accept-Language",
	"Sec-Ch-Ua",
	"Sec-Ch-Ua-Platform",
	"Sec-Ch-Ua-Mobile",
}

// Hash returns the fingerprint hash for the request.
func Hash(r *http.Request) string {
	h := sha256.New()
	for _, name := range headers {
		_, _ = io.WriteString(h, r.Header.Get(name))
		_, _ = io.WriteString(h, "\n")
	}

	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Match compares two fingerprint hashes in constant time.
func Match(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
