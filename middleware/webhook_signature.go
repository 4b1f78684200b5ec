package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
)

const (
	SignatureHeader = "X-Hub-Signature-256"

	maxWebhookBody = 5 << 20
)

// VerifyGitHubSignature rejects webhook requests whose X-Hub-Signature-256
// does not match the HMAC of the body. The body is restored for the handler.
func VerifyGitHubSignature(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody+1))
			if err != nil {
				writeError(w, http.StatusBadRequest, "BAD_REQUEST", "cannot read body")
				return
			}
			if len(body) > maxWebhookBody {
				writeError(w, http.StatusRequestEntityTooLarge, "BAD_REQUEST", "payload too large")
				return
			}

			if !ValidSignature(secret, body, r.Header.Get(SignatureHeader)) {
				writeError(w, http.StatusUnauthorized, "BAD_SIGNATURE", "signature mismatch")
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// ValidSignature checks a "sha256=<hex>" signature against body.
func ValidSignature(secret string, body []byte, header string) bool {
	if secret == "" {
		return false
	}
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign returns the X-Hub-Signature-256 value for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
