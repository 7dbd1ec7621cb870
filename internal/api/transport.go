package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TokenSource supplies the current bearer token, empty when logged out.
// *session.Store satisfies it.
type TokenSource interface {
	Token() string
}

// bearerTransport is the request interceptor: it attaches the bearer
// credential to every request under the API namespace and tags each
// request with an X-Request-ID. Requests outside the namespace never
// carry the token.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func newBearerTransport(base http.RoundTripper, tokens TokenSource) *bearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &bearerTransport{base: base, tokens: tokens}
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("X-Request-ID", uuid.NewString())
	if token := t.tokens.Token(); token != "" && underAPINamespace(clone.URL.Path) {
		clone.Header.Set("Authorization", "Bearer "+token)
	}
	return t.base.RoundTrip(clone)
}

func underAPINamespace(path string) bool {
	return strings.Contains(path, "/api/")
}
