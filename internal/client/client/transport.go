package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/assignhub/internal/common"
)

// TokenSource yields the bearer credential for outgoing requests. An empty
// token means the request goes out anonymous.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// AttachCredentials sets the Authorization header when token is non-empty.
func AttachCredentials(req *http.Request, token string) {
	if token == "" {
		return
	}
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
}

// bearerTransport attaches the current token to every request it carries.
// The token is read per request so a login or logout takes effect at once.
// Requests to any other host (presigned storage URLs, redirects) go out
// without it.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
	host   string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens == nil || req.URL.Host != t.host {
		return t.base.RoundTrip(req)
	}

	token, err := t.tokens.Token(req.Context())
	if err != nil {
		return nil, err
	}
	if token == "" {
		return t.base.RoundTrip(req)
	}

	r := req.Clone(req.Context())
	AttachCredentials(r, token)
	return t.base.RoundTrip(r)
}
