// Package auth decides how requests to Trapper are authenticated.
package auth

import (
	"context"
	"net/http"

	"github.com/wildintel/trapper-client/pkg/trapper"
)

// Authenticator sets credentials on an outgoing request.
type Authenticator interface {
	Authenticate(ctx context.Context, req *http.Request) error
	Scheme() string
}

// TokenAuthenticator sends a static API token.
type TokenAuthenticator struct {
	token string
}

// NewTokenAuthenticator creates a token authenticator.
func NewTokenAuthenticator(token string) *TokenAuthenticator {
	return &TokenAuthenticator{token: token}
}

// Authenticate sets "Authorization: Token <t>".
func (a *TokenAuthenticator) Authenticate(_ context.Context, req *http.Request) error {
	req.Header.Set("Authorization", "Token "+a.token)

	return nil
}

// Scheme returns "token".
func (a *TokenAuthenticator) Scheme() string {
	return "token"
}

// BasicAuthenticator sends HTTP Basic credentials.
type BasicAuthenticator struct {
	username string
	password string
}

// NewBasicAuthenticator creates a Basic auth authenticator.
func NewBasicAuthenticator(username, password string) *BasicAuthenticator {
	return &BasicAuthenticator{username: username, password: password}
}

// Authenticate sets the Basic auth header.
func (a *BasicAuthenticator) Authenticate(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(a.username, a.password)

	return nil
}

// Scheme returns "basic".
func (a *BasicAuthenticator) Scheme() string {
	return "basic"
}

// MissingCredentials fails every request with trapper.ErrNoCredentials.
type MissingCredentials struct{}

// Authenticate always fails.
func (MissingCredentials) Authenticate(context.Context, *http.Request) error {
	return trapper.ErrNoCredentials
}

// Scheme returns "none".
func (MissingCredentials) Scheme() string {
	return "none"
}

// FromCredentials picks the authenticator for the configured credentials. A
// token wins over username and password; Basic auth needs both.
func FromCredentials(token, username, password string) Authenticator {
	switch {
	case token != "":
		return NewTokenAuthenticator(token)
	case username != "" && password != "":
		return NewBasicAuthenticator(username, password)
	default:
		return MissingCredentials{}
	}
}
