package auth

import (
	"context"
	"encoding/base64"
	"sync"
)

// Authenticator produces the Authorization header value for Azure Devops requests
type Authenticator interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// TokenAuth authenticates with a bearer token
type TokenAuth struct {
	Token string
}

// AuthorizationHeader returns "Bearer <token>"
func (a TokenAuth) AuthorizationHeader(ctx context.Context) (string, error) {
	return "Bearer " + a.Token, nil
}

// BasicAuth authenticates with a username and password. Personal access tokens are sent as the password.
type BasicAuth struct {
	Username string
	Password string

	once   sync.Once
	header string
}

// NewBasicAuth returns a BasicAuth
func NewBasicAuth(username string, password string) *BasicAuth {
	return &BasicAuth{Username: username, Password: password}
}

// NewPATAuth returns a BasicAuth for a personal access token
func NewPATAuth(token string) *BasicAuth {
	return NewBasicAuth("", token)
}

// AuthorizationHeader returns "Basic <base64(username:password)>"
func (a *BasicAuth) AuthorizationHeader(ctx context.Context) (string, error) {
	a.once.Do(func() {
		a.header = "Basic " + base64.StdEncoding.EncodeToString([]byte(a.Username+":"+a.Password))
	})
	return a.header, nil
}
