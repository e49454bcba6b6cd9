package net

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	maxIdleConns     = 10
	timeoutInSeconds = 60
)

var reqTransport = &http.Transport{
	MaxIdleConns:          maxIdleConns,
	IdleConnTimeout:       timeoutInSeconds * time.Second,
	DisableCompression:    false,
	ResponseHeaderTimeout: time.Duration(timeoutInSeconds) * time.Second,
}

// GetHTTPClient returns the client used for remote input. A non-empty token
// is sent as a bearer token on every request.
func GetHTTPClient(ctx context.Context, token string) *http.Client {
	base := &http.Client{
		Transport: reqTransport,
		Timeout:   timeoutInSeconds * time.Second,
	}
	if token == "" {
		return base
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		TokenType:   "Bearer",
		AccessToken: token,
	})
	return oauth2.NewClient(ctx, ts)
}
