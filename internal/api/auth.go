package api

import (
	"context"
	"net/http"
	"net/url"
)

// Login exchanges credentials for a token pair. The tokens are not stored
// here; the session layer owns that.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var auth AuthResponse
	rel := &url.URL{Path: "/auth/login"}
	if err := c.do(ctx, http.MethodPost, rel, creds, &auth); err != nil {
		return AuthResponse{}, err
	}
	return auth, nil
}

// Profile retrieves the authenticated user.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var u User
	rel := &url.URL{Path: "/auth/profile"}
	if err := c.get(ctx, rel, &u); err != nil {
		return User{}, err
	}
	return u, nil
}
