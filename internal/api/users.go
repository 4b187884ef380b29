package api

import (
	"context"
	"net/http"
	"net/url"
)

// CreateUser registers a new user account.
func (c *Client) CreateUser(ctx context.Context, in CreateUserRequest) (User, error) {
	var u User
	rel := &url.URL{Path: "/users"}
	if err := c.do(ctx, http.MethodPost, rel, in, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// CheckEmailAvailable reports whether an email is free to register.
func (c *Client) CheckEmailAvailable(ctx context.Context, email string) (bool, error) {
	var out struct {
		IsAvailable bool `json:"isAvailable"`
	}
	rel := &url.URL{Path: "/users/is-available"}
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, rel, body, &out); err != nil {
		return false, err
	}
	return out.IsAvailable, nil
}
