package coursehub

import (
	"context"
	"net/http"

	"github.com/sahilchouksey/course-hub/model"
)

// Signup registers a new account and returns its access token.
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error) {
	var result model.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/signup", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var result model.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CurrentUser returns the user the bearer token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Health probes the backend liveness endpoint.
func (c *Client) Health(ctx context.Context) (*model.HealthStatus, error) {
	var status model.HealthStatus
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
