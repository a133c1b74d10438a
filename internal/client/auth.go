package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwalitptl/clinic-client/internal/model"
	"github.com/jwalitptl/clinic-client/internal/session"
)

// Login exchanges credentials for a bearer token and installs the resulting
// session in the store shared with every other client call.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	req := &model.LoginRequest{Email: email, Password: password}
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/login", nil, req, &resp, true); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	s := session.FromToken(resp.Token, resp.User)
	c.sessions.Set(s)
	return s, nil
}

// Register creates an account and logs the new user straight in, matching
// the backend's register-returns-token behaviour.
func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) (*session.Session, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/register", nil, req, &resp, true); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	s := session.FromToken(resp.Token, resp.User)
	c.sessions.Set(s)
	return s, nil
}

// Logout drops the local session; the backend keeps no server-side session
// state to revoke.
func (c *Client) Logout() {
	c.sessions.Invalidate()
}
