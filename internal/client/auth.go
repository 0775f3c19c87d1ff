package client

import (
	"context"
	"net/http"
)

type AuthService struct {
	c *Client
}

// Logout invalidates the held token on the server. Local state is not
// touched.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.c.do(ctx, "auth.logout", http.MethodPost, "/auth/logout", nil, nil, nil)
}
