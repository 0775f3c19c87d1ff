package client

import (
	"context"
	"net/http"
)

type UsersService struct {
	c *Client
}

// Register creates an account. The response carries the new token; it is
// not stored here.
func (s *UsersService) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	return call[AuthResponse](ctx, s.c, "users.register", http.MethodPost, "/users/register", nil, in)
}

// Login exchanges credentials for a token and profile. The token is not
// stored here; see session.Store.
func (s *UsersService) Login(ctx context.Context, in LoginRequest) (*AuthResponse, error) {
	return call[AuthResponse](ctx, s.c, "users.login", http.MethodPost, "/users/login", nil, in)
}

// Profile returns the user the held token belongs to.
func (s *UsersService) Profile(ctx context.Context) (*User, error) {
	return call[User](ctx, s.c, "users.profile", http.MethodGet, "/users/profile", nil, nil)
}

func (s *UsersService) UpdateProfile(ctx context.Context, in UpdateProfileRequest) (*User, error) {
	const op = "users.update_profile"
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[User](ctx, s.c, op, http.MethodPut, "/users/updateProfile", nil, in)
}

func (s *UsersService) List(ctx context.Context, page, size int) (*Page[User], error) {
	return list[User](ctx, s.c, "users.list", "/users/all", pageQuery(page, size), size)
}

func (s *UsersService) Get(ctx context.Context, id int64) (*User, error) {
	return call[User](ctx, s.c, "users.get", http.MethodGet, idPath("/users/%d", id), nil, nil)
}

// Update changes a user. Role is sent upper-cased; which roles exist is up
// to the server.
func (s *UsersService) Update(ctx context.Context, id int64, in UpdateUserRequest) (*User, error) {
	const op = "users.update"
	in.Role = in.Role.Normalize()
	if err := validateRequest(op, in); err != nil {
		return nil, err
	}
	return call[User](ctx, s.c, op, http.MethodPut, idPath("/users/%d", id), nil, in)
}

func (s *UsersService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, "users.delete", http.MethodDelete, idPath("/users/%d", id), nil, nil, nil)
}
