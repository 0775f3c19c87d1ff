package session

import (
	"strings"

	"github.com/smartshop/shopctl/internal/client"
)

// Role is the open set of account roles. Values outside the known three are
// kept verbatim.
type Role = client.Role

const (
	RoleAdmin    = client.RoleAdmin
	RoleVendor   = client.RoleVendor
	RoleCustomer = client.RoleCustomer
)

// Identity is the authenticated user as last reported by the server.
type Identity struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Name joins first and last name.
func (i Identity) Name() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// HasRole reports whether the identity holds any of roles, ignoring case.
func (i Identity) HasRole(roles ...Role) bool {
	mine := i.Role.Normalize()
	for _, r := range roles {
		if r.Normalize() == mine {
			return true
		}
	}
	return false
}

func identityFromAuth(resp *client.AuthResponse) *Identity {
	return &Identity{
		ID:        resp.ID,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Email:     resp.Email,
		Role:      resp.Role,
	}
}

func identityFromUser(u *client.User) *Identity {
	return &Identity{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
}
