package token

import "fmt"

// Role is the coarse permission level forwarded to the upstream authority.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// Claims are the user identity facts sent verbatim to the upstream
// authority. They contain facts only, no secret material.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}
