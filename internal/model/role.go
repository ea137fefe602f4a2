package model

import (
	"fmt"
	"strings"
)

// Role is the closed set of user types. The boundary parses incoming
// user_type strings exactly once; everything past the handlers works
// with this type, never with free-form strings.
type Role string

const (
	RoleOps    Role = "ops"
	RoleClient Role = "client"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleOps:
		return RoleOps, nil
	case RoleClient:
		return RoleClient, nil
	default:
		return "", fmt.Errorf("%w: unknown user type %q", ErrInvalidInput, raw)
	}
}

func (r Role) String() string {
	return string(r)
}
