package kernel

import (
	"fmt"
	"slices"
	"strings"

	"courier/internal/pkg/errs"
)

// Role is the authorization role of a caller, resolved before any command runs.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAgent    Role = "agent"
	RoleDriver   Role = "driver"
	RoleCustomer Role = "customer"
)

// ParseRole accepts the role names case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleAgent, RoleDriver, RoleCustomer:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   UUID
	Role Role
}

// NewActor validates both fields.
func NewActor(id UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

// Is reports whether the actor holds the given role.
func (a Actor) Is(role Role) bool {
	return a.Role == role
}

// Require returns a ForbiddenError naming action unless the actor holds one of roles.
func (a Actor) Require(action string, roles ...Role) error {
	if slices.Contains(roles, a.Role) {
		return nil
	}
	return errs.NewForbiddenError(action, a.Role.String())
}
