package access

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole accepts only the roles this service knows about. Tokens carrying
// anything else are rejected before they reach the policy.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// Actor is the authenticated caller of a request.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type Operation string

const (
	Read   Operation = "view"
	Update Operation = "update"
	Delete Operation = "delete"
)

// CanAccess reports whether actor may perform op on a booking owned by ownerID.
// Admins may do anything; users only touch their own bookings.
func CanAccess(actor Actor, ownerID string, op Operation) bool {
	switch op {
	case Read, Update, Delete:
	default:
		panic(fmt.Sprintf("access: unknown operation %q", op))
	}

	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleUser:
		return actor.ID != "" && actor.ID == ownerID
	default:
		panic(fmt.Sprintf("access: unknown role %q for actor %s", actor.Role, actor.ID))
	}
}

func CanManageHotels(actor Actor) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleUser:
		return false
	default:
		panic(fmt.Sprintf("access: unknown role %q for actor %s", actor.Role, actor.ID))
	}
}
