package planner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned whenever a role identifier is not one of the four
// squad roles, or no button is bound to it.
var ErrUnknownRole = errors.New("unknown role")

// Role is one of the four squad roles a planner can focus on. The underlying
// byte is the one-letter identifier used in markup (data-role), on the wire and
// in the players database.
type Role byte

const (
	RoleGoalkeeper Role = 'P'
	RoleDefender   Role = 'D'
	RoleMidfielder Role = 'C'
	RoleForward    Role = 'A'
)

// Roles is the fixed, ordered set of roles as they appear in the role menu.
var Roles = [...]Role{RoleGoalkeeper, RoleDefender, RoleMidfielder, RoleForward}

func (r Role) Valid() bool {
	switch r {
	case RoleGoalkeeper, RoleDefender, RoleMidfielder, RoleForward:
		return true
	}
	return false
}

// String returns the one-letter identifier, or a placeholder for invalid roles
// so that log lines stay readable.
func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Role(%d)", byte(r))
	}
	return string(rune(r))
}

// Name is the human readable name of the role.
func (r Role) Name() string {
	switch r {
	case RoleGoalkeeper:
		return "goalkeeper"
	case RoleDefender:
		return "defender"
	case RoleMidfielder:
		return "midfielder"
	case RoleForward:
		return "forward"
	}
	return ""
}

// MarshalText encodes the role as its one-letter identifier. Role-keyed maps
// therefore encode as {"P": ..., "D": ...} in JSON.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, byte(r))
	}
	return []byte{byte(r)}, nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRole accepts a single role letter, case-insensitively, with surrounding
// whitespace ignored.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	r := Role(strings.ToUpper(s)[0])
	if !r.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// ParseRoleOrder parses a comma-separated list of roles such as "A,C,D,P". An
// empty string yields the default menu order.
func ParseRoleOrder(s string) ([]Role, error) {
	if strings.TrimSpace(s) == "" {
		return append([]Role(nil), Roles[:]...), nil
	}

	parts := strings.Split(s, ",")
	order := make([]Role, 0, len(parts))

	for _, p := range parts {
		r, err := ParseRole(p)
		if err != nil {
			return nil, err
		}
		order = append(order, r)
	}

	return order, nil
}
