package internal

import (
	"fmt"
	"strings"
)

// Tier is the privilege class of a route, fixed at registration.
type Tier int

const (
	TierPublic Tier = iota
	TierSystem
)

func (t Tier) String() string {
	switch t {
	case TierPublic:
		return "public"
	case TierSystem:
		return "system"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Privilege is the capability level of an authenticated subject.
type Privilege int

const (
	PrivilegeNone Privilege = iota
	PrivilegeUser
	PrivilegeSystem
)

func (p Privilege) String() string {
	switch p {
	case PrivilegeUser:
		return "user"
	case PrivilegeSystem:
		return "system"
	default:
		return "none"
	}
}

// ParsePrivilege maps "user" and "system" to privileges. Anything else is
// PrivilegeNone.
func ParsePrivilege(s string) Privilege {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return PrivilegeUser
	case "system":
		return PrivilegeSystem
	default:
		return PrivilegeNone
	}
}

// Subject is the authenticated principal of an exchange.
type Subject struct {
	ID        string    `json:"id"`
	Privilege Privilege `json:"privilege"`
	Scopes    []string  `json:"scopes,omitempty"`
}

// requiredPrivilege is the minimum privilege a subject needs for tier. Any
// resolved subject may use a public route.
func requiredPrivilege(t Tier) Privilege {
	if t == TierSystem {
		return PrivilegeSystem
	}
	return PrivilegeNone
}

// authorize checks the subject's privilege against the route tier.
func authorize(s *Subject, t Tier) error {
	if s == nil {
		return ErrUnauthorized("")
	}
	if s.Privilege < requiredPrivilege(t) {
		return ErrForbidden("")
	}
	return nil
}
