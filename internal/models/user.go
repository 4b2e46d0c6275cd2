package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// ParseRole maps a stored string to a role. Unknown values read as user.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	default:
		return RoleUser
	}
}

func (r Role) String() string { return string(r) }

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	for _, x := range roles {
		if r == x {
			return true
		}
	}
	return false
}

func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*r = ParseRole(v)
	case []byte:
		*r = ParseRole(string(v))
	case nil:
		*r = RoleUser
	default:
		return fmt.Errorf("unsupported role type %T", src)
	}
	return nil
}

func (r Role) Value() (driver.Value, error) {
	return string(ParseRole(string(r))), nil
}

type User struct {
	ID         int64     `json:"id" db:"id"`
	Login      string    `json:"login" db:"login"`
	Credential string    `json:"-" db:"credential"` // уже захэширован вызывающей стороной
	Role       Role      `json:"role" db:"role"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
