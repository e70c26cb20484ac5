package models

import "strings"

// User represents a teacher authenticated via OIDC.
type User struct {
	Sub   string `json:"sub"` // OIDC subject identifier
	Email string `json:"email"`
	Name  string `json:"name"`
}

// QuotaKey returns the identifier attempts are counted against.
// Email is preferred because it is stable across identity providers.
func (u *User) QuotaKey() string {
	if u == nil {
		return ""
	}
	if u.Email != "" {
		return strings.ToLower(u.Email)
	}
	return u.Sub
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return u.Sub
	}
}
