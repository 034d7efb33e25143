package user

import (
	"strings"
	"time"
)

type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name,omitempty"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	PhoneNormalized string    `json:"phoneNormalized,omitempty"`
	PasswordHash    string    `json:"-"` // never expose hash in JSON
	IsAdmin         bool      `json:"isAdmin,omitempty"`
	CreatedAt       time.Time `json:"created"`
}

// AdminWith reports whether u is an administrator, either by its
// stored flag or because its email matches the configured admin
// address.
func (u User) AdminWith(adminEmail string) bool {
	if u.IsAdmin {
		return true
	}
	if adminEmail == "" || u.Email == "" {
		return false
	}
	return strings.EqualFold(u.Email, adminEmail)
}

// NormalizePhone strips everything but digits.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// minPhoneMatchDigits guards the suffix comparison against trivially
// short inputs matching everything.
const minPhoneMatchDigits = 7

// PhoneMatches reports whether two normalized phone numbers identify
// the same line. Country codes and leading zeros make stored and
// presented numbers differ in prefix, so beyond exact equality, one
// being a suffix of the other counts as a match.
func PhoneMatches(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if len(a) < minPhoneMatchDigits || len(b) < minPhoneMatchDigits {
		return false
	}
	return strings.HasSuffix(a, b) || strings.HasSuffix(b, a)
}
