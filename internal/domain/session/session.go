package session

import "time"

// Session binds an opaque bearer token to a user identity. The token
// is the sole credential; there is nothing to verify beyond the store
// lookup.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"created"`
}

// ExpiredAt reports whether the session is past its lifetime at the
// given instant. A non-positive ttl disables expiry.
func (s Session) ExpiredAt(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.After(s.CreatedAt.Add(ttl))
}
