package auth

import (
	"sync"
	"time"

	"github.com/gallerie/storefront/internal/domain/user"
)

// sessionCache memoizes token -> user lookups for a short window so a
// burst of requests on one bearer token does not re-read two stores
// each time. Invalidation on signout keeps revocation immediate.
type sessionCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]cachedUser
}

type cachedUser struct {
	u   user.User
	exp time.Time
}

func newSessionCache(ttl time.Duration) *sessionCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &sessionCache{
		ttl: ttl,
		m:   make(map[string]cachedUser),
	}
}

func (c *sessionCache) get(token string) (user.User, bool) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.m[token]
	c.mu.RUnlock()

	if !ok {
		return user.User{}, false
	}

	if now.After(e.exp) {
		c.mu.Lock()
		delete(c.m, token)
		c.mu.Unlock()
		return user.User{}, false
	}

	return e.u, true
}

func (c *sessionCache) set(token string, u user.User) {
	c.mu.Lock()
	c.m[token] = cachedUser{u: u, exp: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *sessionCache) delete(token string) {
	c.mu.Lock()
	delete(c.m, token)
	c.mu.Unlock()
}
