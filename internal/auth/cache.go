package auth

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// CachingValidator remembers accepted tokens for a while so a player who
// reconnects between rounds does not cost another call to the auth service.
// Rejections and outages are never cached.
type CachingValidator struct {
	next  Validator
	clock quartz.Clock
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cachedIdentity
}

type cachedIdentity struct {
	identity Identity
	expires  time.Time
}

// NewCachingValidator wraps next, keeping identities for ttl
func NewCachingValidator(next Validator, clock quartz.Clock, ttl time.Duration) *CachingValidator {
	return &CachingValidator{
		next:    next,
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]cachedIdentity),
	}
}

// Validate implements Validator
func (c *CachingValidator) Validate(ctx context.Context, token string) (*Identity, error) {
	now := c.clock.Now()

	c.mu.Lock()
	if e, ok := c.entries[token]; ok {
		if now.Before(e.expires) {
			c.mu.Unlock()
			id := e.identity
			return &id, nil
		}
		delete(c.entries, token)
	}
	c.mu.Unlock()

	identity, err := c.next.Validate(ctx, token)
	if err != nil || identity == nil {
		return identity, err
	}

	c.mu.Lock()
	c.entries[token] = cachedIdentity{identity: *identity, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return identity, nil
}

// Len returns how many tokens are cached, expired ones included
func (c *CachingValidator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
