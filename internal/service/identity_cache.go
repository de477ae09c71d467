package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
)

const identityCacheTTL = time.Minute

// IdentityCache keeps resolved identities in redis under identity:<username>.
//
// Resolve only ever adds entries, and an add never replaces an existing key.
// Account changes overwrite the key with Put, so a Resolve that read the row
// before the change cannot put the old state back afterwards.
type IdentityCache struct {
	client *cache.Client
}

// NewIdentityCache wraps client. A nil client disables caching.
func NewIdentityCache(client *cache.Client) *IdentityCache {
	return &IdentityCache{client: client}
}

// NormalizeUsername is the form usernames are stored and looked up in.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func identityCacheKey(username string) string {
	return "identity:" + username
}

// Get returns the cached identity for username, if any.
func (c *IdentityCache) Get(ctx context.Context, username string) (*auth.Identity, bool) {
	var identity auth.Identity
	if !c.client.GetJSON(ctx, identityCacheKey(username), &identity) {
		return nil, false
	}
	return &identity, true
}

// Add caches identity unless an entry for the username already exists.
func (c *IdentityCache) Add(ctx context.Context, identity *auth.Identity) {
	c.client.AddJSON(ctx, identityCacheKey(identity.Username), identity, identityCacheTTL)
}

// Put replaces the cached identity after the account itself changed.
func (c *IdentityCache) Put(ctx context.Context, identity *auth.Identity) error {
	if err := c.client.PutJSON(ctx, identityCacheKey(identity.Username), identity, identityCacheTTL); err != nil {
		return fmt.Errorf("cache identity %q: %w", identity.Username, err)
	}
	return nil
}
