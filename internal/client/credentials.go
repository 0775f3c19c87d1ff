package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/smartshop/shopctl/internal/metrics"
	"github.com/smartshop/shopctl/internal/tokenstore"
)

// Credentials holds the live credential token. The durable slot is read
// at most once, on first use; after that the in-memory copy is
// authoritative for this process.
type Credentials struct {
	mu     sync.Mutex
	store  tokenstore.Store
	token  string
	loaded bool
}

// NewCredentials returns Credentials backed by store. A nil store keeps the
// token in memory only.
func NewCredentials(store tokenstore.Store) *Credentials {
	if store == nil {
		store = tokenstore.NewMemory()
	}
	return &Credentials{store: store}
}

// StaticCredentials returns in-memory Credentials preloaded with token.
func StaticCredentials(token string) *Credentials {
	return NewCredentials(tokenstore.NewMemoryWithToken(token))
}

// Token returns the current token, or "" when none is held. A failure to
// read the durable slot is treated as no token.
func (c *Credentials) Token(ctx context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		c.loaded = true
		token, ok, err := c.store.Load(ctx)
		if err != nil {
			metrics.TokenStoreErrors.WithLabelValues(c.store.Backend(), "load").Inc()
		}
		if err == nil && ok {
			c.token = token
		}
	}
	return c.token
}

// Has reports whether a token is held.
func (c *Credentials) Has(ctx context.Context) bool {
	return c.Token(ctx) != ""
}

// Set persists token and then adopts it in memory. If persisting fails the
// held token is left unchanged.
func (c *Credentials) Set(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("refusing to store an empty token")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Save(ctx, token); err != nil {
		metrics.TokenStoreErrors.WithLabelValues(c.store.Backend(), "save").Inc()
		return fmt.Errorf("failed to persist token: %w", err)
	}
	c.token = token
	c.loaded = true
	return nil
}

// Clear drops the token from memory and from the durable slot. The
// in-memory copy is always cleared; the returned error only reports the
// durable side.
func (c *Credentials) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.loaded = true
	if err := c.store.Clear(ctx); err != nil {
		metrics.TokenStoreErrors.WithLabelValues(c.store.Backend(), "clear").Inc()
		return fmt.Errorf("failed to clear persisted token: %w", err)
	}
	return nil
}

// Backend names the durable store in use.
func (c *Credentials) Backend() string {
	return c.store.Backend()
}
