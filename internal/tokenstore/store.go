// Package tokenstore persists the credential token between process runs.
//
// A Store is a single durable slot: it holds at most one token for the
// profile it was opened with. The in-memory cache in front of it lives in
// the client package; Store implementations always go to their backend.
package tokenstore

import (
	"context"
	"fmt"
	"time"
)

// Key is the fixed name of the persisted token slot.
const Key = "token"

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Store is a durable slot holding the credential token.
type Store interface {
	// Load returns the persisted token. ok is false when the slot is empty.
	Load(ctx context.Context) (token string, ok bool, err error)
	// Save replaces the persisted token.
	Save(ctx context.Context, token string) error
	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error
	// Backend names the implementation, for logs and metrics.
	Backend() string
	Close() error
}

// Config selects and parameterizes a Store backend.
type Config struct {
	Backend  string
	Profile  string
	Path     string
	RedisURL string
	TTL      time.Duration
}

// Open builds the Store described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	profile := cfg.Profile
	if profile == "" {
		profile = "default"
	}

	switch cfg.Backend {
	case BackendMemory:
		return NewMemory(), nil
	case "", BackendFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file token store requires a path")
		}
		return NewFile(cfg.Path, profile), nil
	case BackendRedis:
		return NewRedis(ctx, cfg.RedisURL, profile, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown token store backend %q", cfg.Backend)
	}
}
