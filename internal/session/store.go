// internal/session/store.go

// Package session persists the bearer token across process restarts.
// The token is the single durable piece of client state; the user object
// is always refetched from the API.
package session

import (
	"fmt"

	"github.com/your-org/storefront-client/internal/config"
)

// Store is a durable cell holding one bearer token. Load returns an
// empty string, not an error, when no token has been saved.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FromConfig builds the token store selected by the session config
func FromConfig(cfg *config.Config) (Store, error) {
	switch cfg.Session.Backend {
	case "file":
		return NewFileStore(cfg.Session.TokenFile), nil
	case "redis":
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown session backend: %s", cfg.Session.Backend)
	}
}
