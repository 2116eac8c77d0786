package session

import (
	"context"
	"time"
)

// Store persists principals keyed by session ID. Implementations must
// treat a missing key as ErrSessionNotFound and must expire entries
// after the given TTL.
type Store interface {
	// Save writes the principal under its session ID with the TTL
	Save(ctx context.Context, principal *Principal, ttl time.Duration) error

	// Get returns the principal for the session ID, or
	// ErrSessionNotFound
	Get(ctx context.Context, sessionID string) (*Principal, error)

	// Delete removes the principal. Deleting an absent session is not
	// an error: logout must always succeed locally.
	Delete(ctx context.Context, sessionID string) error
}
