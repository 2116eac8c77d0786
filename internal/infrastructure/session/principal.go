package session

import (
	"errors"
	"time"

	"github.com/shopfront/gateway/internal/domain/identity"
)

// ErrSessionNotFound indicates the session ID has no stored principal,
// either because it expired or because it was revoked
var ErrSessionNotFound = errors.New("session: not found")

// Kind distinguishes the two session realms. They use separate
// cookies and never cross: an admin cookie cannot resolve a customer
// principal and vice versa.
type Kind string

const (
	KindAdmin    Kind = "admin"
	KindCustomer Kind = "customer"
)

// IsValid reports whether the kind is a known session realm
func (k Kind) IsValid() bool {
	return k == KindAdmin || k == KindCustomer
}

// Principal is the server-side session state: the platform bearer
// token plus a snapshot of the authenticated identity. The snapshot is
// a cache; the platform remains the source of truth and can revoke the
// token at any time.
type Principal struct {
	SessionID     string             `json:"session_id"`
	Kind          Kind               `json:"kind"`
	UpstreamToken string             `json:"upstream_token"`
	Account       *identity.Account  `json:"account,omitempty"`
	Customer      *identity.Customer `json:"customer,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}
