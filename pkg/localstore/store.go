// Package localstore is the durable client-state store. It plays the
// role the browser's localStorage played in the legacy storefront: a
// small set of stable keys holding JSON snapshots (cart, applied promo,
// session), written synchronously on every mutation.
package localstore

import (
	"context"
	"errors"
)

// Stable keys shared by the services that persist state here.
const (
	KeyCart    = "cart"
	KeyPromo   = "promo_applied"
	KeySession = "session"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("localstore: key not found")

// Store is the read/write surface handed to the cart, promo and session
// services. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
