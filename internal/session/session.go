// Package session holds the shopper's token/user pair, the state the
// legacy storefront kept under the user and token storage keys. The
// upstream API is the authority on token validity; expiry is checked
// here with an unverified claims parse, the same trust model the
// original client had.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	pkgerrors "github.com/nassimkhelifi/boutiqa-storefront/pkg/errors"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/localstore"
)

// Session is the persisted token/user pair.
type Session struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Holder stores and exposes the current session.
type Holder struct {
	store localstore.Store

	mu      sync.Mutex
	current *Session
}

// NewHolder restores any persisted session.
func NewHolder(ctx context.Context, store localstore.Store) (*Holder, error) {
	if store == nil {
		return nil, fmt.Errorf("local store required")
	}

	h := &Holder{store: store}

	raw, err := store.Get(ctx, localstore.KeySession)
	switch {
	case errors.Is(err, localstore.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("loading persisted session: %w", err)
	default:
		var persisted Session
		if err := json.Unmarshal(raw, &persisted); err == nil {
			h.current = &persisted
		}
	}

	return h, nil
}

// Save persists the session issued by the upstream API.
func (h *Holder) Save(ctx context.Context, sess Session) error {
	if strings.TrimSpace(sess.Token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session token is required")
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	if err := h.store.Put(ctx, localstore.KeySession, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist session")
	}

	h.mu.Lock()
	h.current = &sess
	h.mu.Unlock()
	return nil
}

// Current returns the stored session, dropping it when the token has
// expired.
func (h *Holder) Current(ctx context.Context) (*Session, error) {
	h.mu.Lock()
	sess := h.current
	h.mu.Unlock()

	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}

	if expired(sess.Token) {
		if err := h.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}

	copied := *sess
	return &copied, nil
}

// Clear drops the session, as on logout.
func (h *Holder) Clear(ctx context.Context) error {
	if err := h.store.Delete(ctx, localstore.KeySession); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear persisted session")
	}
	h.mu.Lock()
	h.current = nil
	h.mu.Unlock()
	return nil
}

// expired parses the token claims without verifying the signature;
// signature checks belong to the upstream API.
func expired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		// Opaque tokens carry no expiry we can read; defer to upstream.
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
