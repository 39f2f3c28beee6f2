// Package identity resolves an opaque session id to an optional
// authenticated email. The magic-link flow that writes the mapping lives
// outside the core; commit consumes it only as a fallback email source.
package identity

import (
	"context"
	"fmt"

	"github.com/abhisek/elfplan/internal/kv"
)

// Resolver maps a session id to an authenticated email, when one exists.
type Resolver interface {
	EmailFor(ctx context.Context, sessionID string) (email string, ok bool, err error)
}

const authKeyPrefix = "elf:auth:"

// StoreResolver reads the email the auth layer recorded for a session.
type StoreResolver struct {
	Store kv.Store
}

func (r *StoreResolver) EmailFor(ctx context.Context, sessionID string) (string, bool, error) {
	email, ok, err := r.Store.Get(ctx, authKeyPrefix+sessionID)
	if err != nil {
		return "", false, fmt.Errorf("resolve identity for %s: %w", sessionID, err)
	}
	return email, ok, nil
}

// Null resolves nothing. Used when auth is not configured.
type Null struct{}

func (Null) EmailFor(context.Context, string) (string, bool, error) {
	return "", false, nil
}
