// Package session persists the single-value session token: the id of the
// authenticated local user.
package session

import "context"

// Repository stores the persisted session token.
//
// Get returns an empty string when no session is stored; absence of a
// session is a normal state, not an error.
type Repository interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, userID string) error
	Clear(ctx context.Context) error
}
