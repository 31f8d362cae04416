// Package users persists locally registered accounts.
package users

import (
	"context"

	"nearwave/internal/client/models"
)

// Repository defines storage operations for local user accounts.
//
// Contract:
//   - Add hashes the password before it touches the database and assigns an
//     id when none is set.
//   - Find* methods return common.ErrNotFound when no row matches.
//   - FindByCredentials does not reveal whether the username or the
//     password was wrong.
type Repository interface {
	Add(ctx context.Context, u *models.LocalUser) error
	Update(ctx context.Context, u *models.LocalUser) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	GetByID(ctx context.Context, id string) (*models.LocalUser, error)
	FindByUsername(ctx context.Context, username string) (*models.LocalUser, error)
	FindByEmail(ctx context.Context, email string) (*models.LocalUser, error)
	FindByCredentials(ctx context.Context, username, password string) (*models.LocalUser, error)
}
