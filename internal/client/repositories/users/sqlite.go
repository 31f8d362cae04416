package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"nearwave/internal/client/models"
	"nearwave/internal/common"
	"nearwave/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const userColumns = `id, first_name, last_name, username, email, birthdate, now_playing, distance`

// Add inserts a new user. An empty ID is replaced with a fresh UUID and the
// password is stored as a bcrypt hash. Unique-constraint violations on
// username or email surface as common.ErrDuplicate.
func (r *SQLiteRepository) Add(ctx context.Context, u *models.LocalUser) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	nowPlaying, err := trackColumn(u.NowPlaying)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, username, email, password_hash, birthdate, now_playing, distance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.FirstName, u.LastName, u.Username, u.Email, string(hash), u.Birthdate, nowPlaying, u.Distance)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return common.ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Update rewrites the profile fields of an existing user. The password hash
// is rewritten only when u.Password is non-empty. When the repository is
// bound to a *sql.DB the two statements run in a single transaction; a
// repository bound to a *sql.Tx executes them on the caller's transaction.
func (r *SQLiteRepository) Update(ctx context.Context, u *models.LocalUser) error {
	if db, ok := r.db.(*sql.DB); ok {
		return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return updateUser(ctx, tx, u)
		})
	}
	return updateUser(ctx, r.db, u)
}

func updateUser(ctx context.Context, db dbx.DBTX, u *models.LocalUser) error {
	nowPlaying, err := trackColumn(u.NowPlaying)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `
		UPDATE users SET first_name = ?, last_name = ?, username = ?, email = ?,
			birthdate = ?, now_playing = ?, distance = ?
		WHERE id = ?
	`, u.FirstName, u.LastName, u.Username, u.Email, u.Birthdate, nowPlaying, u.Distance, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}

	if u.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if _, err := db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, string(hash), u.ID); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.LocalUser, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLiteRepository) FindByUsername(ctx context.Context, username string) (*models.LocalUser, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.LocalUser, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// FindByCredentials resolves a user by username and verifies the password
// against the stored bcrypt hash. Both an unknown username and a wrong
// password return common.ErrNotFound.
func (r *SQLiteRepository) FindByCredentials(ctx context.Context, username, password string) (*models.LocalUser, error) {
	var hash string
	row := r.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE username = ?`, username)
	if err := row.Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, common.ErrNotFound
	}

	return r.FindByUsername(ctx, username)
}

// trackColumn serializes a track to its JSON column value, NULL when unset.
func trackColumn(tr *models.Track) (any, error) {
	if tr == nil {
		return nil, nil
	}
	data, err := json.Marshal(tr)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal track: %w", err)
	}
	return string(data), nil
}

func scanUser(row *sql.Row) (*models.LocalUser, error) {
	u := &models.LocalUser{}
	var nowPlaying sql.NullString

	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email,
		&u.Birthdate, &nowPlaying, &u.Distance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if nowPlaying.Valid && nowPlaying.String != "" {
		tr := &models.Track{}
		if err := json.Unmarshal([]byte(nowPlaying.String), tr); err != nil {
			return nil, fmt.Errorf("failed to unmarshal track: %w", err)
		}
		u.NowPlaying = tr
	}
	return u, nil
}
