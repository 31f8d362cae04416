package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"nearwave/internal/client/models"
	sessionrepo "nearwave/internal/client/repositories/session"
	"nearwave/internal/client/repositories/users"
	"nearwave/internal/common"
	"nearwave/internal/logging"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS users (
  id            TEXT PRIMARY KEY,
  first_name    TEXT NOT NULL,
  last_name     TEXT NOT NULL,
  username      TEXT NOT NULL UNIQUE,
  email         TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  birthdate     TEXT NOT NULL,
  now_playing   TEXT,
  distance      INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS session (key TEXT PRIMARY KEY, value TEXT NOT NULL);
`)
	require.NoError(t, err)
	return db
}

// fakeAPI implements client.API for unit tests. The follows slice doubles
// as the "server-side" edge store so tests can assert what the remote
// service would still hold.
type fakeAPI struct {
	mu sync.Mutex

	users    []models.RemoteUser
	usersErr error

	follows    []models.FollowEdge
	followsErr error
	createErr  error
	deleteErr  error

	nextEdge         int
	listUsersCalls   int
	listFollowsCalls int
	createCalls      int
	deleteCalls      int

	// Hooks run outside the lock, right before the call returns. They let
	// tests hold a request in flight.
	beforeListUsersReturn func(call int)
	beforeCreateReturn    func()
}

func (a *fakeAPI) ListUsers(ctx context.Context) ([]models.RemoteUser, error) {
	a.mu.Lock()
	a.listUsersCalls++
	call := a.listUsersCalls
	err := a.usersErr
	users := append([]models.RemoteUser(nil), a.users...)
	hook := a.beforeListUsersReturn
	a.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (a *fakeAPI) ListFollows(ctx context.Context, followerID string) ([]models.FollowEdge, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listFollowsCalls++
	if a.followsErr != nil {
		return nil, a.followsErr
	}
	var out []models.FollowEdge
	for _, e := range a.follows {
		if e.FollowerID == followerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (a *fakeAPI) ListAllFollows(ctx context.Context) ([]models.FollowEdge, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.followsErr != nil {
		return nil, a.followsErr
	}
	return append([]models.FollowEdge(nil), a.follows...), nil
}

func (a *fakeAPI) CreateFollow(ctx context.Context, followerID, followedID string) (*models.FollowEdge, error) {
	a.mu.Lock()
	a.createCalls++
	err := a.createErr
	hook := a.beforeCreateReturn
	a.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextEdge++
	e := models.FollowEdge{
		ID:         fmt.Sprintf("e%d", a.nextEdge),
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	a.follows = append(a.follows, e)
	return &e, nil
}

func (a *fakeAPI) DeleteFollow(ctx context.Context, edgeID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleteCalls++
	if a.deleteErr != nil {
		return a.deleteErr
	}
	for i, e := range a.follows {
		if e.ID == edgeID {
			a.follows = append(a.follows[:i], a.follows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: edge %s", common.ErrNotFound, edgeID)
}

func (a *fakeAPI) serverEdges() []models.FollowEdge {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.FollowEdge(nil), a.follows...)
}

func newTestServices(t *testing.T, api *fakeAPI) (*SessionService, *DiscoveryService, *FollowService, *users.SQLiteRepository) {
	t.Helper()
	db := setupDB(t)
	usersRepo := users.NewSQLiteRepository(db)
	sessRepo := sessionrepo.NewSQLiteRepository(db)
	log := logging.NewTextLogger(io.Discard, slog.LevelError)

	sess, disc, fol := NewServices(api, usersRepo, sessRepo, log, 100)
	return sess, disc, fol, usersRepo
}

func registerLocalUser(t *testing.T, repo users.Repository, username string) *models.LocalUser {
	t.Helper()
	u := &models.LocalUser{
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		Email:     username + "@example.com",
		Password:  "pass-" + username,
		Birthdate: "2000-01-01",
	}
	require.NoError(t, repo.Add(context.Background(), u))
	return u
}

func loginAs(t *testing.T, sess *SessionService, username string) *models.LocalUser {
	t.Helper()
	u, err := sess.Login(context.Background(), username, "pass-"+username)
	require.NoError(t, err)
	return u
}
