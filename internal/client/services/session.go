package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"nearwave/internal/client/models"
	"nearwave/internal/client/repositories/session"
	"nearwave/internal/client/repositories/users"
	"nearwave/internal/common"
	"nearwave/internal/logging"
)

// State describes the session lifecycle.
//
// The machine is Unchecked → Checking → {Authenticated, Unauthenticated},
// then Authenticated ⇄ Unauthenticated via Establish/Clear. Nothing leaves
// Checking except the first Restore resolution.
type State int

const (
	StateUnchecked State = iota
	StateChecking
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUnchecked:
		return "unchecked"
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

var emailRe = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)

// SessionService owns the authenticated-user reference and the persisted
// session token. It is the authoritative reset point: Clear bumps the
// session epoch and resets the discovery and follow services, so nothing
// from a previous session leaks into the next one.
type SessionService struct {
	users   users.Repository
	session session.Repository
	log     logging.Logger

	discovery *DiscoveryService
	follows   *FollowService

	mu       sync.Mutex
	current  *models.LocalUser
	state    State
	restored bool
	epoch    uint64
}

// State returns the current lifecycle state.
func (s *SessionService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Checked reports whether the initial session restore has resolved.
func (s *SessionService) Checked() bool {
	st := s.State()
	return st == StateAuthenticated || st == StateUnauthenticated
}

// CurrentUser returns the authenticated user, or nil.
func (s *SessionService) CurrentUser() *models.LocalUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Epoch returns the current session epoch. Operations capture it when they
// start and must re-check it before applying results.
func (s *SessionService) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Restore reads the persisted session token exactly once and resolves it
// against the local user store. An absent or dangling token resolves to
// Unauthenticated without error. Calling Restore again is a no-op; in
// particular it never re-triggers the downstream seeding.
func (s *SessionService) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return nil
	}
	s.restored = true
	s.state = StateChecking
	s.mu.Unlock()

	userID, err := s.session.Get(ctx)
	if err != nil {
		s.resolve(nil)
		return fmt.Errorf("failed to read persisted session: %w", err)
	}
	if userID == "" {
		s.resolve(nil)
		return nil
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// The token points at a user that no longer exists locally.
			s.log.Warn(ctx, "persisted session references unknown user", "user_id", userID)
			s.resolve(nil)
			return nil
		}
		s.resolve(nil)
		return fmt.Errorf("failed to resolve session user: %w", err)
	}

	s.resolve(u)
	s.seed(ctx, u.ID)
	return nil
}

func (s *SessionService) resolve(u *models.LocalUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = u
	if u != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateUnauthenticated
	}
}

// seed loads the user's outgoing follow edges and preloads the directory.
// Failures are component-scoped: they are logged and left in the owning
// service's error state, never failing the login/restore itself.
func (s *SessionService) seed(ctx context.Context, userID string) {
	if err := s.follows.SeedOutgoing(ctx, userID); err != nil {
		s.log.Warn(ctx, "failed to load follow edges", "err", err)
	}
	if err := s.discovery.Preload(ctx); err != nil {
		s.log.Warn(ctx, "failed to preload directory", "err", err)
	}
}

// Establish persists u.ID as the session token and publishes u as the
// authenticated user. A persistence failure is surfaced but the in-memory
// state is still updated; storage and memory disagreeing is acceptable only
// because the caller sees the error.
func (s *SessionService) Establish(ctx context.Context, u *models.LocalUser) error {
	err := s.session.Set(ctx, u.ID)
	s.resolve(u)
	if err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Clear logs out: it bumps the session epoch, publishes no current user,
// resets the discovery and follow services to their initial state, and
// clears the persisted token. The downstream reset is mandatory — stale
// directory or follow data must never leak into a new session.
func (s *SessionService) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.state = StateUnauthenticated
	s.epoch++
	s.mu.Unlock()

	s.discovery.Reset()
	s.follows.Reset()

	if err := s.session.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	return nil
}

// Register validates and stores a new local account. Validation failures
// wrap common.ErrValidation and never touch the network or the store.
func (s *SessionService) Register(ctx context.Context, u *models.LocalUser) error {
	for _, field := range []string{u.FirstName, u.LastName, u.Username, u.Email, u.Password, u.Birthdate} {
		if strings.TrimSpace(field) == "" {
			return fmt.Errorf("%w: all fields are required", common.ErrValidation)
		}
	}
	if !emailRe.MatchString(u.Email) {
		return fmt.Errorf("%w: email address is not valid", common.ErrValidation)
	}

	if _, err := s.users.FindByUsername(ctx, u.Username); err == nil {
		return fmt.Errorf("%w: username is already registered", common.ErrValidation)
	} else if !errors.Is(err, common.ErrNotFound) {
		return err
	}
	if _, err := s.users.FindByEmail(ctx, u.Email); err == nil {
		return fmt.Errorf("%w: email is already registered", common.ErrValidation)
	} else if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	if err := s.users.Add(ctx, u); err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return fmt.Errorf("%w: username or email is already registered", common.ErrValidation)
		}
		return err
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID, "username", u.Username)
	return nil
}

// Login authenticates against the local store, establishes the session and
// seeds the follow and directory caches. Unknown username and wrong
// password are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, username, password string) (*models.LocalUser, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	u, err := s.users.FindByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: incorrect username or password", common.ErrUnauthorized)
		}
		return nil, err
	}

	if err := s.Establish(ctx, u); err != nil {
		return nil, err
	}

	s.seed(ctx, u.ID)
	s.log.Info(ctx, "user logged in", "user_id", u.ID)
	return u, nil
}

// UpdateNowPlaying sets the authenticated user's current track. This is a
// local-only profile update.
func (s *SessionService) UpdateNowPlaying(ctx context.Context, track *models.Track) error {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil {
		return fmt.Errorf("%w: you must log in first", common.ErrUnauthorized)
	}

	updated := *current
	updated.NowPlaying = track
	updated.Password = ""
	if err := s.users.Update(ctx, &updated); err != nil {
		return fmt.Errorf("failed to update now playing: %w", err)
	}

	s.mu.Lock()
	// Only publish if the session did not change while we were writing.
	if s.current != nil && s.current.ID == updated.ID {
		s.current = &updated
	}
	s.mu.Unlock()
	return nil
}

// DeleteAccount removes the authenticated user from the local store and
// clears the session.
func (s *SessionService) DeleteAccount(ctx context.Context) error {
	current := s.CurrentUser()
	if current == nil {
		return fmt.Errorf("%w: you must log in first", common.ErrUnauthorized)
	}

	if err := s.users.Delete(ctx, current.ID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return s.Clear(ctx)
}

// DeleteAllUsers wipes every local account and clears the session.
func (s *SessionService) DeleteAllUsers(ctx context.Context) error {
	if err := s.users.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return s.Clear(ctx)
}
