package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"nearwave/internal/client/client"
	"nearwave/internal/client/config"
	"nearwave/internal/client/models"
	"nearwave/internal/client/repositories/session"
	"nearwave/internal/client/repositories/users"
	"nearwave/internal/client/services"
	"nearwave/internal/logging"
)

// sessionService, discoveryService and followService describe the slices of
// the service layer the CLI actually touches. The real services satisfy
// them; tests provide lightweight stubs.
type sessionService interface {
	Restore(ctx context.Context) error
	Register(ctx context.Context, u *models.LocalUser) error
	Login(ctx context.Context, username, password string) (*models.LocalUser, error)
	Clear(ctx context.Context) error
	UpdateNowPlaying(ctx context.Context, track *models.Track) error
	DeleteAccount(ctx context.Context) error
	CurrentUser() *models.LocalUser
	State() services.State
}

type discoveryService interface {
	Scan(ctx context.Context, maxDistance int) error
	Snapshot() services.DirectorySnapshot
	Resolve(id string) (models.RemoteUser, bool)
}

type followService interface {
	Toggle(ctx context.Context, targetID string) error
	Outgoing() map[string]models.FollowEdge
	IsFollowing(id string) bool
	RefreshGlobal(ctx context.Context) error
	FollowersOf(userID string) map[string]struct{}
	FollowingOf(userID string) map[string]struct{}
}

// App is the interactive client: it owns the database handle and the three
// services, and exposes one method per REPL command.
type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	sess    sessionService
	disc    discoveryService
	follows followService
	reader  *bufio.Reader
}

// NewApp opens the local database, builds the HTTP client for the directory
// service and wires the service layer.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := client.OpenDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	api := client.NewHTTPClient(cfg.ServerBaseURL, cfg.HTTPTimeout)
	sess, disc, fol := services.NewServices(
		api,
		users.NewSQLiteRepository(db),
		session.NewSQLiteRepository(db),
		log,
		cfg.DefaultScanRadius,
	)

	return &App{
		config:  cfg,
		log:     log,
		db:      db,
		sess:    sess,
		disc:    disc,
		follows: fol,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.db.Close()
}

// Run restores the persisted session and enters the REPL. It blocks until
// the user exits.
func (a *App) Run(ctx context.Context) {
	if err := a.sess.Restore(ctx); err != nil {
		a.log.Warn(ctx, "session restore failed", "err", err)
	}
	if u := a.sess.CurrentUser(); u != nil {
		fmt.Printf("Welcome back, %s!\n", u.FirstName)
	}

	fmt.Println("nearwave CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) getStatus() string {
	if u := a.sess.CurrentUser(); u != nil {
		return fmt.Sprintf("(%s)", u.Username)
	}
	return ""
}

func (a *App) isLoggedIn() bool {
	return a.sess.CurrentUser() != nil
}
