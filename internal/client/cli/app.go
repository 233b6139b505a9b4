package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/avolkovs/sessionkeeper/internal/client/api"
	"github.com/avolkovs/sessionkeeper/internal/client/cache"
	"github.com/avolkovs/sessionkeeper/internal/client/config"
	"github.com/avolkovs/sessionkeeper/internal/client/localdb"
	"github.com/avolkovs/sessionkeeper/internal/client/repositories/kvstore"
	"github.com/avolkovs/sessionkeeper/internal/client/session"
	"github.com/avolkovs/sessionkeeper/internal/client/users"
	"github.com/avolkovs/sessionkeeper/internal/logging"
)

type App struct {
	config  *config.Config
	client  api.Client
	session *session.Manager
	users   users.Repository
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := localdb.Open(ctx, c.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing local database: %w", err)
	}

	store := kvstore.NewSQLiteStore(db)
	apiClient := api.NewHTTPClient(c.ResolveBaseURL())

	mgr := session.NewManager(apiClient, store, logger)
	repo := users.NewCachedRepository(apiClient, cache.New(store), c.CacheTTL)

	return &App{
		config:  c,
		client:  apiClient,
		session: mgr,
		users:   repo,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run restores a persisted session, subscribes to state transitions, and
// enters the command loop.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	unsubscribe := a.session.Subscribe(func(s session.State) {
		fmt.Fprintf(a.out, "[session: %s]\n", s)
	})
	defer unsubscribe()

	if err := a.session.Restore(ctx); err != nil {
		a.logger.Error(ctx, "session restore failed", "error", err)
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.Current()
	return ok
}
