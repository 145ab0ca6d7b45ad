package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/skillswap/internal/client/api"
	"github.com/dmitrijs2005/skillswap/internal/client/config"
	"github.com/dmitrijs2005/skillswap/internal/client/localdb"
	"github.com/dmitrijs2005/skillswap/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/skillswap/internal/client/stores"
	"github.com/dmitrijs2005/skillswap/internal/logging"
)

// App is the terminal consumer of the stores.
type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	session  *stores.SessionStore
	catalog  *stores.CatalogStore
	exchange *stores.ExchangeStore
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens the local database and wires the executor and stores.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := localdb.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	exec := api.NewHTTPExecutor(c.APIBaseURL, c.RequestTimeout,
		api.WithRateLimit(c.RateLimit),
		api.WithLogger(logger),
	)

	session := stores.NewSessionStore(exec, metadata.NewCredentialStore(db), logger)
	exec.SetCredentials(session)
	exec.OnUnauthorized(session.HandleUnauthorized)

	catalog := stores.NewCatalogStore(exec, logger)
	exchange := stores.NewExchangeStore(exec, session, catalog, logger)
	stores.ResetOnSignOut(session, catalog, exchange)

	a := newApp(session, catalog, exchange, bufio.NewReader(os.Stdin), os.Stdout)
	a.config = c
	a.logger = logger
	a.db = db
	return a, nil
}

func newApp(session *stores.SessionStore, catalog *stores.CatalogStore, exchange *stores.ExchangeStore, r *bufio.Reader, w io.Writer) *App {
	return &App{
		logger:   logging.NewNop(),
		session:  session,
		catalog:  catalog,
		exchange: exchange,
		reader:   r,
		out:      w,
	}
}

// Close releases the local database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Run restores the saved session and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// watchSession reports session loss the user did not ask for.
func (a *App) watchSession() (unsubscribe func()) {
	return a.session.Subscribe(func(ev stores.SessionEvent) {
		switch ev.Reason {
		case stores.ReasonUnauthorized:
			a.println("Your session is no longer valid. Please log in again.")
		case stores.ReasonExpired:
			a.println("Your saved session has expired. Please log in again.")
		}
	})
}
