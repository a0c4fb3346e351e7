package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gamehub/internal/client/client"
	"github.com/dmitrijs2005/gamehub/internal/client/config"
	"github.com/dmitrijs2005/gamehub/internal/client/flow"
	"github.com/dmitrijs2005/gamehub/internal/client/services"
	"github.com/dmitrijs2005/gamehub/internal/client/session"
	"github.com/dmitrijs2005/gamehub/internal/logging"
)

// sleepFn is a test seam for the success acknowledgment pause.
var sleepFn = time.Sleep

type App struct {
	config *config.Config
	db     *sql.DB
	store  *session.SQLiteStore
	prefs  *session.Preferences
	flow   *flow.Coordinator
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database, restores any saved session and connects
// the flow to the backend at c.ServerURL.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	store := session.NewSQLiteStore(db, logger)

	api, err := client.NewRESTClient(c.ServerURL, store,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sink, err := newExportSink(c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a, err := newApp(ctx, c, db, store, api, sink, logger, os.Stdin, os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, store *session.SQLiteStore, api client.Client,
	sink services.ExportSink, logger logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	if err := store.Load(ctx); err != nil {
		return nil, err
	}

	a := &App{
		config: c,
		db:     db,
		store:  store,
		prefs:  session.NewPreferences(db),
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}
	a.flow = flow.NewCoordinator(api, store, sink,
		flow.WithLogger(logger),
		flow.WithChallengeOptions(services.WithResendNoticeInterval(c.ResendNoticeInterval)),
		flow.WithStateListener(a.stateChanged),
	)
	a.flow.Start(ctx)
	return a, nil
}

func newExportSink(c *config.Config) (services.ExportSink, error) {
	if c.S3Bucket == "" {
		return services.NewFileSink(c.ExportDir), nil
	}
	sink, err := services.NewS3Sink(services.S3Options{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Prefix:       "exports/",
	})
	if err != nil {
		return nil, err
	}
	return sink, nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) stateChanged(from, to flow.State) {
	a.logger.Debug(context.Background(), "state changed", "from", from, "to", to)
	if to == flow.Credentials && (from == flow.Authenticated || from == flow.Deactivated) {
		a.println("You have been signed out.")
	}
}

// state returns the flow state after making sure a signed-in state still has
// a session behind it.
func (a *App) state() flow.State {
	return a.flow.Guard(context.Background())
}

func (a *App) status() string {
	switch st := a.state(); st {
	case flow.Verifying:
		if p := a.flow.Pending(); p != nil {
			return "verifying " + p.Email
		}
		return st.String()
	case flow.Authenticated, flow.Deactivated:
		s, err := a.store.Get(context.Background())
		if err != nil {
			return "guest"
		}
		if st == flow.Deactivated {
			return s.User.DisplayName() + " (deactivated)"
		}
		return s.User.DisplayName()
	default:
		return "guest"
	}
}

// Run starts the profile refresher and blocks in the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartProfileRefresher(ctx, a.config.ProfileRefreshInterval)

	printlnFn("GameHub client (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

// StartProfileRefresher periodically reconciles the signed-in profile with
// the backend until ctx is done. Failures are only logged.
func (a *App) StartProfileRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.refreshOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) refreshOnce(ctx context.Context) {
	rctx := ctx
	if a.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
	}
	err := a.flow.Refresh(rctx)
	switch {
	case err == nil:
	case client.IsNetworkError(err):
		a.logger.Debug(ctx, "profile refresh skipped, backend unreachable", "error", err)
	default:
		a.logger.Warn(ctx, "profile refresh failed", "error", err)
	}
}
