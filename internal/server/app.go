// Package server initializes and runs the collaboration backend: database
// and object storage wiring, the HTTP API, the session ledger with its
// periodic pruning, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/collabpack/internal/filex"
	"github.com/dmitrijs2005/collabpack/internal/logging"
	"github.com/dmitrijs2005/collabpack/internal/server/auth"
	"github.com/dmitrijs2005/collabpack/internal/server/config"
	"github.com/dmitrijs2005/collabpack/internal/server/httpapi"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/collabpack/internal/server/services"
	"github.com/dmitrijs2005/collabpack/internal/server/sessionlog"
	"github.com/dmitrijs2005/collabpack/internal/server/storage"
)

// sessionPruneInterval is how often expired ledger entries are swept.
const sessionPruneInterval = time.Hour

type App struct {
	config   *config.Config
	logger   logging.Logger
	api      *httpapi.Server
	sessions *sessionlog.Ledger
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	m, err := repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db := m.Conn()

	store, err := storage.NewS3Store(context.Background(), c)
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	if _, err := filex.EnsureSubDir(filepath.Dir(c.SessionLedgerPath)); err != nil {
		return nil, fmt.Errorf("session ledger dir error: %w", err)
	}
	sessions := sessionlog.New(c.SessionLedgerPath, logger)

	codec := auth.NewCodec([]byte(c.SecretKey), c.JWTIssuer, c.JWTSubject, c.JWTAudience, c.TokenValidityDuration)
	verifier := auth.NewVerifier(codec, m.Accounts(db))

	accountSvc := services.NewAccountService(db, m, codec, verifier, sessions, logger)
	channelSvc := services.NewChannelService(db, m, verifier)
	projectSvc := services.NewProjectService(db, m, verifier)
	uploadSvc := services.NewUploadService(db, m, verifier, store, c, logger)

	api := httpapi.NewServer(accountSvc, channelSvc, projectSvc, uploadSvc, logger)

	return &App{config: c, logger: logger, api: api, sessions: sessions}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startSessionPruner periodically drops ledger entries older than the token
// validity window, so the ledger cannot accumulate sessions whose tokens can
// no longer pass verification.
func (app *App) startSessionPruner(ctx context.Context) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := app.sessions.PruneExpired(ctx, app.config.TokenValidityDuration); err != nil {
				app.logger.Error(ctx, "session prune failed", "error", err)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startSessionPruner(ctx)
	}()

	wg.Wait()
}
