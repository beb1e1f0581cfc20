// Package server wires the assignhub backend together: database, object
// storage, cache, event publisher and the HTTP API. It also runs the
// background deadline sweep and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/assignhub/internal/catalog"
	"github.com/dmitrijs2005/assignhub/internal/logging"
	"github.com/dmitrijs2005/assignhub/internal/server/cache"
	"github.com/dmitrijs2005/assignhub/internal/server/config"
	"github.com/dmitrijs2005/assignhub/internal/server/events"
	"github.com/dmitrijs2005/assignhub/internal/server/httpapi"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/assignhub/internal/server/services"
	"github.com/dmitrijs2005/assignhub/internal/server/storage"

	"github.com/ThreeDotsLabs/watermill/message"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// sweeper is the part of the assignment service the deadline sweep needs.
type sweeper interface {
	MarkOverdue(ctx context.Context) (int, error)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	server      *httpapi.Server
	assignments sweeper
	subscriber  message.Subscriber
	closers     []func() error
}

// NewApp opens every backing service named in c and builds the HTTP server.
// Resources opened before a failure are released.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (_ *App, err error) {
	app := &App{config: c, logger: logger}
	defer func() {
		if err != nil {
			app.close(ctx)
		}
	}()

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db.Close)

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	cat := catalog.Default()
	if c.CatalogFile != "" {
		if cat, err = catalog.LoadFile(c.CatalogFile); err != nil {
			return nil, err
		}
	}

	var ch cache.Cache = cache.Nop{}
	if c.RedisAddr != "" {
		client, err := cache.Dial(ctx, c.RedisAddr)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, client.Close)
		ch = cache.NewRedisCache(client, "assignhub:")
	}

	pub, local, err := events.NewPublisher(c.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, pub.Close)
	if local != nil {
		app.subscriber = local
	}

	settings := services.NewSettingsService(db, rm)
	users := services.NewUserService(db, rm, settings, cat, c, logger)
	assignments := services.NewAssignmentService(db, rm, storage.NewS3Storage(c), ch, c.CacheTTL, pub, cat, logger)
	reports := services.NewReportService(db, rm)

	app.assignments = assignments
	app.server = httpapi.NewServer(c, logger, users, assignments, settings, reports)
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
		cancelFunc()
	}
}

// runDeadlineSweep marks accepted work whose deadline has passed as due,
// once per interval until ctx is done.
func (app *App) runDeadlineSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.assignments.MarkOverdue(ctx)
			if err != nil {
				app.logger.Error(ctx, "deadline sweep failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "deadline sweep", "marked_due", n)
			}
		}
	}
}

func (app *App) consumeEvents(ctx context.Context) {
	if app.subscriber == nil {
		return
	}
	if err := events.Consume(ctx, app.subscriber, app.logger, events.LogNotifications(app.logger)); err != nil {
		app.logger.Error(ctx, "event consumer stopped", "error", err)
	}
}

func (app *App) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn(ctx, "close failed", "error", err)
		}
	}
	app.closers = nil
}

// Run blocks until a termination signal arrives or the HTTP server fails,
// then waits for the background workers and releases resources.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.ListenAddr)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.runDeadlineSweep(ctx, app.config.DeadlineSweepInterval)
	}()
	go func() {
		defer wg.Done()
		app.consumeEvents(ctx)
	}()

	wg.Wait()

	app.close(context.Background())
	app.logger.Info(context.Background(), "App stopped")
}
