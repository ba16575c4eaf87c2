// Package server wires the profile service together: PostgreSQL storage and
// migrations, the optional AMQP event publisher, the services and the gRPC
// endpoint. It also handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/HassanMahra/HealthAppProject/internal/logging"
	"github.com/HassanMahra/HealthAppProject/internal/server/config"
	"github.com/HassanMahra/HealthAppProject/internal/server/events"
	"github.com/HassanMahra/HealthAppProject/internal/server/repositories/repomanager"
	"github.com/HassanMahra/HealthAppProject/internal/server/services"

	gs "github.com/HassanMahra/HealthAppProject/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	publisher events.Publisher
	server    *gs.GRPCServer
}

// seams for tests
var (
	openDB         = repomanager.OpenPostgres
	newRepoManager = repomanager.NewPostgresRepositoryManager
	dialAMQP       = func(url, exchange string) (events.Publisher, error) {
		p, err := events.DialAMQP(url, exchange)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
)

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	publisher := events.NewNoop()
	if cfg.AMQPURL != "" {
		p, err := dialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Warn(ctx, "event publishing disabled", "error", err)
		} else {
			publisher = p
		}
	}

	us := services.NewUserService(db, rm, cfg, logger)
	ps := services.NewProfileService(db, rm, publisher, logger)

	return &App{
		config:    cfg,
		logger:    logger,
		db:        db,
		publisher: publisher,
		server:    gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, us, ps, cfg.SecretKey),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the database and broker connections.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	stopSignals := app.initSignalHandler(cancelFunc)
	defer stopSignals()

	app.logger.Info(ctx, "Starting app...")

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
	}
	return errors.Join(err, app.Close())
}

func (app *App) Close() error {
	return errors.Join(app.publisher.Close(), app.db.Close())
}
