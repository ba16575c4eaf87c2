package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/HassanMahra/HealthAppProject/internal/client/backup"
	"github.com/HassanMahra/HealthAppProject/internal/client/client"
	"github.com/HassanMahra/HealthAppProject/internal/client/config"
	"github.com/HassanMahra/HealthAppProject/internal/client/keychain"
	"github.com/HassanMahra/HealthAppProject/internal/client/records"
	"github.com/HassanMahra/HealthAppProject/internal/client/services"
	"github.com/HassanMahra/HealthAppProject/internal/client/storage"
	"github.com/HassanMahra/HealthAppProject/internal/filex"
	"github.com/HassanMahra/HealthAppProject/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
	// ModeLocal means no profile service is configured.
	ModeLocal Mode = "local"
)

const pingTimeout = 3 * time.Second

type App struct {
	config *config.Config
	auth   services.AuthService
	moods  services.MoodService
	log    logging.Logger

	closers []io.Closer

	reader *bufio.Reader
	out    io.Writer

	mu   sync.RWMutex
	mode Mode
}

// NewApp opens the record store and connects the optional remote pieces
// described by c.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	kv, closer, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}
	closers := []io.Closer{closer}

	recs := records.New(kv, logger)
	kc := keychain.New(kv, c.KeychainService)

	var remote client.Client
	if c.RemoteEnabled() {
		gc, err := client.NewGRPCClient(c.ServerEndpointAddr)
		if err != nil {
			_ = closer.Close()
			return nil, fmt.Errorf("profile service client: %w", err)
		}
		remote = gc
	}

	var uploader services.Uploader
	if c.S3Bucket != "" {
		u, err := backup.NewS3Uploader(ctx, backup.Settings{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3Endpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
		if err != nil {
			logger.Warn(ctx, "backups disabled", "error", err)
		} else {
			uploader = u
		}
	}

	auth := services.NewAuthService(recs, kc, remote, logger)
	moods := services.NewMoodService(recs.Moods, uploader, logger)

	a := newApp(c, auth, moods, logger, os.Stdin, os.Stdout)
	a.closers = closers
	if remote == nil {
		a.mode = ModeLocal
	}
	return a, nil
}

func newApp(c *config.Config, auth services.AuthService, moods services.MoodService, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		auth:   auth,
		moods:  moods,
		log:    logger,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// openStore returns the configured key-value backend, wrapped for
// encryption at rest when a key is set, and the closer of the raw backend.
func openStore(ctx context.Context, c *config.Config) (storage.Store, io.Closer, error) {
	var (
		kv     storage.Store
		closer io.Closer
	)

	switch c.StorageBackend {
	case config.BackendRedis:
		rs, err := storage.OpenRedis(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB, c.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		kv, closer = rs, rs
	default:
		if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		ss, err := storage.OpenSQLite(ctx, c.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		kv, closer = ss, ss
	}

	if c.EncryptionKey == "" {
		return kv, closer, nil
	}
	key, err := storage.ParseKey(c.EncryptionKey)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	enc, err := storage.NewEncryptedStore(kv, key)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return enc, closer, nil
}

// Close releases the profile service connection and the record store.
func (a *App) Close() error {
	errs := []error{a.auth.Close()}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.auth.CurrentUser(ctx) != nil
}

// checkOnline pings the profile service once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.auth.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher re-checks reachability every interval until ctx
// is cancelled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
