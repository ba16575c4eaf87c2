package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/HassanMahra/HealthAppProject/internal/client/keychain"
	"github.com/HassanMahra/HealthAppProject/internal/filex"
)

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime settings for the moodctl CLI.
//
// An empty ServerEndpointAddr, or Offline, disables the profile service.
// An empty S3Bucket disables backups. An empty EncryptionKey stores records
// in plain JSON.
type Config struct {
	ConfigFile string

	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	Offline             bool

	StorageBackend string
	DatabasePath   string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string
	EncryptionKey  string

	KeychainService string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.StorageBackend = BackendSQLite
	c.DatabasePath = filepath.Join(filex.DefaultDataDir(), "moodtrack.db")
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "moodtrack:"
	c.KeychainService = keychain.DefaultService
	c.S3Region = "us-east-1"
	c.LogLevel = "warn"
}

// RemoteEnabled reports whether the profile service should be dialled.
func (c *Config) RemoteEnabled() bool {
	return !c.Offline && strings.TrimSpace(c.ServerEndpointAddr) != ""
}

// Validate checks the combinations the CLI cannot start with.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: database path is empty", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis address is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.StorageBackend)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("%w: online check interval must be positive", ErrInvalidConfig)
	}
	if c.KeychainService == "" {
		return fmt.Errorf("%w: keychain service is empty", ErrInvalidConfig)
	}
	return nil
}
