package config

import (
	"github.com/spf13/pflag"
)

// overrides copies one flag-bound field from src to dst, keyed by flag name.
var overrides = map[string]func(dst, src *Config){
	"server":           func(d, s *Config) { d.ServerEndpointAddr = s.ServerEndpointAddr },
	"check-interval":   func(d, s *Config) { d.OnlineCheckInterval = s.OnlineCheckInterval },
	"offline":          func(d, s *Config) { d.Offline = s.Offline },
	"storage":          func(d, s *Config) { d.StorageBackend = s.StorageBackend },
	"db":               func(d, s *Config) { d.DatabasePath = s.DatabasePath },
	"redis-addr":       func(d, s *Config) { d.RedisAddr = s.RedisAddr },
	"redis-password":   func(d, s *Config) { d.RedisPassword = s.RedisPassword },
	"redis-db":         func(d, s *Config) { d.RedisDB = s.RedisDB },
	"redis-prefix":     func(d, s *Config) { d.RedisPrefix = s.RedisPrefix },
	"encryption-key":   func(d, s *Config) { d.EncryptionKey = s.EncryptionKey },
	"keychain-service": func(d, s *Config) { d.KeychainService = s.KeychainService },
	"s3-bucket":        func(d, s *Config) { d.S3Bucket = s.S3Bucket },
	"s3-region":        func(d, s *Config) { d.S3Region = s.S3Region },
	"s3-endpoint":      func(d, s *Config) { d.S3Endpoint = s.S3Endpoint },
	"s3-access-key":    func(d, s *Config) { d.S3AccessKey = s.S3AccessKey },
	"s3-secret-key":    func(d, s *Config) { d.S3SecretKey = s.S3SecretKey },
	"log-level":        func(d, s *Config) { d.LogLevel = s.LogLevel },
}

// BindFlags registers the configuration flags on fs and returns the Config
// they are bound to. The returned value is only meaningful after parsing and
// should be passed to Resolve.
func BindFlags(fs *pflag.FlagSet) *Config {
	c := &Config{}
	c.LoadDefaults()

	fs.StringVarP(&c.ConfigFile, "config", "c", "", "path to a JSON config file")
	fs.StringVarP(&c.ServerEndpointAddr, "server", "a", c.ServerEndpointAddr, "address and port of the profile service")
	fs.DurationVarP(&c.OnlineCheckInterval, "check-interval", "i", c.OnlineCheckInterval, "online status check interval")
	fs.BoolVar(&c.Offline, "offline", c.Offline, "never contact the profile service")
	fs.StringVar(&c.StorageBackend, "storage", c.StorageBackend, "record storage backend (sqlite|redis)")
	fs.StringVar(&c.DatabasePath, "db", c.DatabasePath, "sqlite database path")
	fs.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "redis address")
	fs.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "redis password")
	fs.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "redis database number")
	fs.StringVar(&c.RedisPrefix, "redis-prefix", c.RedisPrefix, "prefix for redis keys")
	fs.StringVar(&c.EncryptionKey, "encryption-key", c.EncryptionKey, "hex AES-256 key for encrypting stored records")
	fs.StringVar(&c.KeychainService, "keychain-service", c.KeychainService, "keychain service name")
	fs.StringVar(&c.S3Bucket, "s3-bucket", c.S3Bucket, "bucket for mood backups")
	fs.StringVar(&c.S3Region, "s3-region", c.S3Region, "region of the backup bucket")
	fs.StringVar(&c.S3Endpoint, "s3-endpoint", c.S3Endpoint, "custom S3 endpoint (e.g. MinIO)")
	fs.StringVar(&c.S3AccessKey, "s3-access-key", c.S3AccessKey, "S3 access key")
	fs.StringVar(&c.S3SecretKey, "s3-secret-key", c.S3SecretKey, "S3 secret key")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug|info|warn|error)")

	return c
}

// Resolve builds the effective Config: defaults, then the JSON file named by
// --config, then every flag explicitly set on fs.
func Resolve(fs *pflag.FlagSet, flagged *Config) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.ConfigFile = flagged.ConfigFile

	if cfg.ConfigFile != "" {
		if err := loadJSON(cfg.ConfigFile, cfg); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply(cfg, flagged)
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
