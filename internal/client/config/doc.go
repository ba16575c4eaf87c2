// Package config loads runtime configuration for the moodctl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config / -c.
//  3. Command-line flags explicitly set on the root command.
//
// BindFlags registers the flags on a pflag.FlagSet; after cobra has parsed the
// command line, Resolve merges the three sources and validates the result.
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds. Absent keys keep their default:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "offline": false,
//	  "database_path": "/home/me/.moodtrack/moodtrack.db",
//	  "storage_backend": "sqlite",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_db": 0,
//	  "redis_prefix": "moodtrack:",
//	  "encryption_key": "<64 hex chars>",
//	  "keychain_service": "HealthApp",
//	  "s3_bucket": "moods",
//	  "s3_region": "us-east-1",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "log_level": "warn"
//	}
//
// Secrets (redis password, S3 keys) may also be given in the file; flags for
// them exist but leak into shell history.
package config
