package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. MOODTRACK_DATABASE_DSN.
const EnvPrefix = "MOODTRACK"

type envSource interface {
	GetString(key string) string
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// parseEnv overlays config with the environment variables that are set.
func parseEnv(config *Config, env envSource) error {
	setIfNotEmpty(&config.EndpointAddrGRPC, env.GetString("GRPC_ADDR"))
	setIfNotEmpty(&config.DatabaseDSN, env.GetString("DATABASE_DSN"))
	setIfNotEmpty(&config.SecretKey, env.GetString("SECRET_KEY"))
	setIfNotEmpty(&config.AMQPURL, env.GetString("AMQP_URL"))
	setIfNotEmpty(&config.AMQPExchange, env.GetString("AMQP_EXCHANGE"))
	setIfNotEmpty(&config.LogLevel, env.GetString("LOG_LEVEL"))

	if raw := env.GetString("ACCESS_TOKEN_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%w: %s_ACCESS_TOKEN_TTL: %w", ErrInvalidConfig, EnvPrefix, err)
		}
		config.AccessTokenValidityDuration = d
	}
	return nil
}
