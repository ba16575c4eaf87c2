package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/HassanMahra/HealthAppProject/internal/flagx"
	"github.com/HassanMahra/HealthAppProject/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// "15m" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC            string          `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	AMQPURL                     string          `json:"amqp_url"`
	AMQPExchange                string          `json:"amqp_exchange"`
	LogLevel                    string          `json:"log_level"`
}

// parseJson overlays config with the file named by -c / -config in args.
// Keys missing from the file leave the current values alone.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIfNotEmpty(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setIfNotEmpty(&config.AMQPURL, c.AMQPURL)
	setIfNotEmpty(&config.AMQPExchange, c.AMQPExchange)
	setIfNotEmpty(&config.LogLevel, c.LogLevel)
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
