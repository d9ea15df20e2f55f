package server

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/HerbHall/phonedex/internal/config"
)

// EnvPrefix is prepended to every environment override, e.g.
// PHONEDEX_SERVER_PORT for server.port.
const EnvPrefix = "PHONEDEX"

// LoadConfig builds the runtime configuration from defaults, an optional
// YAML file and PHONEDEX_* environment variables, in increasing priority.
// A .env file in the working directory is loaded into the environment
// first; variables already set are left alone.
func LoadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return config.New(v), nil
	}

	v.SetConfigName("phonedex")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/phonedex")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return config.New(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("database.path", "phonedex.db")
	v.SetDefault("catalog.path", "")
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("rate_limit.rps", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("log.development", false)
}
