// Package config wraps viper behind a small read-only accessor so that
// components never depend on the configuration source directly.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is a read-only view over a viper instance. The zero-value
// behaviour of viper applies: missing keys return zero values.
type Config struct {
	v *viper.Viper
}

// New wraps v. A nil v yields an empty configuration.
func New(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	return &Config{v: v}
}

func (c *Config) GetString(key string) string          { return c.v.GetString(key) }
func (c *Config) GetInt(key string) int                { return c.v.GetInt(key) }
func (c *Config) GetBool(key string) bool              { return c.v.GetBool(key) }
func (c *Config) GetFloat64(key string) float64        { return c.v.GetFloat64(key) }
func (c *Config) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *Config) GetStringSlice(key string) []string   { return c.v.GetStringSlice(key) }
func (c *Config) IsSet(key string) bool                { return c.v.IsSet(key) }

// Sub returns the subtree rooted at key. A missing key yields an empty
// Config rather than nil.
func (c *Config) Sub(key string) *Config {
	return New(c.v.Sub(key))
}

// Unmarshal decodes the whole configuration into rawVal using mapstructure
// tags.
func (c *Config) Unmarshal(rawVal any) error {
	return c.v.Unmarshal(rawVal)
}
