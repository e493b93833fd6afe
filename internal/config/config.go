// Package config wraps viper behind a small read-only interface and loads
// Roster settings from defaults, an optional YAML file, and ROSTER_* env vars.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. ROSTER_SERVER_PORT.
const EnvPrefix = "ROSTER"

// Config is read-only access to a configuration tree.
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	IsSet(key string) bool
	Sub(key string) Config
	Unmarshal(target any) error
}

// ViperConfig adapts *viper.Viper to Config.
type ViperConfig struct {
	v *viper.Viper
}

var _ Config = (*ViperConfig)(nil)

// New wraps v. A nil viper yields an empty configuration.
func New(v *viper.Viper) *ViperConfig {
	if v == nil {
		v = viper.New()
	}
	return &ViperConfig{v: v}
}

func (c *ViperConfig) GetString(key string) string          { return c.v.GetString(key) }
func (c *ViperConfig) GetInt(key string) int                { return c.v.GetInt(key) }
func (c *ViperConfig) GetBool(key string) bool              { return c.v.GetBool(key) }
func (c *ViperConfig) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *ViperConfig) IsSet(key string) bool                { return c.v.IsSet(key) }

// Sub returns the subtree at key, or an empty Config if the key is absent.
// viper keeps the parent path and env prefix on the subtree, so
// ROSTER_SOURCE_KIND is "kind" in Sub("source").
func (c *ViperConfig) Sub(key string) Config {
	return New(c.v.Sub(key))
}

// Unmarshal decodes the whole tree into target using mapstructure tags.
func (c *ViperConfig) Unmarshal(target any) error {
	return c.v.Unmarshal(target)
}

// Defaults applied before the config file and environment.
var defaults = map[string]any{
	"server.host":     "0.0.0.0",
	"server.port":     "8080",
	"source.kind":     "http",
	"source.url":      "https://rawcdn.githack.com/akabab/superhero-api/0.2.0/api/all.json",
	"source.path":     "",
	"source.timeout":  "30s",
	"store.path":      "roster.db",
	"cache.size":      256,
	"ratelimit.rps":   20.0,
	"ratelimit.burst": 40,
	"log.development": false,
	"web.title":       "Superhero Roster",
}

// Load builds a Config from defaults, the YAML file at path, and ROSTER_*
// environment variables, in increasing precedence. An empty path skips the
// file; a named file that cannot be read is an error.
func Load(path string) (*ViperConfig, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	cfg := New(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	return cfg, nil
}
