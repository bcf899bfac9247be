// Package config loads refit's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/refit/config.toml (falling back to
// ~/.config/refit/config.toml) and every key is optional:
//
//	[engine]
//	flow_margin = 0.05
//	collision_padding = 10.0
//
//	[cache]
//	backend = "file"   # file, redis or none
//	ttl = "168h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//	prefix = "refit:"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/refit/pkg/cache"
	errs "github.com/matzehuels/refit/pkg/errors"
	"github.com/matzehuels/refit/pkg/remap"
)

// AppName names the configuration directory.
const AppName = "refit"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// DefaultServerAddr is where `refit serve` listens unless configured.
const DefaultServerAddr = ":8080"

// Config is the full configuration file.
type Config struct {
	Engine remap.Options `toml:"engine"`
	Cache  Cache         `toml:"cache"`
	Server Server        `toml:"server"`
}

// Cache selects and tunes the payload cache.
type Cache struct {
	Backend string            `toml:"backend"`
	TTL     time.Duration     `toml:"ttl"`
	Redis   cache.RedisConfig `toml:"redis"`

	// Namespace scopes cache keys so deployments sharing one backend
	// never serve each other's payloads.
	Namespace string `toml:"namespace"`
}

// Server configures the HTTP front end.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Engine: remap.DefaultOptions(),
		Cache: Cache{
			Backend: BackendFile,
			TTL:     cache.TTLPayload,
			Redis:   cache.RedisConfig{Prefix: AppName + ":"},
		},
		Server: Server{Addr: DefaultServerAddr},
	}
}

// DefaultPath returns the XDG config file location.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads path over the defaults. A missing file yields the defaults;
// unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q (want %s, %s or %s)",
			c.Cache.Backend, BackendFile, BackendRedis, BackendNone)
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Server.Addr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	return nil
}
