// Package config loads bundlephobia-compare settings from a TOML file.
//
// The default location follows the XDG base directory convention:
//
//	$XDG_CONFIG_HOME/bundlephobia-compare/config.toml
//	~/.config/bundlephobia-compare/config.toml
//
// A missing file at the default location yields [Default]. Durations are
// written as strings:
//
//	api_url = "https://bundlephobia.com"
//	default_query = "react+react-dom,preact,inferno"
//	concurrency = 6
//	timeout = "10s"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	log_file = "/var/log/bundlephobia-compare.log"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/jamiebuilds/bundlephobia-compare/pkg/errors"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/query"
)

// AppName names the config and cache directories.
const AppName = "bundlephobia-compare"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

var backends = []string{BackendFile, BackendRedis, BackendMongo, BackendNone}

// Duration is a time.Duration written as a string such as "90s" or "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds every file-configurable setting.
type Config struct {
	APIURL       string       `toml:"api_url"`
	DefaultQuery string       `toml:"default_query"`
	Concurrency  int          `toml:"concurrency"`
	Timeout      Duration     `toml:"timeout"`
	Cache        CacheConfig  `toml:"cache"`
	Server       ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the HTTP response cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	TTL           Duration `toml:"ttl"`
	Dir           string   `toml:"dir"` // file backend; empty uses the XDG cache dir
	RedisURL      string   `toml:"redis_url"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
	KeyPrefix     string   `toml:"key_prefix"` // scopes keys in a shared redis or mongo backend
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	LogFile string `toml:"log_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:       "https://bundlephobia.com",
		DefaultQuery: query.DefaultQuery,
		Concurrency:  6,
		Timeout:      Duration{10 * time.Second},
		Cache: CacheConfig{
			Backend:       BackendFile,
			TTL:           Duration{24 * time.Hour},
			MongoDatabase: "bundlephobia_compare",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads the config file at path on top of [Default]. An empty path
// selects [Path], where a missing file is not an error; an explicit path
// must exist. Unknown keys and invalid values fail with INVALID_CONFIG.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and backend requirements.
func (c Config) Validate() error {
	if err := apperrors.ValidateURL(c.APIURL); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "api_url")
	}
	if c.Concurrency < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Timeout.Duration <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "timeout must be positive")
	}
	if c.Cache.TTL.Duration < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	switch c.Cache.Backend {
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "cache.mongo_uri is required for the mongo backend")
		}
	default:
		if !slices.Contains(backends, c.Cache.Backend) {
			return apperrors.New(apperrors.ErrCodeInvalidConfig,
				"unknown cache backend %q (must be one of %s)", c.Cache.Backend, strings.Join(backends, ", "))
		}
	}
	return nil
}
