// Package config loads storyforge settings.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/storyforge/config.toml
//  3. STORYFORGE_* environment variables
//
// Command-line flags are applied on top by the CLI. A missing default config
// file is not an error; a missing file that was named explicitly is.
//
// Example file:
//
//	catalog = "catalog.toml"
//
//	[store]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[layout]
//	node_width = 200
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/storyforge/pkg/errors"
	"github.com/matzehuels/storyforge/pkg/story/layout"
)

const (
	// appName is used for directories.
	appName = "storyforge"

	// EnvPrefix prefixes every environment variable.
	EnvPrefix = "STORYFORGE_"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the full configuration.
type Config struct {
	// Catalog is the path of the enemy/skill/trait catalog file.
	Catalog  string `toml:"catalog" env:"CATALOG"`
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`

	Store  Store  `toml:"store" envPrefix:"STORE_"`
	Cache  Cache  `toml:"cache" envPrefix:"CACHE_"`
	Server Server `toml:"server" envPrefix:"SERVER_"`
	Layout Layout `toml:"layout" envPrefix:"LAYOUT_"`
}

// Store selects and configures the storyline store.
type Store struct {
	Backend string `toml:"backend" env:"BACKEND"`

	// Dir is the document directory of the file backend.
	Dir string `toml:"dir" env:"DIR"`

	RedisURL    string `toml:"redis_url" env:"REDIS_URL"`
	RedisPrefix string `toml:"redis_prefix" env:"REDIS_PREFIX"`

	MongoURI        string `toml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase   string `toml:"mongo_database" env:"MONGO_DATABASE"`
	MongoCollection string `toml:"mongo_collection" env:"MONGO_COLLECTION"`

	// Timeout bounds connecting to a remote backend.
	Timeout time.Duration `toml:"timeout" env:"TIMEOUT"`
}

// Cache configures the rendered-artifact cache.
type Cache struct {
	Backend  string        `toml:"backend" env:"BACKEND"`
	Dir      string        `toml:"dir" env:"DIR"`
	RedisURL string        `toml:"redis_url" env:"REDIS_URL"`
	TTL      time.Duration `toml:"ttl" env:"TTL"`
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `toml:"addr" env:"ADDR"`
	ReadTimeout     time.Duration `toml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `toml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Layout overrides the diagram geometry.
type Layout struct {
	MarginX       int `toml:"margin_x" env:"MARGIN_X"`
	MarginY       int `toml:"margin_y" env:"MARGIN_Y"`
	NodeWidth     int `toml:"node_width" env:"NODE_WIDTH"`
	NodeHeight    int `toml:"node_height" env:"NODE_HEIGHT"`
	GapX          int `toml:"gap_x" env:"GAP_X"`
	GapY          int `toml:"gap_y" env:"GAP_Y"`
	OrphanColumns int `toml:"orphan_columns" env:"ORPHAN_COLUMNS"`
}

// Options converts the layout section to layout options.
func (l Layout) Options() layout.Options {
	return layout.Options{
		MarginX:       l.MarginX,
		MarginY:       l.MarginY,
		NodeWidth:     l.NodeWidth,
		NodeHeight:    l.NodeHeight,
		GapX:          l.GapX,
		GapY:          l.GapY,
		OrphanColumns: l.OrphanColumns,
	}
}

// Default returns the built-in configuration. Directory defaults follow the
// XDG base directory layout and are left empty when no home directory can be
// found.
func Default() Config {
	d := layout.DefaultOptions()
	dataDir, _ := DataDir()
	cacheDir, _ := CacheDir()
	return Config{
		LogLevel: "info",
		Store: Store{
			Backend:         BackendFile,
			Dir:             dataDir,
			RedisPrefix:     "storyline:",
			MongoDatabase:   appName,
			MongoCollection: "storylines",
			Timeout:         10 * time.Second,
		},
		Cache: Cache{
			Backend: CacheFile,
			Dir:     cacheDir,
			TTL:     7 * 24 * time.Hour,
		},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Layout: Layout{
			MarginX:       d.MarginX,
			MarginY:       d.MarginY,
			NodeWidth:     d.NodeWidth,
			NodeHeight:    d.NodeHeight,
			GapX:          d.GapX,
			GapY:          d.GapY,
			OrphanColumns: d.OrphanColumns,
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path and the
// environment. An empty path means [DefaultPath], which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path, _ = DefaultPath()
	}
	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// Validate checks backend names and the settings each backend needs.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Dir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.dir is required for the file backend")
		}
	case BackendRedis:
		if err := errors.ValidateURI(c.Store.RedisURL, "redis", "rediss"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store.redis_url")
		}
	case BackendMongo:
		if err := errors.ValidateURI(c.Store.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "store.mongo_uri")
		}
		if c.Store.MongoDatabase == "" || c.Store.MongoCollection == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_database and store.mongo_collection are required")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want %s, %s, %s or %s)",
			c.Store.Backend, BackendMemory, BackendFile, BackendRedis, BackendMongo)
	}

	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis {
		if err := errors.ValidateURI(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.redis_url")
		}
	}

	if c.Layout.NodeWidth < 0 || c.Layout.NodeHeight < 0 || c.Layout.OrphanColumns < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout sizes must not be negative")
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the config file path ($XDG_CONFIG_HOME/storyforge/config.toml).
func DefaultPath() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/storyforge/).
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns the storyline directory of the file store
// (~/.local/share/storyforge/storylines/).
func DataDir() (string, error) {
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "storylines"), nil
}

func xdgDir(envVar, fallback string) (string, error) {
	if base := os.Getenv(envVar); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
