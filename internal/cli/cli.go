// Package cli implements the bundlephobia-compare command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jamiebuilds/bundlephobia-compare/pkg/buildinfo"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/cache"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/config"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/integrations/bundlephobia"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Compare the bundle sizes of npm packages",
		Long: `bundlephobia-compare ranks npm packages, or groups of packages installed
together, by their minified and gzipped size as measured by bundlephobia.

Queries are lists of groups separated by spaces or commas; packages inside a
group are joined with "+":

  bundlephobia-compare compare react+react-dom preact inferno`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/"+appName+"/config.toml)")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the HTTP response cache")

	root.AddCommand(c.compareCommand())
	root.AddCommand(c.interactiveCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient creates a bundlephobia client backed by the configured cache.
// The returned function closes the cache.
func (c *CLI) newClient(ctx context.Context) (*bundlephobia.Client, func(), error) {
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	client := bundlephobia.NewClient(store, c.cfg.APIURL, c.cfg.Cache.TTL.Duration, c.cfg.Timeout.Duration)
	if prefix := c.cfg.Cache.KeyPrefix; prefix != "" {
		client.SetKeyer(cache.NewScopedKeyer(nil, prefix))
	}
	return client, func() { store.Close() }, nil
}

// newCache opens the backend selected by the config file. --no-cache wins
// over any backend.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}

	cc := c.cfg.Cache
	switch cc.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cc.RedisURL)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "url", cc.RedisURL)
		return rc, nil
	case config.BackendMongo:
		mc, err := cache.NewMongoCache(ctx, cc.MongoURI, cc.MongoDatabase, cache.DefaultMongoCollection)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using mongo cache", "database", cc.MongoDatabase)
		return mc, nil
	default:
		fc, err := c.fileCache()
		if err != nil {
			c.Logger.Warn("file cache unavailable, continuing without cache", "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

func (c *CLI) fileCache() (*cache.FileCache, error) {
	dir := c.cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return nil, err
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bundlephobia-compare/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
