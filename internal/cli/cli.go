package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/storyforge/pkg/buildinfo"
	"github.com/matzehuels/storyforge/pkg/cache"
	"github.com/matzehuels/storyforge/pkg/catalog"
	"github.com/matzehuels/storyforge/pkg/config"
	"github.com/matzehuels/storyforge/pkg/editor"
	"github.com/matzehuels/storyforge/pkg/errors"
	"github.com/matzehuels/storyforge/pkg/render"
	"github.com/matzehuels/storyforge/pkg/render/nodelink"
	"github.com/matzehuels/storyforge/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "storyforge"
)

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

	// Verbose forces debug logging regardless of the configured level.
	Verbose bool

	configPath string
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
		Use:               appName,
		Short:             "Storyforge edits branching storylines",
		Long:              `Storyforge is a CLI tool for authoring branching game storylines: it validates, lays out, renders and edits storyline documents and serves them over HTTP.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/storyforge/config.toml)")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.eventCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.disconnectCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.pushCommand())
	root.AddCommand(c.pullCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	switch {
	case c.Verbose:
		c.SetLogLevel(LogDebug)
	case cfg.LogLevel != "":
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		c.SetLogLevel(level)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger.WithPrefix(cmd.Name())))
	return nil
}

// =============================================================================
// Collaborator Factories
// =============================================================================

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.New(ctx, c.cfg.Store, c.Logger)
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, c.cfg.Cache)
}

// loadCatalog reads the configured catalog, or returns an empty one when no
// catalog is configured.
func (c *CLI) loadCatalog() (*catalog.Catalog, error) {
	if c.cfg.Catalog == "" {
		return catalog.Empty(), nil
	}
	return catalog.Load(c.cfg.Catalog)
}

func (c *CLI) editorOptions() editor.Options {
	return editor.Options{Logger: c.Logger, Layout: c.cfg.Layout.Options()}
}

func (c *CLI) renderer(cc cache.Cache, detailed bool) render.Renderer {
	return render.Renderer{
		Cache: cc,
		Keyer: cache.NewScopedKeyer(nil, "storyforge@"+buildinfo.Get().Version+":"),
		TTL:   c.cfg.Cache.TTL,
		Options: nodelink.Options{
			NodeWidth:  c.cfg.Layout.NodeWidth,
			NodeHeight: c.cfg.Layout.NodeHeight,
			Detailed:   detailed,
		},
		Scale: 2,
	}
}

// =============================================================================
// Exit Codes
// =============================================================================

// ExitCode maps a command error to the process exit status. Scripts can tell
// bad input (2), missing storylines or events (3), refused edits and blocking
// validation issues (4) and backend failures (5) apart.
func ExitCode(err error) int {
	switch errors.GetCode(err).Class() {
	case errors.ClassInput:
		return 2
	case errors.ClassNotFound:
		return 3
	case errors.ClassConflict, errors.ClassRejected:
		return 4
	case errors.ClassUnavailable:
		return 5
	}
	return 1
}
