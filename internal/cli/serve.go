package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyforge/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP editing API",
		Long: `Run the HTTP editing API.

Storylines are loaded from and saved to the configured store. Rendered
images go through the configured cache. The server stops gracefully on
SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	cc, err := c.openCache(ctx, false)
	if err != nil {
		return err
	}
	defer cc.Close()

	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Store:    st,
		Catalog:  cat,
		Renderer: c.renderer(cc, false),
		Layout:   c.cfg.Layout.Options(),
		Logger:   c.Logger.With("component", "server"),
		Config:   c.cfg.Server,
	})
	printInfo("Serving on %s (store: %s)", StyleHighlight.Render(c.cfg.Server.Addr), c.cfg.Store.Backend)
	return srv.Run(ctx)
}
