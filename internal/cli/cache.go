package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyforge/pkg/cache"
	"github.com/matzehuels/storyforge/pkg/config"
)

// cacheCommand groups the artifact cache subcommands. They only act on the
// file backend; a shared Redis cache is managed on the server side.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered-artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	return cmd
}

// localCache opens the configured file cache, or returns nil after telling
// the user that the backend is not local.
func (c *CLI) localCache() (*cache.FileCache, error) {
	if c.cfg.Cache.Backend != config.CacheFile {
		printInfo("Cache backend is %q; nothing stored locally", c.cfg.Cache.Backend)
		return nil, nil
	}
	fc, err := cache.NewFileCache(c.cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return fc, nil
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.localCache()
			if fc == nil {
				return err
			}
			n, _, _ := fc.Stats()
			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess("Removed %d cached render(s)", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(c.cfg.Cache.Dir)
			return nil
		},
	}
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many renders are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.localCache()
			if fc == nil {
				return err
			}
			n, size, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue("Entries", fmt.Sprint(n))
			printKeyValue("Size", fmt.Sprintf("%.1f KiB", float64(size)/1024))
			printKeyValue("TTL", c.cfg.Cache.TTL.String())
			printKeyValue("Directory", fc.Dir())
			return nil
		},
	}
}
