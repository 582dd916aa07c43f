package cli

import (
	"fmt"

	"github.com/ppiankov/newslens/internal/cache"
	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [news|llm]",
	Short: "Delete cached responses",
	Long: `Clear deletes cached news API responses and LLM replies from the cache
directory. With an argument only that namespace is removed.

Example:
  newslens cache clear
  newslens cache clear llm`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{cache.NamespaceNews, cache.NamespaceLLM},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(nil)
		if err != nil {
			return err
		}

		if cfg.Cache.Dir == "" {
			return fmt.Errorf("no cache directory configured")
		}
		c := cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL())
		if len(args) == 1 {
			if err := c.Purge(args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Cleared %s cache in %s\n", args[0], cfg.Cache.Dir)
			return nil
		}

		if err := c.Clear(); err != nil {
			return err
		}
		fmt.Printf("✓ Cleared cache: %s\n", cfg.Cache.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
