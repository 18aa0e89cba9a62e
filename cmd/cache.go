package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var expiredOnly bool

// cacheCmd groups response cache maintenance
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached list pages",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove entries older than cache.ttl")
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if cacheStore == nil {
		fmt.Println("Response cache is disabled")
		return nil
	}

	purge := cacheStore.Purge
	if expiredOnly {
		purge = cacheStore.PurgeExpired
	}

	removed, err := purge()
	if err != nil {
		return err
	}

	logger.Info().Int("removed", removed).Str("path", cfg.Cache.Path).Msg("Cache cleared")
	fmt.Printf("✓ Removed %d cached pages\n", removed)
	return nil
}
