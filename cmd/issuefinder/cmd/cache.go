package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Response cache commands",
	Long:  `Inspect and maintain the on-disk cache of GitHub responses.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired cache entries",
	Args:  cobra.NoArgs,
	RunE:  runCachePrune,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cache entries",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	// Cache flags (apply to all commands that touch GitHub)
	rootCmd.PersistentFlags().String("cache-dir", "", "Cache directory (default: system temp)")
	rootCmd.PersistentFlags().Duration("cache-ttl", 15*time.Minute, "Cache TTL duration")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Keep cached responses in memory only")

	_ = viper.BindPFlag("cache.dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	_ = viper.BindPFlag("cache.ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))
	_ = viper.BindPFlag("cache.memory-only", rootCmd.PersistentFlags().Lookup("no-cache"))
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cache, err := newCache()
	if err != nil {
		return err
	}
	stats := cache.Stats(context.Background())

	if strings.ToLower(viper.GetString("format")) == "json" {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Directory:      %s\n", stats.Dir)
	fmt.Printf("Memory entries: %d\n", stats.MemoryEntries)
	fmt.Printf("File entries:   %d\n", stats.FileEntries)
	fmt.Printf("Total size:     %d KB\n", stats.TotalSizeKB)
	return nil
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	cache, err := newCache()
	if err != nil {
		return err
	}
	n, err := cache.Prune(context.Background())
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	newUI().Success("Pruned %d expired entries", n)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cache, err := newCache()
	if err != nil {
		return err
	}
	if err := cache.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	newUI().Success("Cache cleared")
	return nil
}
