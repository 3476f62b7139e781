package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/analysis"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/evaluate"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/output"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/report"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/source"
)

func init() {
	viper.SetDefault("github.max-retries", 3)
	viper.SetDefault("github.initial-backoff", "1s")
	viper.SetDefault("analysis.provider", string(analysis.ProviderTemplate))
}

func newUI() *output.UI {
	ui := output.New()
	ui.Verbose = viper.GetBool("verbose")
	return ui
}

func formatNames() []string {
	return report.Formats()
}

func newFormatter() report.Formatter {
	return report.NewFormatter(viper.GetString("format"))
}

// newCache opens the response cache described by the cache.* keys.
func newCache() (*source.Cache, error) {
	cache, err := source.NewCache(source.CacheConfig{
		Dir:        viper.GetString("cache.dir"),
		TTL:        viper.GetDuration("cache.ttl"),
		MemoryOnly: viper.GetBool("cache.memory-only"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return cache, nil
}

// newSource builds the GitHub source wrapped in the response cache.
func newSource(ctx context.Context) (source.Source, error) {
	token := viper.GetString("token")
	if token == "" {
		slog.DebugContext(ctx, "no GitHub token configured, using anonymous access")
	}

	gh, err := source.NewGitHub(ctx, source.Config{
		Token:          token,
		BaseURL:        viper.GetString("github.base-url"),
		MaxRetries:     viper.GetInt("github.max-retries"),
		InitialBackoff: viper.GetDuration("github.initial-backoff"),
		Concurrency:    viper.GetInt("github.concurrency"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	cache, err := newCache()
	if err != nil {
		return nil, err
	}
	return source.NewCachedSource(gh, cache), nil
}

// newEngine builds the evaluation engine, loading the rules file if one
// is configured.
func newEngine() (*evaluate.Engine, error) {
	path := viper.GetString("rules")
	if path == "" {
		return evaluate.NewEngine(), nil
	}

	rules, err := evaluate.LoadRulesFromFile(path)
	if err != nil {
		return nil, err
	}
	newUI().VerboseLog("Using rules from %s", path)
	return evaluate.NewEngine(evaluate.WithRules(rules)), nil
}

func newGenerator() (analysis.Generator, error) {
	return analysis.New(analysis.Config{
		Provider: viper.GetString("analysis.provider"),
		Model:    viper.GetString("analysis.model"),
		BaseURL:  viper.GetString("analysis.base-url"),
		APIKey:   viper.GetString("analysis.api-key"),
	})
}

// writeOutput writes the rendered result to path, or stdout when empty.
func writeOutput(result, path string) error {
	if path == "" {
		fmt.Print(result)
		return nil
	}
	if err := os.WriteFile(path, []byte(result), 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	newUI().Success("Output written to %s", path)
	return nil
}
