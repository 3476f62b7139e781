package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/output"
)

// version is set at build time with -ldflags.
var version = "dev"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "issuefinder",
	Short: "Find, rank and analyze open-source issues worth contributing to",
	Long: `IssueFinder searches open GitHub issues, rates each one by difficulty,
scores it for contribution value and recommends a varied shortlist.

Features:
  - Search issues by keyword, repository, label, language and star range
  - Recommend beginner-friendly issues from popular repositories
  - Explain how an issue was rated, rule by rule
  - Generate an analysis report with a template or an LLM provider
  - Serve the same operations over HTTP or MCP`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.issuefinder.yaml)")
	rootCmd.PersistentFlags().String("token", "", "GitHub token (or set GITHUB_TOKEN env var)")
	rootCmd.PersistentFlags().String("format", "table", "Output format: "+strings.Join(formatNames(), ", "))
	rootCmd.PersistentFlags().String("rules", "", "YAML rules file overriding the built-in evaluation rules")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("rules", rootCmd.PersistentFlags().Lookup("rules"))
	_ = viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.Version = version
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".issuefinder" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".issuefinder")
	}

	// Environment variables
	viper.SetEnvPrefix("ISSUEFINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	configErr := viper.ReadInConfig()

	// Also check the provider variables directly
	if viper.GetString("token") == "" {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			viper.Set("token", token)
		}
	}
	if viper.GetString("analysis.api-key") == "" {
		if key := providerKeyFromEnv(viper.GetString("analysis.provider")); key != "" {
			viper.Set("analysis.api-key", key)
		}
	}

	verbose := viper.GetBool("verbose")
	initLogger(verbose)
	output.ConfigureColor(viper.GetBool("no-color"))

	if configErr == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// initLogger installs a text slog handler on stderr as the default logger.
func initLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// providerKeyFromEnv returns the API key variable conventionally used by
// the given analysis provider.
func providerKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "modelscope":
		return os.Getenv("MODELSCOPE_API_KEY")
	default:
		return ""
	}
}
