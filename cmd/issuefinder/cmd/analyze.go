package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/analysis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <owner/repo#number | issue URL>",
	Short: "Generate an analysis report for one issue",
	Long: `Generate a structured analysis of an issue: summary, technical analysis,
candidate solutions, estimated time and required skills.

The template provider works offline. The modelscope and anthropic providers
need an API key (MODELSCOPE_API_KEY or ANTHROPIC_API_KEY) and fall back to
the template when the model cannot be reached.

Examples:
  issuefinder analyze vuejs/vue#12000
  issuefinder analyze facebook/react#28000 --provider anthropic
  issuefinder analyze nodejs/node#51000 --provider modelscope --model qwen-plus --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("provider", "", "Analysis provider: "+strings.Join(analysis.Providers(), ", "))
	analyzeCmd.Flags().String("model", "", "Model name for LLM providers")
	analyzeCmd.Flags().String("base-url", "", "API base URL for LLM providers")
	analyzeCmd.Flags().String("output", "", "Output file (default: stdout)")

	_ = viper.BindPFlag("analysis.provider", analyzeCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("analysis.model", analyzeCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("analysis.base-url", analyzeCmd.Flags().Lookup("base-url"))
	_ = viper.BindPFlag("analyze.output", analyzeCmd.Flags().Lookup("output"))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := newSource(ctx)
	if err != nil {
		return err
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}
	gen, err := newGenerator()
	if err != nil {
		return err
	}

	raw, err := fetchIssue(ctx, src, args[0])
	if err != nil {
		return err
	}
	issue := engine.Evaluate(*raw)

	newUI().VerboseLog("Analyzing %s...", issue.Ref())

	a, err := gen.Generate(ctx, &issue)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out, err := newFormatter().FormatAnalysis(&issue, a)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return writeOutput(out, viper.GetString("analyze.output"))
}
