package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/recommend"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/session"
	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend beginner-friendly issues from popular repositories",
	Long: `Fetch beginner-friendly issues from popular repositories and pick a
varied shortlist: high scorers first, then a mix of difficulties.

Examples:
  # Default shortlist
  issuefinder recommend

  # A longer shortlist
  issuefinder recommend --limit 20

  # Also load two more pages of recommendations
  issuefinder recommend --more 2`,
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().Int("limit", recommend.DefaultLimit, "Number of recommendations from the first batch")
	recommendCmd.Flags().Int("more", 0, "Number of additional pages to load")
	recommendCmd.Flags().String("output", "", "Output file (default: stdout)")

	_ = viper.BindPFlag("recommend.limit", recommendCmd.Flags().Lookup("limit"))
	_ = viper.BindPFlag("recommend.more", recommendCmd.Flags().Lookup("more"))
	_ = viper.BindPFlag("recommend.output", recommendCmd.Flags().Lookup("output"))
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ui := newUI()

	src, err := newSource(ctx)
	if err != nil {
		return err
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}

	sess := session.New(session.NewID(), session.Deps{Source: src, Engine: engine})

	ui.VerboseLog("Fetching popular issues...")
	st, err := sess.FetchPopular(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch popular issues: %w", err)
	}

	issues := recommend.Recommended(st.Issues, viper.GetInt("recommend.limit"))
	first := len(st.Recommended)

	for i := 0; i < viper.GetInt("recommend.more") && st.HasMore; i++ {
		ui.VerboseLog("Loading page %d...", st.Page+1)
		st, err = sess.LoadMore(ctx)
		if err != nil {
			return fmt.Errorf("failed to load more issues: %w", err)
		}
	}
	issues = append(issues, st.Recommended[first:]...)

	list := model.IssueList{
		Timestamp: time.Now(),
		Title:     "Recommended issues",
		Total:     len(issues),
		Issues:    issues,
	}

	out, err := newFormatter().FormatIssueList(&list)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return writeOutput(out, viper.GetString("recommend.output"))
}
