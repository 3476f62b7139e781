package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/evaluate"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/output"
	"github.com/Weichenleeeee123/AI-issues-finder/internal/source"
	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

var showCmd = &cobra.Command{
	Use:   "show <owner/repo#number | issue URL>",
	Short: "Show one evaluated issue",
	Long: `Fetch a single issue and show its difficulty, score and tags.

With --explain, every rule that contributed to the rating is listed.

Examples:
  issuefinder show facebook/react#28000
  issuefinder show https://github.com/nodejs/node/issues/51000 --explain`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("explain", false, "List the rules behind the difficulty and score")

	_ = viper.BindPFlag("show.explain", showCmd.Flags().Lookup("explain"))
}

func runShow(cmd *cobra.Command, args []string) error {
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

	raw, err := fetchIssue(ctx, src, args[0])
	if err != nil {
		return err
	}
	issue := engine.Evaluate(*raw)

	out, err := newFormatter().FormatIssue(&issue)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if viper.GetBool("show.explain") {
		explained, err := formatExplanation(engine.Explain(raw))
		if err != nil {
			return err
		}
		out += "\n" + explained
	}

	fmt.Print(out)
	return nil
}

// fetchIssue resolves an issue reference and retrieves the issue.
func fetchIssue(ctx context.Context, src source.Source, refStr string) (*model.RawIssue, error) {
	ref, err := model.ParseIssueRef(refStr)
	if err != nil {
		return nil, err
	}
	raw, err := src.Issue(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}
	return raw, nil
}

// formatExplanation renders the rule breakdown in the configured format.
// Only JSON gets a structured rendering; other formats get a table.
func formatExplanation(exp evaluate.Explanation) (string, error) {
	if strings.ToLower(viper.GetString("format")) == "json" {
		data, err := json.MarshalIndent(exp, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal explanation: %w", err)
		}
		return string(data) + "\n", nil
	}

	var sb strings.Builder
	sb.WriteString(output.StyleHeader.Render("Difficulty") + "\n")
	if err := writeContributions(&sb, exp.DifficultyTerms); err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "Points: %d -> %s\n\n", exp.DifficultyPoints, output.DifficultyBadge(exp.Difficulty))

	sb.WriteString(output.StyleHeader.Render("Score") + "\n")
	if err := writeContributions(&sb, exp.ScoreTerms); err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "Score: %s\n", output.ScoreColor(exp.Score))
	return sb.String(), nil
}

func writeContributions(sb *strings.Builder, terms []evaluate.Contribution) error {
	if len(terms) == 0 {
		sb.WriteString(output.StyleMuted.Render("no rules matched") + "\n")
		return nil
	}

	table := tablewriter.NewWriter(sb)
	table.Header("Rule", "Points")
	for _, c := range terms {
		if err := table.Append([]string{c.Rule, fmt.Sprintf("%+g", c.Points)}); err != nil {
			return fmt.Errorf("failed to render explanation: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render explanation: %w", err)
	}
	return nil
}
