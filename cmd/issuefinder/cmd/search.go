package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/filter"
	"github.com/Weichenleeeee123/AI-issues-finder/pkg/model"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search open issues and rank them",
	Long: `Search open GitHub issues, evaluate each one and list them by score.

Search parameters (--repo, --labels, --language) narrow the GitHub query.
Filter flags (--difficulty, --min-stars, --max-stars, --updated-since,
--label) are applied to the evaluated results.

Examples:
  # Beginner issues mentioning "dark mode"
  issuefinder search "dark mode" --difficulty beginner

  # TypeScript issues in large repositories
  issuefinder search --language TypeScript --min-stars 10000

  # Issues in one repository, as JSON
  issuefinder search --repo facebook/react --format json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("repo", "", "Restrict to a repository (owner/repo)")
	searchCmd.Flags().String("labels", "", "Require a GitHub label in the query")
	searchCmd.Flags().String("language", "", "Repository language")
	searchCmd.Flags().String("sort", string(model.SortUpdated), "Sort field: created, updated, comments")
	searchCmd.Flags().String("order", "desc", "Sort order: asc, desc")
	searchCmd.Flags().Int("page", 1, "Result page")
	searchCmd.Flags().Int("limit", 20, "Maximum number of issues shown (0 for all)")
	searchCmd.Flags().String("output", "", "Output file (default: stdout)")
	addFilterFlags(searchCmd)

	_ = viper.BindPFlag("search.repo", searchCmd.Flags().Lookup("repo"))
	_ = viper.BindPFlag("search.labels", searchCmd.Flags().Lookup("labels"))
	_ = viper.BindPFlag("search.language", searchCmd.Flags().Lookup("language"))
	_ = viper.BindPFlag("search.sort", searchCmd.Flags().Lookup("sort"))
	_ = viper.BindPFlag("search.order", searchCmd.Flags().Lookup("order"))
	_ = viper.BindPFlag("search.page", searchCmd.Flags().Lookup("page"))
	_ = viper.BindPFlag("search.limit", searchCmd.Flags().Lookup("limit"))
	_ = viper.BindPFlag("search.output", searchCmd.Flags().Lookup("output"))
	bindFilterFlags("search", searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	criteria, err := criteriaFromConfig("search")
	if err != nil {
		return err
	}

	params := model.SearchParams{
		Query:      strings.Join(args, " "),
		Repository: viper.GetString("search.repo"),
		Labels:     viper.GetString("search.labels"),
		Language:   viper.GetString("search.language"),
		Difficulty: criteria.Difficulty,
		Sort:       model.SearchSort(viper.GetString("search.sort")),
		Order:      viper.GetString("search.order"),
		Page:       viper.GetInt("search.page"),
	}

	src, err := newSource(ctx)
	if err != nil {
		return err
	}
	engine, err := newEngine()
	if err != nil {
		return err
	}

	newUI().VerboseLog("Searching issues...")

	result, err := src.Search(ctx, params)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	issues := filter.Apply(engine.EvaluateAndSort(result.Issues), criteria)
	if limit := viper.GetInt("search.limit"); limit > 0 && len(issues) > limit {
		issues = issues[:limit]
	}

	list := model.IssueList{
		Timestamp: time.Now(),
		Title:     "Search results",
		Query:     params.Query,
		Criteria:  criteria,
		Total:     result.TotalCount,
		Issues:    issues,
	}

	out, err := newFormatter().FormatIssueList(&list)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return writeOutput(out, viper.GetString("search.output"))
}

// addFilterFlags registers the post-evaluation filter flags on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("difficulty", "", "Keep only this difficulty: beginner, intermediate, advanced")
	cmd.Flags().Int("min-stars", 0, "Minimum repository stars")
	cmd.Flags().Int("max-stars", 0, "Maximum repository stars")
	cmd.Flags().String("updated-since", "", "Keep issues updated on or after this date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringSlice("label", nil, "Keep issues carrying any of these labels (substring match)")
}

func bindFilterFlags(prefix string, cmd *cobra.Command) {
	for _, name := range []string{"difficulty", "min-stars", "max-stars", "updated-since", "label"} {
		_ = viper.BindPFlag(prefix+"."+name, cmd.Flags().Lookup(name))
	}
}

// criteriaFromConfig reads the filter flags bound under prefix.
func criteriaFromConfig(prefix string) (model.FilterCriteria, error) {
	var criteria model.FilterCriteria

	if d := viper.GetString(prefix + ".difficulty"); d != "" {
		diff, ok := model.ParseDifficulty(d)
		if !ok {
			return criteria, fmt.Errorf("invalid difficulty %q (want beginner, intermediate or advanced)", d)
		}
		criteria.Difficulty = diff
	}

	// Star bounds apply only when set.
	if viper.IsSet(prefix + ".min-stars") {
		n := viper.GetInt(prefix + ".min-stars")
		criteria.MinStars = &n
	}
	if viper.IsSet(prefix + ".max-stars") {
		n := viper.GetInt(prefix + ".max-stars")
		criteria.MaxStars = &n
	}

	if raw := viper.GetString(prefix + ".updated-since"); raw != "" {
		t, err := model.ParseDate(raw)
		if err != nil {
			return criteria, fmt.Errorf("invalid --updated-since %q: %w", raw, err)
		}
		criteria.UpdatedSince = &t
	}

	for _, l := range viper.GetStringSlice(prefix + ".label") {
		if l = strings.TrimSpace(l); l != "" {
			criteria.Labels = append(criteria.Labels, l)
		}
	}
	return criteria, nil
}
