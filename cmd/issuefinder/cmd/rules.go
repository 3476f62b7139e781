package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Weichenleeeee123/AI-issues-finder/internal/evaluate"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Evaluation rule commands",
	Long: `Inspect, export and validate the rule tables used to rate issues.

The built-in rules are used unless --rules points at a YAML file.`,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active rules as YAML",
	Long: `Print the rule tables in effect: the --rules file if set, otherwise the
built-in defaults.

Examples:
  issuefinder rules show
  issuefinder rules show --rules ./my-rules.yaml`,
	Args: cobra.NoArgs,
	RunE: runRulesShow,
}

var rulesExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the built-in rules to a YAML file",
	Long: `Write the built-in rule tables to a file as a starting point for
customization.

Examples:
  issuefinder rules export rules.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesExport,
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a rules file for errors",
	Long: `Load a rules file and report every consistency problem found.

Examples:
  issuefinder rules validate rules.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesValidate,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesExportCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	data, err := evaluate.MarshalRules(engine.Rules())
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func runRulesExport(cmd *cobra.Command, args []string) error {
	if err := evaluate.SaveRulesToFile(evaluate.DefaultRules(), args[0]); err != nil {
		return err
	}
	newUI().Success("Rules written to %s", args[0])
	return nil
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	if _, err := evaluate.LoadRulesFromFile(args[0]); err != nil {
		return err
	}
	newUI().Success("%s: ok", args[0])
	return nil
}
