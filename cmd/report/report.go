// Package report builds summary reports from processed expenses
package report

import (
	"fmt"

	"fjacquet/receipt-processor/cmd/common"
	"fjacquet/receipt-processor/cmd/root"
	"fjacquet/receipt-processor/internal/report"

	"github.com/spf13/cobra"
)

var (
	title  string
	format string
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Build a summary report from processed expenses",
	Long: `Build a summary report from a processed-expenses JSON file, as written
by "process --json". The summary renders as JSON or CSV, to stdout or to
the output file.

Example:
  receipt-processor report -i expenses.json --format csv -o summary.csv`,
	RunE: reportFunc,
}

func init() {
	Cmd.Flags().StringVar(&title, "title", "Expense report", "Report title")
	Cmd.Flags().StringVar(&format, "format", "json", "Report format: json or csv")
}

func reportFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}

	inputPath, err := common.ResolveInput(root.SharedFlags.Input)
	if err != nil {
		return err
	}
	expenses, err := common.ReadExpenses(inputPath)
	if err != nil {
		return err
	}

	summary := report.Build(title, expenses)
	generator := appContainer.GetReportGenerator()

	if root.SharedFlags.Output == "" {
		rendered, err := generator.Render(summary, format)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(rendered); err != nil {
			return fmt.Errorf("failed to write report to stdout: %w", err)
		}
		return nil
	}
	return generator.Write(summary, format, root.SharedFlags.Output)
}
