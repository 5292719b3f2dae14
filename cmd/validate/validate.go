// Package validate checks receipt records without exporting them
package validate

import (
	"fmt"
	"strings"

	"fjacquet/receipt-processor/cmd/common"
	"fjacquet/receipt-processor/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate receipt records from a JSON file",
	Long: `Validate receipt records from a JSON file and print each verdict.
Records are categorized first so category-dependent checks apply. The
command exits with a non-zero status when any record is invalid.

Example:
  receipt-processor validate -i records.json`,
	RunE: validateFunc,
}

func validateFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}

	inputPath, err := common.ResolveInput(root.SharedFlags.Input)
	if err != nil {
		return err
	}
	records, err := appContainer.GetFileSource().LoadRecords(inputPath)
	if err != nil {
		return err
	}

	categorizer := appContainer.GetCategorizer()
	validator := appContainer.GetValidator()
	out := cmd.OutOrStdout()

	invalid := 0
	for i, record := range records {
		assignment := categorizer.Categorize(record)
		verdict := validator.Validate(record, assignment)

		name := record.Vendor
		if name == "" {
			name = "(no vendor)"
		}
		if verdict.Valid {
			fmt.Fprintf(out, "[%d] %s: OK (confidence %.2f)\n", i+1, name, verdict.Confidence)
		} else {
			invalid++
			fmt.Fprintf(out, "[%d] %s: INVALID - %s\n", i+1, name, strings.Join(verdict.Errors, "; "))
		}
		for _, warning := range verdict.Warnings {
			fmt.Fprintf(out, "    warning: %s\n", warning)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d records failed validation", invalid, len(records))
	}
	fmt.Fprintf(out, "All %d records are valid\n", len(records))
	return nil
}
