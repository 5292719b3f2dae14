// Package categorize handles one-off categorization of receipt data
package categorize

import (
	"fmt"

	"fjacquet/receipt-processor/cmd/common"
	"fjacquet/receipt-processor/cmd/root"

	"github.com/spf13/cobra"
)

var (
	vendor string
	amount string
	date   string
	items  []string
	text   string
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a single receipt from command-line values",
	Long: `Categorize a single receipt given vendor, amount, date, item and text
values, and print the chosen category with its confidence and signal.

Example:
  receipt-processor categorize -p "Starbucks" -a 12.50`,
	Run: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&vendor, "vendor", "p", "", "Vendor name")
	Cmd.Flags().StringVarP(&amount, "amount", "a", "", "Receipt amount")
	Cmd.Flags().StringVarP(&date, "date", "t", "", "Receipt date (e.g. 2024-01-15)")
	Cmd.Flags().StringSliceVarP(&items, "items", "m", nil, "Line items (comma separated)")
	Cmd.Flags().StringVarP(&text, "text", "n", "", "Raw receipt text")
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Categorize command called")

	logger := root.GetLogrusAdapter()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}
	if vendor == "" && text == "" && len(items) == 0 {
		logger.Fatal("Provide at least one of --vendor, --items or --text")
	}

	record, err := common.RecordFromFlags(vendor, amount, date, items, text)
	if err != nil {
		logger.Fatalf("Invalid receipt values: %v", err)
	}

	assignment := appContainer.GetCategorizer().Categorize(record)
	fmt.Printf("Category:   %s\n", assignment.Category)
	fmt.Printf("Confidence: %.2f\n", assignment.Confidence)
	fmt.Printf("Signal:     %s\n", assignment.Signal)
}
