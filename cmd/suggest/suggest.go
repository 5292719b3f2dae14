// Package suggest ranks candidate categories for receipt data
package suggest

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
	topN   int
)

// Cmd represents the suggest command
var Cmd = &cobra.Command{
	Use:   "suggest",
	Short: "Rank candidate categories for a single receipt",
	Long: `Score every configured category against the given receipt values and
print the top candidates in descending confidence order.

Example:
  receipt-processor suggest -p "Delta Airlines" -a 450.00 --top 5`,
	Run: suggestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&vendor, "vendor", "p", "", "Vendor name")
	Cmd.Flags().StringVarP(&amount, "amount", "a", "", "Receipt amount")
	Cmd.Flags().StringVarP(&date, "date", "t", "", "Receipt date (e.g. 2024-01-15)")
	Cmd.Flags().StringSliceVarP(&items, "items", "m", nil, "Line items (comma separated)")
	Cmd.Flags().StringVarP(&text, "text", "n", "", "Raw receipt text")
	Cmd.Flags().IntVarP(&topN, "top", "k", 3, "Number of suggestions to print")
}

func suggestFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Suggest command called")

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

	suggestions := appContainer.GetCategorizer().Suggest(record, topN)
	if len(suggestions) == 0 {
		fmt.Println("No categories configured")
		return
	}
	for i, suggestion := range suggestions {
		fmt.Printf("%2d. %-24s %.2f\n", i+1, suggestion.Category, suggestion.Confidence)
	}
}
