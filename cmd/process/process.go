// Package process handles the end-to-end receipt processing pipeline
package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/receipt-processor/cmd/common"
	"fjacquet/receipt-processor/cmd/root"
	"fjacquet/receipt-processor/internal/container"
	"fjacquet/receipt-processor/internal/extractor"
	"fjacquet/receipt-processor/internal/fileutils"
	"fjacquet/receipt-processor/internal/models"
	"fjacquet/receipt-processor/internal/pdftext"
	"fjacquet/receipt-processor/internal/report"

	"github.com/spf13/cobra"
)

var (
	useAI       bool
	reportFile  string
	expenseFile string
)

// pdfExtractor converts PDF receipts to text. Tests swap in a mock.
var pdfExtractor pdftext.Extractor = pdftext.NewPopplerExtractor(nil)

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Process receipt records into categorized expenses",
	Long: `Process receipt records through categorization, expense rules, validation
and batch consistency checks, then export the result to CSV.

The input is a JSON records file by default. With --ai the input is raw
receipt text (a single file, or a directory of .txt and .pdf files) and
records are extracted with the Gemini model first. PDF receipts are
converted to text with pdftotext before extraction.

Example:
  receipt-processor process -i records.json -o expenses.csv`,
	Run: processFunc,
}

func init() {
	Cmd.Flags().BoolVar(&useAI, "ai", false, "Treat input as raw receipt text and extract records with the Gemini model")
	Cmd.Flags().StringVar(&reportFile, "report", "", "Write a JSON summary report to this file")
	Cmd.Flags().StringVar(&expenseFile, "json", "", "Write the processed expenses as JSON to this file")
}

func processFunc(cmd *cobra.Command, args []string) {
	root.Log.Info("Process command called")

	logger := root.GetLogrusAdapter()
	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}

	input := root.SharedFlags.Input
	output := root.SharedFlags.Output
	if input == "" || output == "" {
		logger.Fatal("Input and output files must be specified")
	}

	inputPath, err := common.ResolveInput(input)
	if err != nil {
		logger.Fatalf("Invalid input: %v", err)
	}

	ctx := cmd.Context()
	var records []models.Record
	if useAI {
		records, err = extractRecords(ctx, appContainer, inputPath)
	} else {
		records, err = appContainer.GetFileSource().LoadRecords(inputPath)
	}
	if err != nil {
		logger.Fatalf("Failed to load records: %v", err)
	}
	if len(records) == 0 {
		logger.Fatal("No records found in input")
	}

	expenses, err := appContainer.GetProcessor().ProcessBatch(ctx, records)
	if err != nil {
		logger.Fatalf("Processing failed: %v", err)
	}

	if err := appContainer.GetExporter().Export(expenses, output); err != nil {
		logger.Fatalf("Failed to write CSV: %v", err)
	}

	title := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	summary := report.Build(title, expenses)
	printSummary(summary)

	if expenseFile != "" {
		if err := common.WriteExpenses(expenseFile, expenses); err != nil {
			logger.Fatalf("Failed to write expenses JSON: %v", err)
		}
	}
	if reportFile != "" {
		if err := appContainer.GetReportGenerator().Write(summary, "json", reportFile); err != nil {
			logger.Fatalf("Failed to write summary report: %v", err)
		}
	}

	root.Log.Infof("Processed %d records into %s", len(expenses), output)
}

// extractRecords reads raw receipt text and extracts structured records
// with the AI client. A directory input is treated as one receipt per
// .txt or .pdf file.
func extractRecords(ctx context.Context, c *container.Container, inputPath string) ([]models.Record, error) {
	client := c.GetAIClient()
	if client == nil {
		return nil, fmt.Errorf("AI extraction requested but not enabled; set ai.enabled and GEMINI_API_KEY")
	}

	texts, err := readReceiptTexts(inputPath)
	if err != nil {
		return nil, err
	}

	if timeout := c.GetConfig().AI.TimeoutSeconds; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}
	return extractor.ExtractAll(ctx, client, texts, c.GetLogger())
}

// readReceiptTexts returns the receipt texts under a path: the file's own
// content, or one text per .txt and .pdf file for a directory.
func readReceiptTexts(inputPath string) ([]string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("could not stat input %s: %w", inputPath, err)
	}

	if !info.IsDir() {
		text, err := readReceiptFile(inputPath)
		if err != nil {
			return nil, err
		}
		return []string{text}, nil
	}

	var paths []string
	for _, ext := range []string{".txt", ".pdf"} {
		found, err := fileutils.ListFilesWithExtension(inputPath, ext)
		if err != nil {
			return nil, fmt.Errorf("could not read input directory %s: %w", inputPath, err)
		}
		paths = append(paths, found...)
	}
	sort.Strings(paths)

	var texts []string
	for _, path := range paths {
		text, err := readReceiptFile(path)
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no .txt or .pdf receipts found in %s", inputPath)
	}
	return texts, nil
}

// readReceiptFile reads one receipt, converting PDFs to text first.
func readReceiptFile(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := pdfExtractor.ExtractText(path)
		if err != nil {
			return "", fmt.Errorf("could not extract text from %s: %w", path, err)
		}
		return text, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return "", fmt.Errorf("could not read receipt %s: %w", path, err)
	}
	return string(data), nil
}

func printSummary(summary models.ExpenseSummary) {
	fmt.Println()
	fmt.Printf("Processed:     %d expenses\n", summary.Count)
	fmt.Printf("Total:         %s\n", summary.Total.StringFixed(2))
	fmt.Printf("Average:       %s\n", summary.Average.StringFixed(2))
	if summary.Period != "" {
		fmt.Printf("Period:        %s\n", summary.Period)
	}
	fmt.Printf("Needs review:  %d\n", summary.ReviewCount)
	fmt.Printf("Failed checks: %d\n", summary.InvalidCount)
	if top := summary.TopCategories(3); len(top) > 0 {
		fmt.Println("Top categories:")
		for _, entry := range top {
			fmt.Printf("  %-24s %s\n", entry.Name, entry.Amount.StringFixed(2))
		}
	}
}
