// Package main provides the entry point for the receipt-processor CLI
// application.
package main

import (
	"fmt"
	"os"

	"fjacquet/receipt-processor/cmd/categorize"
	"fjacquet/receipt-processor/cmd/process"
	"fjacquet/receipt-processor/cmd/report"
	"fjacquet/receipt-processor/cmd/root"
	"fjacquet/receipt-processor/cmd/suggest"
	"fjacquet/receipt-processor/cmd/validate"
)

func init() {
	root.Init()
	root.Cmd.AddCommand(process.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(suggest.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(report.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
