package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/receipt-processor/cmd/categorize"
	"fjacquet/receipt-processor/cmd/process"
	"fjacquet/receipt-processor/cmd/report"
	"fjacquet/receipt-processor/cmd/root"
	"fjacquet/receipt-processor/cmd/suggest"
	"fjacquet/receipt-processor/cmd/validate"
	"fjacquet/receipt-processor/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	config.LoadEnv()

	// 2. Configure the global log level before any logger output
	configureLogLevel()

	// 3. Initialize the root command flags
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(process.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(suggest.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(report.Cmd)
}

// configureLogLevel sets the global log level from LOG_LEVEL so that
// logging before configuration loading already respects it
func configureLogLevel() {
	levelStr := config.GetEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	root.Log.SetLevel(level)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
