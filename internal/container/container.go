// Package container provides dependency injection for the receipt
// processor application. It centralizes the creation and wiring of all
// application dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"

	"fjacquet/receipt-processor/internal/batch"
	"fjacquet/receipt-processor/internal/categorizer"
	"fjacquet/receipt-processor/internal/config"
	"fjacquet/receipt-processor/internal/exporter"
	"fjacquet/receipt-processor/internal/extractor"
	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/processor"
	"fjacquet/receipt-processor/internal/report"
	"fjacquet/receipt-processor/internal/rules"
	"fjacquet/receipt-processor/internal/store"
	"fjacquet/receipt-processor/internal/validation"

	"github.com/shopspring/decimal"
)

// Container holds all application dependencies and provides methods to
// access them. It is immutable after creation: all fields are private and
// can only be reached through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.CategoryStore
	categorizer *categorizer.Categorizer
	engine      *rules.Engine
	validator   *validation.Validator
	checker     *batch.Checker
	gemini      *extractor.GeminiClient
	fileSource  *extractor.FileSource
	processor   *processor.Processor
	exporter    *exporter.Exporter
	generator   *report.Generator
}

// NewContainer creates and wires all application dependencies. The context
// is used for constructing the Gemini client when AI extraction is
// enabled.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Logger first, everything else logs through it
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	categoryStore := store.NewCategoryStore(cfg.Categories.File, cfg.Rules.File, logger)

	cat, err := categorizer.NewCategorizer(categoryStore, logger)
	if err != nil {
		return nil, fmt.Errorf("creating categorizer: %w", err)
	}

	engine, err := rules.NewEngine(categoryStore, logger)
	if err != nil {
		return nil, fmt.Errorf("creating rule engine: %w", err)
	}

	validator := validation.NewValidator(validation.Options{
		MinConfidence: cfg.Validation.MinConfidence,
		MaxPastDays:   cfg.Validation.MaxPastDays,
		MaxFutureDays: cfg.Validation.MaxFutureDays,
	}, logger)

	checker := batch.NewChecker(logger)

	var gemini *extractor.GeminiClient
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gemini, err = extractor.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("creating Gemini client: %w", err)
		}
		logger.Info("AI extraction enabled",
			logging.Field{Key: logging.FieldModel, Value: cfg.AI.Model})
	} else {
		logger.Info("AI extraction disabled")
	}

	proc := processor.NewProcessor(cat, engine, validator, checker, processor.Options{
		ConcurrencyThreshold: cfg.Processing.ConcurrencyThreshold,
		ReviewAmount:         decimal.NewFromFloat(cfg.Processing.ReviewAmount),
		ReviewConfidence:     cfg.Processing.ReviewConfidence,
	}, logger)

	delimiter := ','
	if cfg.CSV.Delimiter != "" {
		delimiter = []rune(cfg.CSV.Delimiter)[0]
	}

	c := &Container{
		logger:      logger,
		config:      cfg,
		store:       categoryStore,
		categorizer: cat,
		engine:      engine,
		validator:   validator,
		checker:     checker,
		gemini:      gemini,
		fileSource:  extractor.NewFileSource(logger),
		processor:   proc,
		exporter:    exporter.NewExporter(delimiter, cfg.CSV.IncludeHeaders, logger),
		generator:   report.NewGenerator(logger),
	}

	logger.Info("Container initialized successfully",
		logging.Field{Key: "ai_enabled", Value: gemini != nil})
	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the container's category store instance.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetRuleEngine returns the container's rule engine instance.
func (c *Container) GetRuleEngine() *rules.Engine {
	return c.engine
}

// GetValidator returns the container's validator instance.
func (c *Container) GetValidator() *validation.Validator {
	return c.validator
}

// GetChecker returns the container's batch consistency checker.
func (c *Container) GetChecker() *batch.Checker {
	return c.checker
}

// GetAIClient returns the Gemini extraction client, or nil when AI
// extraction is disabled.
func (c *Container) GetAIClient() extractor.AIClient {
	if c.gemini == nil {
		return nil
	}
	return c.gemini
}

// GetFileSource returns the JSON record file source.
func (c *Container) GetFileSource() *extractor.FileSource {
	return c.fileSource
}

// GetProcessor returns the container's processor instance.
func (c *Container) GetProcessor() *processor.Processor {
	return c.processor
}

// GetExporter returns the container's CSV exporter instance.
func (c *Container) GetExporter() *exporter.Exporter {
	return c.exporter
}

// GetReportGenerator returns the container's report generator instance.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// Close releases container resources, including the Gemini client when one
// was created.
func (c *Container) Close() error {
	if c.gemini != nil {
		if err := c.gemini.Close(); err != nil {
			return fmt.Errorf("closing Gemini client: %w", err)
		}
	}
	c.logger.Info("Container closed")
	return nil
}
