// Package pdftext turns PDF receipts into raw text for the extraction
// pipeline. It shells out to the pdftotext tool from poppler-utils, which
// must be installed on the host.
package pdftext

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"fjacquet/receipt-processor/internal/logging"
)

// Extractor converts a PDF file into the raw text a receipt scan would
// produce, ready for the AI extraction step.
type Extractor interface {
	ExtractText(pdfPath string) (string, error)
}

// runPdftotext holds the actual conversion so tests can swap it out
// without requiring the pdftotext binary.
var runPdftotext = func(pdfPath string) (string, error) {
	tempFile := pdfPath + ".txt"

	cmd := exec.Command("pdftotext", "-layout", pdfPath, tempFile)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running pdftotext: %w", err)
	}

	output, err := os.ReadFile(tempFile) // #nosec G304 -- temp file path is derived from the input path
	if err != nil {
		return "", fmt.Errorf("error reading extracted text: %w", err)
	}

	if err := os.Remove(tempFile); err != nil {
		return "", fmt.Errorf("error removing temporary text file: %w", err)
	}

	return string(output), nil
}

// PopplerExtractor is the production Extractor backed by the pdftotext
// command.
type PopplerExtractor struct {
	log logging.Logger
}

// NewPopplerExtractor creates a pdftotext-backed extractor. A nil logger
// falls back to a default logrus adapter.
func NewPopplerExtractor(log logging.Logger) *PopplerExtractor {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	return &PopplerExtractor{log: log}
}

// ExtractText extracts the text content of the PDF at pdfPath. A PDF that
// converts cleanly but yields no text, typically an image-only scan, is
// not an error; the empty text is returned with a warning so the caller
// can still route it through extraction and pick up a low confidence.
func (e *PopplerExtractor) ExtractText(pdfPath string) (string, error) {
	text, err := runPdftotext(pdfPath)
	if err != nil {
		e.log.Error("PDF text extraction failed",
			logging.Field{Key: logging.FieldInputFile, Value: pdfPath},
			logging.Field{Key: logging.FieldError, Value: err},
		)
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		e.log.Warn("PDF produced no text, scan may be image-only",
			logging.Field{Key: logging.FieldInputFile, Value: pdfPath},
		)
	}

	e.log.Debug("PDF text extracted",
		logging.Field{Key: logging.FieldInputFile, Value: pdfPath},
		logging.Field{Key: logging.FieldCount, Value: len(text)},
	)
	return text, nil
}

// MockExtractor implements Extractor for tests that cannot depend on the
// pdftotext binary being installed.
type MockExtractor struct {
	Text string
	Err  error
}

// ExtractText returns the predefined text or error.
func (e *MockExtractor) ExtractText(string) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	return e.Text, nil
}
