package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"fjacquet/receipt-processor/internal/logging"
	"fjacquet/receipt-processor/internal/models"
)

// FileSource loads pre-extracted records from JSON files. It accepts either
// a single record object or an array of them, in the same loose wire shape
// the AI client parses, so files captured from earlier runs load unchanged.
type FileSource struct {
	log logging.Logger
}

// NewFileSource creates a file-backed record source.
func NewFileSource(log logging.Logger) *FileSource {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	return &FileSource{log: log}
}

// LoadRecords reads one or more records from the JSON file at path.
func (s *FileSource) LoadRecords(path string) ([]models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read records file %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	var wires []wireRecord
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &wires); err != nil {
			return nil, fmt.Errorf("could not parse records file %s: %w", path, err)
		}
	} else {
		var wire wireRecord
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return nil, fmt.Errorf("could not parse records file %s: %w", path, err)
		}
		wires = append(wires, wire)
	}

	records := make([]models.Record, 0, len(wires))
	for _, wire := range wires {
		records = append(records, wire.toRecord(""))
	}

	s.log.Info("Records loaded from file",
		logging.Field{Key: logging.FieldInputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
	)
	return records, nil
}
