package validation

import (
	"fmt"
	"os"
	"path/filepath"
)

// IsValidPath checks if a given path exists and is accessible.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	// Ensure it's an absolute path
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}

	// Check if it's a file or directory
	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}

	return nil
}

// IsValidOutputFormat checks if the given report format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case "json", "csv":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'json', 'csv'", format)
	}
}
