// Package dateutils provides common date parsing and formatting operations
// used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutUS       = "01/02/2006"
	DateLayoutEU       = "02/01/2006"
	DateLayoutISOSlash = "2006/01/02"
	DateLayoutUSDash   = "01-02-2006"
	DateLayoutEUDash   = "02-01-2006"
	DateLayoutMinute   = "2006-01-02 15:04"
)

// ReceiptFormats lists the date layouts accepted on receipts, tried in
// order. Month-first forms come before day-first forms, so an ambiguous
// date like 03/04/2024 parses as March 4.
var ReceiptFormats = []string{
	DateLayoutISO,
	DateLayoutUS,
	DateLayoutEU,
	DateLayoutISOSlash,
	DateLayoutUSDash,
	DateLayoutEUDash,
}

var spaceRun = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using the accepted receipt
// formats. Returns the parsed time and the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, layout := range ReceiptFormats {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, layout, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims whitespace and collapses internal space runs.
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	return spaceRun.ReplaceAllString(dateStr, " ")
}

// FormatDate formats a time.Time value according to the specified layout.
// If no layout is provided, DateLayoutISO is used.
func FormatDate(date time.Time, layout string) string {
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
