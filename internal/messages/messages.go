package messages

import (
	"fmt"
)

// uiMessages holds console strings shown by the CLI.
var uiMessages = map[string]string{
	"SummaryTitle":     "Summary",
	"SummaryTotal":     "Processed: %d",
	"SummaryChanged":   "Changed: %d",
	"SummaryUnchanged": "Unchanged: %d",
	"SummarySkipped":   "Skipped (blank): %d",
	"SummaryDeduped":   "Duplicates dropped: %d",
	"ReadingStdin":     "Reading URLs from stdin (one per line, Ctrl+D to finish)...",
	"Cancelled":        "Cancelled.",
	"ConfigLoaded":     "Using config file %s",
	"UnknownFormat":    "unknown output format %q (want text, json or csv)",
}

// GetUIMessage returns the UI string for id formatted with args, or id itself
// when the catalog has no entry.
func GetUIMessage(id string, args ...interface{}) string {
	format, ok := uiMessages[id]
	if !ok || format == "" {
		return id
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}
