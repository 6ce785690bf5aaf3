package adapters

import (
	"strings"
	"time"
)

// parseTimeFlexible parses the captured_at stamps found in backup and
// ledger files.  depsync writes RFC3339; the plain datetime form is
// tolerated for hand-edited files.  Unparseable input yields the zero
// time so callers can fall back to file metadata.
func parseTimeFlexible(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
