// internal/signal/parse.go

// Package signal converts raw extractor output into typed, checked domain
// values. Parsing failures are classified; range violations are not failures.
package signal

import (
	"fmt"
	"strconv"
	"strings"

	"mcp-health-log/internal/faults"
	"mcp-health-log/internal/models"
)

// ParseMood normalizes a mood token: trimmed, lowercased, accepted as-is.
// There is no vocabulary constraint; only an empty reply is a parse failure.
func ParseMood(raw string) (string, error) {
	mood := strings.ToLower(strings.TrimSpace(raw))
	if mood == "" {
		return "", faults.NewParse(raw, fmt.Errorf("empty mood"))
	}
	return mood, nil
}

// ParseGlucose converts extractor output into an integer mg/dL reading.
// Non-numeric output is a parse failure and nothing gets stored; a reading
// outside the healthy range is stored anyway, flagged invalid.
func ParseGlucose(raw string) (reading int, isValid bool, err error) {
	trimmed := strings.TrimSpace(raw)
	reading, convErr := strconv.Atoi(trimmed)
	if convErr != nil {
		return 0, false, faults.NewParse(raw, convErr)
	}
	return reading, models.InHealthyRange(reading), nil
}

// ParseFood splits extractor output into a description and an optional
// calorie count. A colon introduces the calorie suffix; a colon with a
// non-integer suffix fails the whole log attempt. No colon means calories
// are absent, not zero.
func ParseFood(raw string) (description string, calories *int, err error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil, faults.NewParse(raw, fmt.Errorf("empty food description"))
	}

	if idx := strings.Index(trimmed, ":"); idx >= 0 {
		description = strings.TrimSpace(trimmed[:idx])
		suffix := strings.TrimSpace(trimmed[idx+1:])
		n, convErr := strconv.Atoi(suffix)
		if convErr != nil {
			return "", nil, faults.NewParse(raw, convErr)
		}
		if description == "" {
			return "", nil, faults.NewParse(raw, fmt.Errorf("empty food description before calorie suffix"))
		}
		return description, &n, nil
	}

	return trimmed, nil, nil
}
