// internal/signal/plan.go
package signal

import (
	"fmt"
	"strings"

	"mcp-health-log/internal/faults"
	"mcp-health-log/internal/models"
)

// CheckPlan verifies the planner's reply has exactly three labeled slots of
// the form "- <Label>: <food>". The generator is not trusted to hold its
// format; a malformed reply is an extraction failure, not presentation text.
// Markdown fences and blank lines around the slots are tolerated.
func CheckPlan(raw string) (*models.MealPlan, error) {
	var slots []models.MealSlot

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "*") {
			return nil, faults.NewExtraction(fmt.Errorf("unexpected plan line %q", line))
		}

		body := strings.TrimSpace(strings.TrimLeft(line, "-* "))
		label, food, ok := strings.Cut(body, ":")
		if !ok {
			return nil, faults.NewExtraction(fmt.Errorf("plan line %q has no slot label", line))
		}
		label = strings.TrimSpace(strings.Trim(label, "*"))
		food = strings.TrimSpace(food)
		if label == "" || food == "" {
			return nil, faults.NewExtraction(fmt.Errorf("plan line %q has an empty slot", line))
		}
		slots = append(slots, models.MealSlot{Label: label, Food: food})
	}

	if len(slots) != 3 {
		return nil, faults.NewExtraction(fmt.Errorf("expected 3 meal slots, got %d", len(slots)))
	}

	return &models.MealPlan{Slots: slots, Raw: raw}, nil
}
