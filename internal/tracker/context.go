// internal/tracker/context.go
package tracker

import (
	"fmt"
	"strconv"
	"strings"

	"mcp-health-log/internal/models"
)

// BuildPlanContext assembles the decision context handed to the planner
// capability: profile attributes plus the recent readings window. Pure string
// assembly; the healthy range appears as reference information only, the
// numeric check lives with the parser.
func BuildPlanContext(profile *models.Profile, readings []int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dietary preference: %s\n", profile.DietaryPreference)
	fmt.Fprintf(&b, "Medical conditions: %s\n", profile.MedicalConditions)

	if len(readings) == 0 {
		b.WriteString("Recent CGM readings (mg/dL, most recent first): none recorded\n")
	} else {
		values := make([]string, len(readings))
		for i, r := range readings {
			values[i] = strconv.Itoa(r)
		}
		fmt.Fprintf(&b, "Recent CGM readings (mg/dL, most recent first): %s\n", strings.Join(values, ", "))
	}

	fmt.Fprintf(&b, "Healthy range reference: %d-%d mg/dL\n",
		models.GlucoseHealthyMin, models.GlucoseHealthyMax)

	return b.String()
}
