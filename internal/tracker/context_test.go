// internal/tracker/context_test.go
package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mcp-health-log/internal/models"
)

func TestBuildPlanContext_WithReadings(t *testing.T) {
	profile := &models.Profile{
		DietaryPreference: "diabetic-friendly",
		MedicalConditions: "Type 2 Diabetes, PCOS",
	}
	got := BuildPlanContext(profile, []int{320, 142, 110})

	assert.Contains(t, got, "Dietary preference: diabetic-friendly")
	assert.Contains(t, got, "Medical conditions: Type 2 Diabetes, PCOS")
	assert.Contains(t, got, "Recent CGM readings (mg/dL, most recent first): 320, 142, 110")
	assert.Contains(t, got, "Healthy range reference: 80-300 mg/dL")
}

func TestBuildPlanContext_EmptyWindowIsExplicit(t *testing.T) {
	got := BuildPlanContext(&models.Profile{}, nil)
	assert.Contains(t, got, "Recent CGM readings (mg/dL, most recent first): none recorded")
}
