// internal/signal/parse_test.go
package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-health-log/internal/faults"
)

func TestParseMood_Normalizes(t *testing.T) {
	mood, err := ParseMood("  Anxious \n")
	require.NoError(t, err)
	assert.Equal(t, "anxious", mood)
}

func TestParseMood_AcceptsAnyNonEmptyToken(t *testing.T) {
	// No vocabulary constraint: whatever the extractor says goes.
	mood, err := ParseMood("Mildly Overcaffeinated")
	require.NoError(t, err)
	assert.Equal(t, "mildly overcaffeinated", mood)
}

func TestParseMood_EmptyIsParseError(t *testing.T) {
	_, err := ParseMood("   ")
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.CodeParse))
}

func TestParseGlucose_InRange(t *testing.T) {
	reading, isValid, err := ParseGlucose("87")
	require.NoError(t, err)
	assert.Equal(t, 87, reading)
	assert.True(t, isValid)
}

func TestParseGlucose_OutOfRangeStillParses(t *testing.T) {
	reading, isValid, err := ParseGlucose("320")
	require.NoError(t, err)
	assert.Equal(t, 320, reading)
	assert.False(t, isValid)
}

func TestParseGlucose_RangeBoundsInclusive(t *testing.T) {
	for _, tc := range []struct {
		raw   string
		valid bool
	}{
		{"79", false},
		{"80", true},
		{"300", true},
		{"301", false},
	} {
		_, isValid, err := ParseGlucose(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.valid, isValid, tc.raw)
	}
}

func TestParseGlucose_NonNumericIsParseError(t *testing.T) {
	_, _, err := ParseGlucose("around 90 mg/dL")
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.CodeParse))
}

func TestParseGlucose_TrimsWhitespace(t *testing.T) {
	reading, _, err := ParseGlucose(" 142\n")
	require.NoError(t, err)
	assert.Equal(t, 142, reading)
}

func TestParseFood_WithCalorieSuffix(t *testing.T) {
	desc, cal, err := ParseFood("grilled chicken salad: 350")
	require.NoError(t, err)
	assert.Equal(t, "grilled chicken salad", desc)
	require.NotNil(t, cal)
	assert.Equal(t, 350, *cal)
}

func TestParseFood_NoColonMeansAbsentCalories(t *testing.T) {
	desc, cal, err := ParseFood("banana smoothie")
	require.NoError(t, err)
	assert.Equal(t, "banana smoothie", desc)
	assert.Nil(t, cal)
}

func TestParseFood_BadCalorieSuffixFailsLogAttempt(t *testing.T) {
	_, _, err := ParseFood("rice and dal: plenty")
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.CodeParse))
}

func TestParseFood_EmptyIsParseError(t *testing.T) {
	_, _, err := ParseFood("  ")
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.CodeParse))
}

func TestCheckPlan_AcceptsThreeSlots(t *testing.T) {
	plan, err := CheckPlan("- Breakfast: steel-cut oats\n- Lunch: lentil soup\n- Dinner: grilled salmon")
	require.NoError(t, err)
	require.Len(t, plan.Slots, 3)
	assert.Equal(t, "Breakfast", plan.Slots[0].Label)
	assert.Equal(t, "grilled salmon", plan.Slots[2].Food)
}

func TestCheckPlan_ToleratesFencesAndBlankLines(t *testing.T) {
	raw := "```\n- Breakfast: eggs\n\n- Lunch: quinoa bowl\n- Snack: almonds\n```"
	plan, err := CheckPlan(raw)
	require.NoError(t, err)
	assert.Len(t, plan.Slots, 3)
	assert.Equal(t, "Snack", plan.Slots[2].Label)
}

func TestCheckPlan_RejectsTwoSlots(t *testing.T) {
	_, err := CheckPlan("- Breakfast: eggs\n- Lunch: soup")
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.CodeExtraction))
}

func TestCheckPlan_RejectsProse(t *testing.T) {
	_, err := CheckPlan("Here is a plan that should stabilize your glucose levels.")
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.CodeExtraction))
}

func TestCheckPlan_RejectsUnlabeledSlot(t *testing.T) {
	_, err := CheckPlan("- Breakfast: eggs\n- Lunch: soup\n- grilled salmon")
	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.CodeExtraction))
}
