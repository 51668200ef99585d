// internal/extract/capability.go
package extract

import (
	"context"
	"fmt"
)

// Capability selects one specialized text-to-text transform. Each capability
// carries a fixed instruction and no memory of prior turns.
type Capability string

const (
	Mood     Capability = "mood"
	Glucose  Capability = "glucose"
	Food     Capability = "food"
	Greeting Capability = "greeting"
	Planner  Capability = "planner"
)

// Extractor is the single-shot extraction contract: free text in, the
// capability's output string out. Service failures propagate unclassified;
// the caller decides what a failure means for its pipeline.
type Extractor interface {
	Transform(ctx context.Context, cap Capability, input string) (string, error)
}

// instructions holds the fixed system instruction per capability.
var instructions = map[Capability]string{
	Mood: `You are a helpful assistant that detects the user's mood based on what they say.
Extract only the mood/emotion they are expressing (e.g., happy, sad, anxious, excited, tired).
Respond only with the mood as a single word. No extra explanations or text.`,

	Glucose: `You are a helpful assistant that extracts numerical CGM readings from user input.
Only respond with the numeric value (mg/dL) of the glucose level.
Do not explain or add any words - just return the number.`,

	Food: `You are an assistant that helps log food intake.
Extract the user's meal or snack description in a short phrase.
Examples: "grilled chicken salad", "banana smoothie", "rice and dal"
Respond only with the food description. No extra text.`,

	Greeting: `You are a warm and friendly assistant. Your job is to get the user's name and greet them personally.
Once you know the name, greet them like: "Hello <name>! Nice to meet you"
Do not ask for the name again after greeting.`,

	Planner: `You are a smart diet assistant. Your job is to create adaptive meal plans to stabilize glucose levels.
Consider the user's:
- Dietary preference (e.g. vegetarian, vegan, diabetic-friendly)
- Medical conditions (e.g. Type 2 Diabetes, PCOS)
- Last CGM readings (check if they are above or below the healthy range 80-300 mg/dL)

Generate a plan with the next 3 meals (e.g., breakfast, lunch, dinner or snack),
using whole foods that help normalize glucose.
Include just food names, no recipes or explanations.

Format:
- Breakfast: <food>
- Lunch: <food>
- Dinner: <food>`,
}

// Instruction returns the fixed instruction for a capability.
func Instruction(cap Capability) (string, error) {
	instr, ok := instructions[cap]
	if !ok {
		return "", fmt.Errorf("unknown capability: %s", cap)
	}
	return instr, nil
}
