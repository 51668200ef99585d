// internal/models/health.go
package models

import (
	"time"
)

// Healthy glucose range in mg/dL, inclusive. Readings outside it are still
// stored, flagged invalid.
const (
	GlucoseHealthyMin = 80
	GlucoseHealthyMax = 300
)

type Identity struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Profile struct {
	DietaryPreference string `json:"dietary_preference"`
	MedicalConditions string `json:"medical_conditions"`
}

type MoodLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Mood       string    `json:"mood"`
	RecordedAt time.Time `json:"recorded_at"`
}

type GlucoseReading struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Reading    int       `json:"reading"` // mg/dL
	IsValid    bool      `json:"is_valid"`
	RecordedAt time.Time `json:"recorded_at"`
}

// FoodEntry is one logged meal or snack. Calories is nil when the extractor
// reported no calorie count; absent is not zero.
type FoodEntry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Calories    *int      `json:"calories,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// ReadingsWindow holds up to N recent glucose values, most-recent-first.
// An empty window is valid.
type ReadingsWindow struct {
	Readings []int `json:"readings"`
}

// MealPlan is the ephemeral three-slot recommendation. It is presented and
// discarded, never persisted.
type MealPlan struct {
	Slots []MealSlot `json:"slots"`
	Raw   string     `json:"raw"`
}

type MealSlot struct {
	Label string `json:"label"` // e.g. "Breakfast"
	Food  string `json:"food"`
}

// InHealthyRange reports whether a glucose reading falls inside the inclusive
// healthy range.
func InHealthyRange(reading int) bool {
	return reading >= GlucoseHealthyMin && reading <= GlucoseHealthyMax
}
