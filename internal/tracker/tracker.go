// internal/tracker/tracker.go

// Package tracker runs the extraction-validate-record pipeline, one signal at
// a time. Each operation classifies its own failure and leaves the session
// alive; a failed mood log never blocks the glucose or food attempts that
// follow it.
package tracker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mcp-health-log/internal/extract"
	"mcp-health-log/internal/faults"
	"mcp-health-log/internal/models"
	"mcp-health-log/internal/signal"
	"mcp-health-log/internal/storage"
)

type Tracker struct {
	store     *storage.SQLiteStorage
	extractor extract.Extractor
	limit     int // recent-readings window size
	logger    *zap.Logger
}

func NewTracker(store *storage.SQLiteStorage, extractor extract.Extractor, limit int, logger *zap.Logger) *Tracker {
	if limit <= 0 {
		limit = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{store: store, extractor: extractor, limit: limit, logger: logger}
}

// Greet resolves the user's identity and produces a personal greeting. A
// missing user is a NOT_FOUND outcome, not a crash. The greeting text is
// never persisted.
func (t *Tracker) Greet(ctx context.Context, userID string) (string, error) {
	identity, err := t.store.LookupIdentity(userID)
	if err != nil {
		return "", err
	}

	input := fmt.Sprintf("My name is %s %s", identity.FirstName, identity.LastName)
	greeting, err := t.extractor.Transform(ctx, extract.Greeting, input)
	if err != nil {
		t.logger.Warn("greeting generation failed", zap.String("user_id", userID), zap.Error(err))
		return "", faults.NewExtraction(err)
	}
	return greeting, nil
}

// LogMood extracts a mood token from free text and appends it.
func (t *Tracker) LogMood(ctx context.Context, userID, input string) (*models.MoodLog, error) {
	raw, err := t.extractor.Transform(ctx, extract.Mood, input)
	if err != nil {
		return nil, faults.NewExtraction(err)
	}

	mood, err := signal.ParseMood(raw)
	if err != nil {
		return nil, err
	}

	log := &models.MoodLog{
		UserID:     userID,
		Mood:       mood,
		RecordedAt: time.Now().UTC(),
	}
	if err := t.store.AppendMood(log); err != nil {
		return nil, err
	}

	t.logger.Info("mood logged", zap.String("user_id", userID), zap.String("mood", mood))
	return log, nil
}

// LogGlucose extracts a numeric reading and appends it. Non-numeric
// extractor output is a parse failure and nothing is written; an
// out-of-range value is written with is_valid=false.
func (t *Tracker) LogGlucose(ctx context.Context, userID, input string) (*models.GlucoseReading, error) {
	raw, err := t.extractor.Transform(ctx, extract.Glucose, input)
	if err != nil {
		return nil, faults.NewExtraction(err)
	}

	value, isValid, err := signal.ParseGlucose(raw)
	if err != nil {
		return nil, err
	}

	reading := &models.GlucoseReading{
		UserID:     userID,
		Reading:    value,
		IsValid:    isValid,
		RecordedAt: time.Now().UTC(),
	}
	if err := t.store.AppendGlucose(reading); err != nil {
		return nil, err
	}

	t.logger.Info("glucose logged",
		zap.String("user_id", userID),
		zap.Int("reading", value),
		zap.Bool("is_valid", isValid))
	return reading, nil
}

// LogFood extracts a meal description (with optional calorie suffix) and
// appends it.
func (t *Tracker) LogFood(ctx context.Context, userID, input string) (*models.FoodEntry, error) {
	raw, err := t.extractor.Transform(ctx, extract.Food, input)
	if err != nil {
		return nil, faults.NewExtraction(err)
	}

	description, calories, err := signal.ParseFood(raw)
	if err != nil {
		return nil, err
	}

	entry := &models.FoodEntry{
		UserID:      userID,
		Description: description,
		Calories:    calories,
		RecordedAt:  time.Now().UTC(),
	}
	if err := t.store.AppendFood(entry); err != nil {
		return nil, err
	}

	t.logger.Info("food logged", zap.String("user_id", userID), zap.String("description", description))
	return entry, nil
}

// RecentReadings returns the decision window: up to limit glucose values,
// most recent first. A non-positive limit falls back to the configured
// window size.
func (t *Tracker) RecentReadings(userID string, limit int) (*models.ReadingsWindow, error) {
	if limit <= 0 {
		limit = t.limit
	}
	readings, err := t.store.RecentReadings(userID, limit)
	if err != nil {
		return nil, err
	}
	return &models.ReadingsWindow{Readings: readings}, nil
}

// GlucoseHistory returns full recent rows including the stored validity
// flag, most recent first. Same limit default as RecentReadings.
func (t *Tracker) GlucoseHistory(userID string, limit int) ([]*models.GlucoseReading, error) {
	if limit <= 0 {
		limit = t.limit
	}
	return t.store.GlucoseHistory(userID, limit)
}

// MealPlan builds the decision context from profile and recent readings,
// invokes the planner capability once, and checks the three-slot shape of
// its reply. Profile and history misses degrade to empty context rather than
// blocking the recommendation.
func (t *Tracker) MealPlan(ctx context.Context, userID string) (*models.MealPlan, error) {
	profile, err := t.store.LookupProfile(userID)
	if err != nil {
		t.logger.Warn("profile unavailable, planning with empty profile",
			zap.String("user_id", userID), zap.Error(err))
		profile = &models.Profile{}
	}

	readings, err := t.store.RecentReadings(userID, t.limit)
	if err != nil {
		t.logger.Warn("recent readings unavailable, planning without history",
			zap.String("user_id", userID), zap.Error(err))
		readings = nil
	}

	planContext := BuildPlanContext(profile, readings)

	raw, err := t.extractor.Transform(ctx, extract.Planner, planContext)
	if err != nil {
		return nil, faults.NewExtraction(err)
	}

	plan, err := signal.CheckPlan(raw)
	if err != nil {
		t.logger.Warn("planner returned malformed plan", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	t.logger.Info("meal plan generated",
		zap.String("user_id", userID),
		zap.Int("readings_in_context", len(readings)))
	return plan, nil
}

// Register seeds or updates an individual so a fresh database is usable.
func (t *Tracker) Register(identity *models.Identity, profile *models.Profile) error {
	if identity.UserID == "" {
		return faults.NewInvalidRequest("user_id is required")
	}
	if identity.FirstName == "" || identity.LastName == "" {
		return faults.NewInvalidRequest("first and last name are required")
	}
	return t.store.SaveIndividual(identity, profile)
}
