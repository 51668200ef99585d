// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"go.uber.org/zap"

	"mcp-health-log/internal/models"
)

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type GreetParams struct {
	UserID string `json:"user_id" description:"User to greet"`
}

type LogSignalParams struct {
	UserID string `json:"user_id" description:"User the report belongs to"`
	Input  string `json:"input" description:"Free-text self-report"`
}

type RecentReadingsParams struct {
	UserID string `json:"user_id" description:"User whose readings to fetch"`
	Limit  int    `json:"limit,omitempty" description:"Maximum rows to return (defaults to the configured window)"`
}

type MealPlanParams struct {
	UserID string `json:"user_id" description:"User to plan meals for"`
}

type RegisterParams struct {
	UserID            string `json:"user_id" description:"External user key"`
	FirstName         string `json:"first_name" description:"First name"`
	LastName          string `json:"last_name" description:"Last name"`
	DietaryPreference string `json:"dietary_preference,omitempty" description:"e.g. vegetarian, diabetic-friendly"`
	MedicalConditions string `json:"medical_conditions,omitempty" description:"e.g. Type 2 Diabetes"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal parameters: %w", err)
	}

	return nil
}

func (s *HealthLogServer) tools() map[string]toolHandler {
	return map[string]toolHandler{
		"greet_user":          s.handleGreet,
		"log_mood":            s.handleLogMood,
		"log_glucose":         s.handleLogGlucose,
		"log_food":            s.handleLogFood,
		"get_recent_readings": s.handleRecentReadings,
		"get_glucose_history": s.handleGlucoseHistory,
		"generate_meal_plan":  s.handleMealPlan,
		"register_user":       s.handleRegister,
	}
}

func (s *HealthLogServer) handleGreet(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GreetParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	greeting, err := s.tracker.Greet(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	return s.createJSONResponse(map[string]string{"greeting": greeting})
}

func (s *HealthLogServer) handleLogMood(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	params, err := signalParams(req)
	if err != nil {
		return nil, err
	}

	log, err := s.tracker.LogMood(ctx, params.UserID, params.Input)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(log)
}

func (s *HealthLogServer) handleLogGlucose(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	params, err := signalParams(req)
	if err != nil {
		return nil, err
	}

	reading, err := s.tracker.LogGlucose(ctx, params.UserID, params.Input)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(reading)
}

func (s *HealthLogServer) handleLogFood(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	params, err := signalParams(req)
	if err != nil {
		return nil, err
	}

	entry, err := s.tracker.LogFood(ctx, params.UserID, params.Input)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(entry)
}

func (s *HealthLogServer) handleRecentReadings(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params RecentReadingsParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	window, err := s.tracker.RecentReadings(params.UserID, params.Limit)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(window)
}

// handleGlucoseHistory returns full recent rows, stored validity flag
// included, where get_recent_readings returns bare values.
func (s *HealthLogServer) handleGlucoseHistory(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params RecentReadingsParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	history, err := s.tracker.GlucoseHistory(params.UserID, params.Limit)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(history)
}

func (s *HealthLogServer) handleMealPlan(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params MealPlanParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	plan, err := s.tracker.MealPlan(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(plan)
}

func (s *HealthLogServer) handleRegister(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params RegisterParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	identity := &models.Identity{
		UserID:    params.UserID,
		FirstName: params.FirstName,
		LastName:  params.LastName,
	}
	profile := &models.Profile{
		DietaryPreference: params.DietaryPreference,
		MedicalConditions: params.MedicalConditions,
	}
	if err := s.tracker.Register(identity, profile); err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]string{"status": "registered", "user_id": params.UserID})
}

func signalParams(req *protocol.CallToolRequest) (*LogSignalParams, error) {
	var params LogSignalParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if params.Input == "" {
		return nil, fmt.Errorf("input is required")
	}
	return &params, nil
}

// registerTools verifies all tool handlers are present at startup.
func (s *HealthLogServer) registerTools() error {
	for name := range s.tools() {
		s.logger.Debug("registered tool", zap.String("name", name))
	}
	return nil
}
