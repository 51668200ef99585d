// internal/server/tools_test.go
package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mcp-health-log/internal/extract"
	"mcp-health-log/internal/models"
	"mcp-health-log/internal/storage"
	"mcp-health-log/internal/tracker"
)

// blockingExtractor waits for the call context to expire; used to verify the
// per-call deadline.
type blockingExtractor struct{}

func (b *blockingExtractor) Transform(ctx context.Context, _ extract.Capability, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type cannedExtractor struct {
	replies map[extract.Capability]string
}

func (c *cannedExtractor) Transform(_ context.Context, cap extract.Capability, _ string) (string, error) {
	return c.replies[cap], nil
}

func newToolServer(t *testing.T, ext extract.Extractor, timeout time.Duration) (*HealthLogServer, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "health-log.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SaveIndividual(
		&models.Identity{UserID: "u-1", FirstName: "Priya", LastName: "Sharma"},
		&models.Profile{DietaryPreference: "vegetarian", MedicalConditions: "Type 2 Diabetes"},
	))

	trk := tracker.NewTracker(store, ext, 3, zap.NewNop())
	return &HealthLogServer{
		tracker: trk,
		logger:  zap.NewNop(),
		timeout: timeout,
	}, store
}

func seedReadings(t *testing.T, store *storage.SQLiteStorage, values ...int) {
	t.Helper()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, v := range values {
		require.NoError(t, store.AppendGlucose(&models.GlucoseReading{
			UserID:     "u-1",
			Reading:    v,
			IsValid:    models.InHealthyRange(v),
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
}

func resultJSON(t *testing.T, result *protocol.CallToolResult, target interface{}) {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(protocol.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), target))
}

func TestRecentReadings_HonorsLimitParameter(t *testing.T) {
	srv, store := newToolServer(t, &cannedExtractor{}, time.Second)
	seedReadings(t, store, 95, 110, 142)

	result, err := srv.handleRecentReadings(context.Background(), &protocol.CallToolRequest{
		Name:      "get_recent_readings",
		Arguments: map[string]interface{}{"user_id": "u-1", "limit": 1},
	})
	require.NoError(t, err)

	var window models.ReadingsWindow
	resultJSON(t, result, &window)
	assert.Equal(t, []int{142}, window.Readings)
}

func TestRecentReadings_ZeroLimitUsesConfiguredWindow(t *testing.T) {
	srv, store := newToolServer(t, &cannedExtractor{}, time.Second)
	seedReadings(t, store, 95, 110, 142, 155)

	result, err := srv.handleRecentReadings(context.Background(), &protocol.CallToolRequest{
		Name:      "get_recent_readings",
		Arguments: map[string]interface{}{"user_id": "u-1"},
	})
	require.NoError(t, err)

	var window models.ReadingsWindow
	resultJSON(t, result, &window)
	assert.Equal(t, []int{155, 142, 110}, window.Readings)
}

func TestGlucoseHistory_ExposesValidityFlag(t *testing.T) {
	srv, store := newToolServer(t, &cannedExtractor{}, time.Second)
	seedReadings(t, store, 87, 320)

	result, err := srv.handleGlucoseHistory(context.Background(), &protocol.CallToolRequest{
		Name:      "get_glucose_history",
		Arguments: map[string]interface{}{"user_id": "u-1", "limit": 2},
	})
	require.NoError(t, err)

	var history []*models.GlucoseReading
	resultJSON(t, result, &history)
	require.Len(t, history, 2)
	assert.Equal(t, 320, history[0].Reading)
	assert.False(t, history[0].IsValid)
	assert.Equal(t, 87, history[1].Reading)
	assert.True(t, history[1].IsValid)
}

func TestHandleHTTP_AppliesExtractionDeadline(t *testing.T) {
	srv, _ := newToolServer(t, &blockingExtractor{}, 20*time.Millisecond)

	body := `{"name": "log_mood", "arguments": {"user_id": "u-1", "input": "so tired"}}`
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		srv.handleHTTP(rec, req)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return; extraction deadline not applied")
	}

	// A hung generation call surfaces as an extraction failure.
	assert.Equal(t, 502, rec.Code)
}

func TestHandleHTTP_RoutesUnknownTool(t *testing.T) {
	srv, _ := newToolServer(t, &cannedExtractor{}, time.Second)

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name": "drop_tables"}`))
	rec := httptest.NewRecorder()
	srv.handleHTTP(rec, req)
	assert.Equal(t, 404, rec.Code)
}
