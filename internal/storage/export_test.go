// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON and YAML export and transactional JSON import.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/liftlog/internal/models"
	"gopkg.in/yaml.v3"
)

func seedExportFixture(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	w := models.NewWorkoutEvent("alice", "Clean", 80, 3).WithDate(day("2025-01-10")).WithNotes("test note")
	if err := db.CreateWorkout(ctx, w); err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}
	if err := db.SetMovementDifficulty(ctx, "Clean", models.Beginner, models.Intermediate); err != nil {
		t.Fatalf("SetMovementDifficulty failed: %v", err)
	}
	if _, err := db.AddXP(ctx, "alice", 150, time.Now()); err != nil {
		t.Fatalf("AddXP failed: %v", err)
	}
	a := models.NewEarnedAchievement(models.AchievementWeightMaster, "alice", "", time.Now())
	if _, err := db.AwardAchievement(ctx, a); err != nil {
		t.Fatalf("AwardAchievement failed: %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	seedExportFixture(t, db)

	data, err := db.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, export.Version)
	}
	if export.Tool != "liftlog" {
		t.Errorf("Expected tool liftlog, got %s", export.Tool)
	}
	if len(export.Movements) != len(models.Catalog) {
		t.Errorf("Expected %d movements, got %d", len(models.Catalog), len(export.Movements))
	}
	if len(export.Workouts) != 1 {
		t.Errorf("Expected 1 workout, got %d", len(export.Workouts))
	}
	if len(export.Progress) != 1 || export.Progress[0].TotalXP != 150 {
		t.Errorf("Expected alice at 150 XP, got %+v", export.Progress)
	}
	if len(export.Achievements) != 1 {
		t.Errorf("Expected 1 achievement, got %d", len(export.Achievements))
	}
	if !strings.Contains(string(data), `"current_difficulty": "INTERMEDIATE"`) {
		t.Error("expected tiers to be exported by name")
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	seedExportFixture(t, db)

	data, err := db.ExportYAML(context.Background())
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}

	workouts, ok := parsed["workouts"].(map[string]any)
	if !ok {
		t.Fatalf("expected workouts grouped by movement, got %T", parsed["workouts"])
	}
	if _, ok := workouts["Clean"]; !ok {
		t.Error("expected a Clean group in YAML export")
	}
	if !strings.Contains(string(data), "notes: test note") {
		t.Error("expected notes in YAML export")
	}
}

func TestImportJSONRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	seedExportFixture(t, src)
	ctx := context.Background()

	data, err := src.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := setupTestDB(t)
	if err := dst.ImportJSON(ctx, data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	m, err := dst.GetMovement(ctx, "Clean")
	if err != nil {
		t.Fatalf("GetMovement failed: %v", err)
	}
	if m.CurrentDifficulty != models.Intermediate {
		t.Errorf("imported tier = %s, want INTERMEDIATE", m.CurrentDifficulty)
	}

	p, err := dst.GetUserProgress(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserProgress failed: %v", err)
	}
	if p.TotalXP != 150 {
		t.Errorf("imported XP = %d, want 150 (not recomputed)", p.TotalXP)
	}

	ws, err := dst.ListWorkouts(ctx, WorkoutFilter{UserID: "alice"})
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(ws) != 1 || ws[0].Notes == nil || *ws[0].Notes != "test note" {
		t.Errorf("unexpected imported workouts: %+v", ws)
	}
}

func TestImportJSONIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	good := models.NewWorkoutEvent("alice", "Clean", 80, 3)
	bad := models.NewWorkoutEvent("alice", "Zercher Squat", 80, 3)
	data, err := json.Marshal(&ExportData{
		Version:  ExportVersion,
		Workouts: []*models.WorkoutEvent{good, bad},
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if err := db.ImportJSON(ctx, data); err == nil {
		t.Fatal("expected import to fail on uncataloged movement")
	}

	if _, err := db.GetWorkout(ctx, good.ID.String()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected partial import to be rolled back, got %v", err)
	}
}

func TestImportJSONRejectsUnknownVersion(t *testing.T) {
	db := setupTestDB(t)

	err := db.ImportJSON(context.Background(), []byte(`{"version":"9.9"}`))
	if err == nil || !strings.Contains(err.Error(), "unsupported export version") {
		t.Errorf("expected version error, got %v", err)
	}
}

func TestImportJSONInvalid(t *testing.T) {
	db := setupTestDB(t)

	if err := db.ImportJSON(context.Background(), []byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

// workoutJSON renders one exported workout; a nil override drops the key.
func workoutJSON(t *testing.T, overrides map[string]any) json.RawMessage {
	t.Helper()
	w := map[string]any{
		"id":                     "11111111-1111-1111-1111-111111111111",
		"user_id":                "bob",
		"movement":               "Clean",
		"date":                   "2025-01-10T00:00:00Z",
		"weight":                 60,
		"reps":                   3,
		"difficulty_level":       "BEGINNER",
		"completed_successfully": true,
	}
	for k, v := range overrides {
		if v == nil {
			delete(w, k)
			continue
		}
		w[k] = v
	}
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return data
}

func importDoc(t *testing.T, fields map[string]any) []byte {
	t.Helper()
	doc := map[string]any{"version": ExportVersion}
	for k, v := range fields {
		doc[k] = v
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	return data
}

func TestImportJSONRejectsInvalidWorkouts(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{"missing difficulty", map[string]any{"difficulty_level": nil}},
		{"missing id", map[string]any{"id": nil}},
		{"empty user", map[string]any{"user_id": " "}},
		{"zero reps", map[string]any{"reps": 0}},
		{"negative weight", map[string]any{"weight": -5}},
		{"missing date", map[string]any{"date": nil}},
		{"uncataloged movement", map[string]any{"movement": "Zercher Squat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			ctx := context.Background()

			data := importDoc(t, map[string]any{
				"workouts": []json.RawMessage{workoutJSON(t, tt.overrides)},
			})
			if err := db.ImportJSON(ctx, data); err == nil {
				t.Fatal("expected import to fail")
			}

			// the movement stays readable and writable
			if err := db.CreateWorkout(ctx, models.NewWorkoutEvent("bob", "Clean", 60, 3)); err != nil {
				t.Fatalf("CreateWorkout failed: %v", err)
			}
			ws, err := db.ListWorkouts(ctx, WorkoutFilter{Movement: "Clean"})
			if err != nil {
				t.Fatalf("ListWorkouts failed: %v", err)
			}
			if len(ws) != 1 {
				t.Errorf("expected only the new set, got %d", len(ws))
			}
		})
	}
}

func TestImportJSONCanonicalizesMovement(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	data := importDoc(t, map[string]any{
		"workouts": []json.RawMessage{workoutJSON(t, map[string]any{"movement": "back squat"})},
	})
	if err := db.ImportJSON(ctx, data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	ws, err := db.ListWorkouts(ctx, WorkoutFilter{UserID: "bob"})
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(ws) != 1 || ws[0].Movement != "Back Squat" {
		t.Errorf("expected canonical Back Squat, got %+v", ws)
	}
}

func TestCreateWorkoutRejectsUnknownTier(t *testing.T) {
	db := setupTestDB(t)

	w := models.NewWorkoutEvent("bob", "Clean", 60, 3)
	w.DifficultyLevel = 0
	err := db.CreateWorkout(context.Background(), w)
	if !models.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestImportJSONRefusesPopulatedLog(t *testing.T) {
	db := setupTestDB(t)
	seedExportFixture(t, db)
	ctx := context.Background()

	data := importDoc(t, map[string]any{
		"progress": []map[string]any{{"user_id": "alice", "total_xp": 10, "updated_at": "2025-01-10T00:00:00Z"}},
	})
	if err := db.ImportJSON(ctx, data); err == nil {
		t.Fatal("expected import into a populated log to fail")
	}

	p, err := db.GetUserProgress(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserProgress failed: %v", err)
	}
	if p.TotalXP != 150 {
		t.Errorf("TotalXP = %d, want 150", p.TotalXP)
	}
}

func TestImportJSONNeverLowersXP(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.AddXP(ctx, "alice", 5000, time.Now()); err != nil {
		t.Fatalf("AddXP failed: %v", err)
	}

	data := importDoc(t, map[string]any{
		"progress": []map[string]any{
			{"user_id": "alice", "total_xp": 10, "updated_at": "2025-01-10T00:00:00Z"},
			{"user_id": "bob", "total_xp": 6000, "updated_at": "2025-01-10T00:00:00Z"},
		},
	})
	if err := db.ImportJSON(ctx, data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	for user, want := range map[string]int64{"alice": 5000, "bob": 6000} {
		p, err := db.GetUserProgress(ctx, user)
		if err != nil {
			t.Fatalf("GetUserProgress(%s) failed: %v", user, err)
		}
		if p.TotalXP != want {
			t.Errorf("%s TotalXP = %d, want %d", user, p.TotalXP, want)
		}
	}
}

func TestImportJSONTierNeedsWorkouts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	data := importDoc(t, map[string]any{
		"movements": []map[string]any{
			{"name": "Clean", "current_difficulty": "ELITE", "progression_threshold": 3},
			{"name": "Snatch", "current_difficulty": "ADVANCED", "progression_threshold": 3},
		},
		"workouts": []json.RawMessage{workoutJSON(t, map[string]any{"movement": "Snatch", "difficulty_level": "INTERMEDIATE"})},
	})
	if err := db.ImportJSON(ctx, data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	tests := map[string]models.Difficulty{
		"Clean":  models.Beginner,
		"Snatch": models.Advanced,
	}
	for name, want := range tests {
		m, err := db.GetMovement(ctx, name)
		if err != nil {
			t.Fatalf("GetMovement(%s) failed: %v", name, err)
		}
		if m.CurrentDifficulty != want {
			t.Errorf("%s tier = %s, want %s", name, m.CurrentDifficulty, want)
		}
	}
}

func TestImportJSONRejectsBadAchievements(t *testing.T) {
	tests := []struct {
		name string
		row  map[string]any
	}{
		{"unknown achievement", map[string]any{"id": "22222222-2222-2222-2222-222222222222", "achievement_id": "speed_demon", "user_id": "bob", "date_earned": "2025-01-10T00:00:00Z"}},
		{"empty user", map[string]any{"id": "22222222-2222-2222-2222-222222222222", "achievement_id": "weight_master", "user_id": "", "date_earned": "2025-01-10T00:00:00Z"}},
		{"uncataloged movement", map[string]any{"id": "22222222-2222-2222-2222-222222222222", "achievement_id": "weight_master", "user_id": "bob", "movement_name": "Zercher Squat", "date_earned": "2025-01-10T00:00:00Z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			ctx := context.Background()

			data := importDoc(t, map[string]any{"achievements": []map[string]any{tt.row}})
			if err := db.ImportJSON(ctx, data); err == nil {
				t.Fatal("expected import to fail")
			}

			earned, err := db.ListAchievements(ctx, "", 0)
			if err != nil {
				t.Fatalf("ListAchievements failed: %v", err)
			}
			if len(earned) != 0 {
				t.Errorf("expected no awards after rejected import, got %d", len(earned))
			}
		})
	}
}
