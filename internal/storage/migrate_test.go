// ABOUTME: Tests for data migration between training log databases.
// ABOUTME: Covers a full copy and refusal to overwrite a populated destination.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/liftlog/internal/models"
)

func TestMigrateData(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	seedExportFixture(t, src)

	dst := setupTestDB(t)
	summary, err := MigrateData(ctx, src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}

	if summary.Workouts != 1 {
		t.Errorf("Workouts = %d, want 1", summary.Workouts)
	}
	if summary.Movements != len(models.Catalog) {
		t.Errorf("Movements = %d, want %d", summary.Movements, len(models.Catalog))
	}
	if summary.Users != 1 || summary.Achievements != 1 {
		t.Errorf("Users/Achievements = %d/%d, want 1/1", summary.Users, summary.Achievements)
	}

	m, err := dst.GetMovement(ctx, "Clean")
	if err != nil {
		t.Fatalf("GetMovement failed: %v", err)
	}
	if m.CurrentDifficulty != models.Intermediate {
		t.Errorf("migrated tier = %s, want INTERMEDIATE", m.CurrentDifficulty)
	}
}

func TestMigrateDataRefusesPopulatedDestination(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	seedExportFixture(t, src)

	dst := setupTestDB(t)
	if err := dst.CreateWorkout(ctx, models.NewWorkoutEvent("bob", "Snatch", 50, 2)); err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}

	if _, err := MigrateData(ctx, src, dst); err == nil {
		t.Error("expected migration into a populated destination to fail")
	}
}

func TestIsFileNonEmpty(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.db")
	if got, err := IsFileNonEmpty(missing); err != nil || got {
		t.Errorf("IsFileNonEmpty(missing) = (%v, %v), want (false, nil)", got, err)
	}

	empty := filepath.Join(dir, "empty.db")
	if err := os.WriteFile(empty, nil, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if got, _ := IsFileNonEmpty(empty); got {
		t.Error("expected empty file to report false")
	}

	full := filepath.Join(dir, "full.db")
	if err := os.WriteFile(full, []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if got, _ := IsFileNonEmpty(full); !got {
		t.Error("expected non-empty file to report true")
	}
}
