// ABOUTME: WorkoutEvent storage and history queries for SQLite.
// ABOUTME: Events are append-only; dates are stored as calendar-date text.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/liftlog/internal/models"
)

// timestampLayout is fixed-width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const workoutColumns = `id, user_id, movement, date, weight, reps, notes,
	difficulty_level, completed_successfully, created_at`

// CreateWorkout stores a new workout event.
func (q *queries) CreateWorkout(ctx context.Context, w *models.WorkoutEvent) error {
	if !w.DifficultyLevel.IsValid() {
		return models.NewValidationError("difficulty_level", "unknown tier %d", int(w.DifficultyLevel))
	}

	query := `INSERT INTO workouts (` + workoutColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := q.q.ExecContext(ctx, query,
		w.ID.String(),
		w.UserID,
		w.Movement,
		w.Date.Format(models.DateLayout),
		w.Weight,
		w.Reps,
		w.Notes,
		w.DifficultyLevel.String(),
		w.CompletedSuccessfully,
		formatTimestamp(w.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create workout: %w", err)
	}
	return nil
}

// GetWorkout retrieves a workout by ID or ID prefix.
func (q *queries) GetWorkout(ctx context.Context, idOrPrefix string) (*models.WorkoutEvent, error) {
	id, err := q.resolveWorkoutID(ctx, idOrPrefix)
	if err != nil {
		return nil, err
	}

	row := q.q.QueryRowContext(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id)
	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workout %s: %w", idOrPrefix, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}
	return w, nil
}

// ListWorkouts returns workouts matching f, newest first unless f.Ascending.
// Ties on date are broken by insertion order.
func (q *queries) ListWorkouts(ctx context.Context, f WorkoutFilter) ([]*models.WorkoutEvent, error) {
	where, args := f.where()
	query := `SELECT ` + workoutColumns + ` FROM workouts` + where

	if f.Ascending {
		query += ` ORDER BY date ASC, created_at ASC, rowid ASC`
	} else {
		query += ` ORDER BY date DESC, created_at DESC, rowid DESC`
	}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []*models.WorkoutEvent
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("list workouts: %w", err)
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// CountWorkouts counts workouts matching f. Limit and ordering are ignored.
func (q *queries) CountWorkouts(ctx context.Context, f WorkoutFilter) (int, error) {
	where, args := f.where()
	var n int
	if err := q.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM workouts`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count workouts: %w", err)
	}
	return n, nil
}

// MaxWeight returns the heaviest weight a user has logged for a movement.
// ok is false when there is no history.
func (q *queries) MaxWeight(ctx context.Context, userID, movement string) (float64, bool, error) {
	var best sql.NullFloat64
	err := q.q.QueryRowContext(ctx, `
		SELECT MAX(weight) FROM workouts WHERE user_id = ? AND movement = ?
	`, userID, movement).Scan(&best)
	if err != nil {
		return 0, false, fmt.Errorf("max weight: %w", err)
	}
	return best.Float64, best.Valid, nil
}

// WorkoutDates returns the distinct dates a user trained in [from, to], newest first.
// A zero from or to leaves that side unbounded; an empty userID means all users.
func (q *queries) WorkoutDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	where, args := WorkoutFilter{UserID: userID, From: from, To: to}.where()
	rows, err := q.q.QueryContext(ctx, `SELECT DISTINCT date FROM workouts`+where+` ORDER BY date DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list workout dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan workout date: %w", err)
		}
		d, err := time.Parse(models.DateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("parse workout date %q: %w", s, err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// where renders the filter as a SQL WHERE clause.
func (f WorkoutFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Movement != "" {
		conds = append(conds, "movement = ?")
		args = append(args, f.Movement)
	}
	if !f.From.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, models.Day(f.From).Format(models.DateLayout))
	}
	if !f.To.IsZero() {
		conds = append(conds, "date <= ?")
		args = append(args, models.Day(f.To).Format(models.DateLayout))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// resolveWorkoutID finds the full ID from a prefix.
func (q *queries) resolveWorkoutID(ctx context.Context, idOrPrefix string) (string, error) {
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}

	rows, err := q.q.QueryContext(ctx, `SELECT id FROM workouts WHERE id LIKE ? || '%'`, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve workout ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan workout ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve workout ID: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("workout %s: %w", idOrPrefix, models.ErrNotFound)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}
	return matches[0], nil
}

func scanWorkout(row scanner) (*models.WorkoutEvent, error) {
	var w models.WorkoutEvent
	var idStr, date, difficulty, createdAt string
	var notes sql.NullString

	err := row.Scan(&idStr, &w.UserID, &w.Movement, &date, &w.Weight, &w.Reps, &notes,
		&difficulty, &w.CompletedSuccessfully, &createdAt)
	if err != nil {
		return nil, err
	}

	if w.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("parse workout id %q: %w", idStr, err)
	}
	if w.Date, err = time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("parse workout date %q: %w", date, err)
	}
	if w.DifficultyLevel, err = models.ParseDifficulty(difficulty); err != nil {
		return nil, fmt.Errorf("workout %s: %w", idStr, err)
	}
	w.CreatedAt = parseTimestamp(createdAt)
	if notes.Valid {
		w.Notes = &notes.String
	}
	return &w, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}
