// ABOUTME: Movement catalog storage and the tier compare-and-swap.
// ABOUTME: Movement names match case-insensitively through the NOCASE primary key.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/liftlog/internal/models"
)

// SeedMovements inserts any catalog movements that are missing, leaving existing tiers alone.
func (d *DB) SeedMovements(ctx context.Context, names []string, threshold int) error {
	if threshold <= 0 {
		threshold = models.DefaultProgressionThreshold
	}
	return d.WithTx(ctx, func(s Store) error {
		q := s.(*queries)
		for _, name := range names {
			_, err := q.q.ExecContext(ctx, `
				INSERT INTO movements (name, current_difficulty, progression_threshold)
				VALUES (?, ?, ?)
				ON CONFLICT(name) DO NOTHING
			`, name, models.Beginner.String(), threshold)
			if err != nil {
				return fmt.Errorf("seed movement %s: %w", name, err)
			}
		}
		return nil
	})
}

// GetMovement retrieves a movement by case-insensitive name.
func (q *queries) GetMovement(ctx context.Context, name string) (*models.Movement, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT name, current_difficulty, progression_threshold
		FROM movements
		WHERE name = ?
	`, name)

	m, err := scanMovement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movement %s: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListMovements returns every movement in catalog insertion order.
func (q *queries) ListMovements(ctx context.Context) ([]*models.Movement, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT name, current_difficulty, progression_threshold
		FROM movements
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []*models.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("list movements: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// SetMovementDifficulty moves a movement from one tier to another.
// It fails with ErrConflict when the stored tier is no longer from.
func (q *queries) SetMovementDifficulty(ctx context.Context, name string, from, to models.Difficulty) error {
	if !to.IsValid() {
		return models.NewValidationError("difficulty", "unknown tier %d", int(to))
	}

	result, err := q.q.ExecContext(ctx, `
		UPDATE movements SET current_difficulty = ?
		WHERE name = ? AND current_difficulty = ?
	`, to.String(), name, from.String())
	if err != nil {
		return fmt.Errorf("set movement difficulty: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set movement difficulty: %w", err)
	}
	if affected == 1 {
		return nil
	}

	if _, err := q.GetMovement(ctx, name); err != nil {
		return err
	}
	return fmt.Errorf("movement %s is no longer %s: %w", name, from, models.ErrConflict)
}

// restoreMovement writes an imported movement; used by import.
// The tier is only taken when withTier is set, otherwise an existing row is left alone.
func (q *queries) restoreMovement(ctx context.Context, m *models.Movement, withTier bool) error {
	query := `
		INSERT INTO movements (name, current_difficulty, progression_threshold)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`
	difficulty := models.Beginner
	if withTier {
		difficulty = m.CurrentDifficulty
		query = `
		INSERT INTO movements (name, current_difficulty, progression_threshold)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			current_difficulty = excluded.current_difficulty,
			progression_threshold = excluded.progression_threshold
		`
	}

	if _, err := q.q.ExecContext(ctx, query, m.Name, difficulty.String(), m.ProgressionThreshold); err != nil {
		return fmt.Errorf("restore movement: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovement(row scanner) (*models.Movement, error) {
	var m models.Movement
	var difficulty string

	if err := row.Scan(&m.Name, &difficulty, &m.ProgressionThreshold); err != nil {
		return nil, err
	}

	d, err := models.ParseDifficulty(difficulty)
	if err != nil {
		return nil, fmt.Errorf("movement %s: %w", m.Name, err)
	}
	m.CurrentDifficulty = d
	return &m, nil
}
