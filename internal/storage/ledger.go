// ABOUTME: XP ledger storage keyed by user.
// ABOUTME: Totals only ever grow; AddXP upserts and returns the new total.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/liftlog/internal/models"
)

// GetUserProgress returns a user's ledger row or ErrNotFound.
func (q *queries) GetUserProgress(ctx context.Context, userID string) (*UserProgress, error) {
	var p UserProgress
	var updatedAt string

	err := q.q.QueryRowContext(ctx, `
		SELECT user_id, total_xp, updated_at FROM user_progress WHERE user_id = ?
	`, userID).Scan(&p.UserID, &p.TotalXP, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user progress: %w", err)
	}

	p.UpdatedAt = parseTimestamp(updatedAt)
	return &p, nil
}

// AddXP credits xp to a user, creating the ledger row on first use, and returns the new total.
func (q *queries) AddXP(ctx context.Context, userID string, xp int64, at time.Time) (int64, error) {
	if xp < 0 {
		return 0, models.NewValidationError("xp", "must not be negative, got %d", xp)
	}

	var total int64
	err := q.q.QueryRowContext(ctx, `
		INSERT INTO user_progress (user_id, total_xp, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_xp = total_xp + excluded.total_xp,
			updated_at = excluded.updated_at
		RETURNING total_xp
	`, userID, xp, formatTimestamp(at)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("add xp: %w", err)
	}
	return total, nil
}

// listUserProgress returns every ledger row; used by export.
func (q *queries) listUserProgress(ctx context.Context) ([]*UserProgress, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT user_id, total_xp, updated_at FROM user_progress ORDER BY user_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list user progress: %w", err)
	}
	defer rows.Close()

	var out []*UserProgress
	for rows.Next() {
		var p UserProgress
		var updatedAt string
		if err := rows.Scan(&p.UserID, &p.TotalXP, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan user progress: %w", err)
		}
		p.UpdatedAt = parseTimestamp(updatedAt)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// restoreUserProgress writes an imported ledger row; used by import.
// An existing total is never lowered.
func (q *queries) restoreUserProgress(ctx context.Context, p *UserProgress) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO user_progress (user_id, total_xp, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_xp = excluded.total_xp,
			updated_at = excluded.updated_at
		WHERE excluded.total_xp > total_xp
	`, p.UserID, p.TotalXP, formatTimestamp(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("restore user progress: %w", err)
	}
	return nil
}
