// ABOUTME: Earned achievement storage.
// ABOUTME: Awards are idempotent per (achievement, user, movement) via a unique index.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/liftlog/internal/models"
)

// AwardAchievement records an award and reports whether it was new.
// Re-awarding an existing triple is a no-op that returns false.
func (q *queries) AwardAchievement(ctx context.Context, a *models.EarnedAchievement) (bool, error) {
	result, err := q.q.ExecContext(ctx, `
		INSERT INTO earned_achievements (id, achievement_id, user_id, movement_name, date_earned)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(achievement_id, user_id, movement_name) DO NOTHING
	`, a.ID.String(), string(a.AchievementID), a.UserID, a.MovementName, formatTimestamp(a.DateEarned))
	if err != nil {
		return false, fmt.Errorf("award achievement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("award achievement: %w", err)
	}
	return affected == 1, nil
}

// ListAchievements returns a user's awards, most recent first.
// An empty userID lists every user's awards.
func (q *queries) ListAchievements(ctx context.Context, userID string, limit int) ([]*models.EarnedAchievement, error) {
	query := `
		SELECT id, achievement_id, user_id, movement_name, date_earned
		FROM earned_achievements
	`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY date_earned DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var out []*models.EarnedAchievement
	for rows.Next() {
		var a models.EarnedAchievement
		var idStr, achievementID, dateEarned string
		if err := rows.Scan(&idStr, &achievementID, &a.UserID, &a.MovementName, &dateEarned); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		if a.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse achievement id %q: %w", idStr, err)
		}
		a.AchievementID = models.AchievementID(achievementID)
		a.DateEarned = parseTimestamp(dateEarned)
		out = append(out, &a)
	}
	return out, rows.Err()
}
