// ABOUTME: Gamification ledger: XP accrual, level-ups, and achievement awards per workout.
// ABOUTME: Awards rely on the store's uniqueness guarantee, so re-processing is harmless.
package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
)

const (
	// WeightMasterKg is the load that earns Weight Master.
	WeightMasterKg = 100.0

	// ConsistencyDays is the trailing window, ending on the workout date, that must be fully trained.
	ConsistencyDays = 7

	recentAchievementsLimit = 5
)

// Store is the subset of storage the ledger uses.
type Store interface {
	AddXP(ctx context.Context, userID string, xp int64, at time.Time) (int64, error)
	GetUserProgress(ctx context.Context, userID string) (*storage.UserProgress, error)
	WorkoutDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
	AwardAchievement(ctx context.Context, a *models.EarnedAchievement) (bool, error)
	ListAchievements(ctx context.Context, userID string, limit int) ([]*models.EarnedAchievement, error)
}

// ProgressUpdate is what one workout did to a user's ledger.
type ProgressUpdate struct {
	XPGained           int64                `json:"xp_gained"`
	TotalXP            int64                `json:"total_xp"`
	NewLevel           *LevelInfo           `json:"new_level,omitempty"`
	AchievementsEarned []models.Achievement `json:"achievements_earned"`
}

// AchievementView is an earned achievement joined with its definition.
type AchievementView struct {
	ID           models.AchievementID `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	DateEarned   time.Time            `json:"date_earned"`
	MovementName string               `json:"movement_name,omitempty"`
}

// UserProgress summarizes a user's standing.
type UserProgress struct {
	UserID             string            `json:"user_id"`
	TotalXP            int64             `json:"total_xp"`
	CurrentLevel       LevelInfo         `json:"current_level"`
	NextLevel          *LevelInfo        `json:"next_level,omitempty"`
	ProgressPercent    int               `json:"progress_percent"`
	RecentAchievements []AchievementView `json:"recent_achievements"`
}

// ProcessWorkout credits XP for w and awards any achievements it unlocks.
// Only achievements that were not already held are reported.
func ProcessWorkout(ctx context.Context, store Store, w *models.WorkoutEvent, now time.Time) (*ProgressUpdate, error) {
	xp := XPForWorkout(w)

	total, err := store.AddXP(ctx, w.UserID, xp, now)
	if err != nil {
		return nil, fmt.Errorf("credit xp: %w", err)
	}

	update := &ProgressUpdate{
		XPGained:           xp,
		TotalXP:            total,
		AchievementsEarned: []models.Achievement{},
	}

	before, after := LevelFor(total-xp), LevelFor(total)
	if after.Level > before.Level {
		update.NewLevel = &after
	}

	unlocked, err := qualifyingAchievements(ctx, store, w)
	if err != nil {
		return nil, err
	}

	for _, u := range unlocked {
		created, err := store.AwardAchievement(ctx, models.NewEarnedAchievement(u.id, w.UserID, u.movement, now))
		if err != nil {
			return nil, fmt.Errorf("award %s: %w", u.id, err)
		}
		if created {
			update.AchievementsEarned = append(update.AchievementsEarned, models.Achievements[u.id])
		}
	}

	return update, nil
}

type unlock struct {
	id       models.AchievementID
	movement string
}

// qualifyingAchievements evaluates every predicate against w.
func qualifyingAchievements(ctx context.Context, store Store, w *models.WorkoutEvent) ([]unlock, error) {
	var out []unlock

	if w.Weight >= WeightMasterKg {
		out = append(out, unlock{models.AchievementWeightMaster, w.Movement})
	}

	day := models.Day(w.Date)
	dates, err := store.WorkoutDates(ctx, w.UserID, day.AddDate(0, 0, -(ConsistencyDays-1)), day)
	if err != nil {
		return nil, fmt.Errorf("check consistency: %w", err)
	}
	if len(dates) >= ConsistencyDays {
		out = append(out, unlock{models.AchievementConsistencyKing, ""})
	}

	switch w.DifficultyLevel {
	case models.Advanced:
		out = append(out, unlock{models.AchievementMovementExpert, w.Movement})
	case models.Elite:
		out = append(out, unlock{models.AchievementEliteStatus, w.Movement})
	}

	return out, nil
}

// GetUserProgress reports a user's level, progress to the next level, and recent awards.
// Users with no ledger row yield ErrNotFound.
func GetUserProgress(ctx context.Context, store Store, userID string) (*UserProgress, error) {
	p, err := store.GetUserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := store.ListAchievements(ctx, userID, recentAchievementsLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent achievements: %w", err)
	}

	current := LevelFor(p.TotalXP)
	progress := &UserProgress{
		UserID:             userID,
		TotalXP:            p.TotalXP,
		CurrentLevel:       current,
		RecentAchievements: Views(recent),
	}

	if next, ok := NextLevel(current.Level); ok {
		progress.NextLevel = &next
		progress.ProgressPercent = percentToward(p.TotalXP, current.XPRequired, next.XPRequired)
	}
	return progress, nil
}

// Views joins earned achievements with their definitions.
func Views(earned []*models.EarnedAchievement) []AchievementView {
	views := make([]AchievementView, 0, len(earned))
	for _, e := range earned {
		def, ok := models.Achievements[e.AchievementID]
		if !ok {
			def = models.Achievement{ID: e.AchievementID, Name: string(e.AchievementID)}
		}
		views = append(views, AchievementView{
			ID:           e.AchievementID,
			Name:         def.Name,
			Description:  def.Description,
			DateEarned:   e.DateEarned,
			MovementName: e.MovementName,
		})
	}
	return views
}

// percentToward is the truncated percentage of the way from lo to hi, clamped to [0, 100].
func percentToward(total, lo, hi int64) int {
	if hi <= lo {
		return 0
	}
	pct := int(float64(total-lo) / float64(hi-lo) * 100)
	return max(0, min(100, pct))
}
