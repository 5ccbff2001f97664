// ABOUTME: Recovery and strain scoring over a user's recent workout history.
// ABOUTME: Failures degrade to a tagged zero score that is logged rather than returned.
package recovery

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	// RecoveryWindowDays is how far back recovery looks for prior load.
	RecoveryWindowDays = 7

	// MaxDailyVolume is the expected ceiling of a day's weight times reps, in kg.
	MaxDailyVolume = 10000.0

	// frequencyWindowDays and maxWeeklySessions scale the strain frequency component.
	frequencyWindowDays = 7
	maxWeeklySessions   = 14.0

	loadDecay = 0.8
)

const (
	MessageNoStrainData   = "No training data for this date"
	MessageFullyRecovered = "Fully recovered - No recent training load"
	MessageStrainError    = "Error calculating strain score"
	MessageRecoveryError  = "Error calculating recovery score"
)

var errNonFinite = errors.New("non-finite intermediate value")

// Score is a 1-10 strain or recovery score.
// A score of 0 means either no data (strain) or a degraded result when Error is set.
type Score struct {
	Score      float64            `json:"score"`
	Components map[string]float64 `json:"components,omitempty"`
	Message    string             `json:"message"`
	Error      string             `json:"error,omitempty"`
}

// Degraded reports whether the score could not be computed.
func (s *Score) Degraded() bool {
	return s.Error != ""
}

// Store is the subset of storage the scorer reads.
type Store interface {
	ListWorkouts(ctx context.Context, f storage.WorkoutFilter) ([]*models.WorkoutEvent, error)
	CountWorkouts(ctx context.Context, f storage.WorkoutFilter) (int, error)
	MaxWeight(ctx context.Context, userID, movement string) (float64, bool, error)
}

// Scorer computes strain and recovery for a user.
type Scorer struct {
	store Store
	log   logrus.FieldLogger
}

// NewScorer creates a Scorer reading from store.
func NewScorer(store Store, log logrus.FieldLogger) *Scorer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scorer{store: store, log: log}
}

// Strain scores the training stress of a single calendar date.
func (s *Scorer) Strain(ctx context.Context, userID string, date time.Time) *Score {
	score, err := s.strain(ctx, userID, models.Day(date))
	if err != nil {
		s.log.WithFields(logrus.Fields{"user": userID, "date": date.Format(models.DateLayout)}).
			WithError(err).Warn("strain score degraded")
		return &Score{Score: 0, Message: MessageStrainError, Error: err.Error()}
	}
	return score
}

func (s *Scorer) strain(ctx context.Context, userID string, day time.Time) (*Score, error) {
	events, err := s.store.ListWorkouts(ctx, storage.WorkoutFilter{UserID: userID, From: day, To: day})
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		return &Score{
			Score:      0,
			Components: map[string]float64{"volume": 0, "intensity": 0, "frequency": 0},
			Message:    MessageNoStrainData,
		}, nil
	}

	volume := VolumeScore(events)

	ratios := make([]float64, 0, len(events))
	for _, w := range events {
		pr, ok, err := s.store.MaxWeight(ctx, userID, w.Movement)
		if err != nil {
			return nil, err
		}
		if !ok || pr == 0 {
			ratios = append(ratios, 1)
			continue
		}
		ratios = append(ratios, w.Weight/pr)
	}
	intensity := IntensityScore(ratios)

	count, err := s.store.CountWorkouts(ctx, storage.WorkoutFilter{
		UserID: userID,
		From:   day.AddDate(0, 0, -frequencyWindowDays),
		To:     day,
	})
	if err != nil {
		return nil, err
	}
	frequency := FrequencyScore(count)

	raw := 0.4*volume + 0.3*intensity + 0.3*frequency
	if !finite(raw, volume, intensity, frequency) {
		return nil, errNonFinite
	}

	score := round(clamp(raw, 1, 10), 1)
	return &Score{
		Score: score,
		Components: map[string]float64{
			"volume":    round(volume, 2),
			"intensity": round(intensity, 2),
			"frequency": round(frequency, 2),
		},
		Message: StrainMessage(score),
	}, nil
}

// Recovery scores readiness at the given instant from the prior week of training.
// The day containing at is excluded from the window.
func (s *Scorer) Recovery(ctx context.Context, userID string, at time.Time) *Score {
	score, err := s.recovery(ctx, userID, wallClock(at))
	if err != nil {
		s.log.WithFields(logrus.Fields{"user": userID, "at": at.Format(time.RFC3339)}).
			WithError(err).Warn("recovery score degraded")
		return &Score{Score: 0, Message: MessageRecoveryError, Error: err.Error()}
	}
	return score
}

func (s *Scorer) recovery(ctx context.Context, userID string, at time.Time) (*Score, error) {
	today := models.Day(at)
	recent, err := s.store.ListWorkouts(ctx, storage.WorkoutFilter{
		UserID: userID,
		From:   today.AddDate(0, 0, -RecoveryWindowDays),
		To:     today.AddDate(0, 0, -1),
	})
	if err != nil {
		return nil, err
	}

	if len(recent) == 0 {
		return &Score{Score: 10, Message: MessageFullyRecovered}, nil
	}

	// recent is newest first
	hours := at.Sub(recent[0].Date).Hours()
	timeScore := TimeScore(hours)
	loadScore := LoadScore(recent)

	raw := 0.6*timeScore + 0.4*loadScore
	if !finite(raw, timeScore, loadScore) {
		return nil, fmt.Errorf("recovery: %w", errNonFinite)
	}

	score := round(clamp(raw, 1, 10), 1)
	return &Score{
		Score: score,
		Components: map[string]float64{
			"time": round(timeScore, 2),
			"load": round(loadScore, 2),
		},
		Message: RecoveryMessage(score),
	}, nil
}

// VolumeScore scales a day's total weight times reps against MaxDailyVolume.
func VolumeScore(events []*models.WorkoutEvent) float64 {
	total := 0.0
	for _, w := range events {
		total += w.Volume()
	}
	return total / MaxDailyVolume * 10
}

// IntensityScore is ten times the mean weight-to-PR ratio.
func IntensityScore(ratios []float64) float64 {
	if len(ratios) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range ratios {
		sum += r
	}
	return sum / float64(len(ratios)) * 10
}

// FrequencyScore scales a week's session count, capped at 10.
func FrequencyScore(sessions int) float64 {
	return math.Min(float64(sessions)/maxWeeklySessions*10, 10)
}

// TimeScore rates hours since the last session.
func TimeScore(hours float64) float64 {
	switch {
	case hours < 24:
		return math.Max(1, hours/24*10)
	case hours < 48:
		return math.Min(10, hours/24*5)
	default:
		return 10
	}
}

// LoadScore decays each prior event's volume by days before the most recent one.
// events must be newest first.
func LoadScore(events []*models.WorkoutEvent) float64 {
	if len(events) == 0 {
		return 10
	}

	latest := events[0].Date
	total := 0.0
	for _, w := range events {
		daysAgo := int(latest.Sub(w.Date).Hours() / 24)
		total += w.Volume() * math.Pow(loadDecay, float64(daysAgo))
	}

	score := 10 * (1 - math.Min(total/(MaxDailyVolume*3), 0.9))
	return math.Max(1, score)
}

// StrainMessage describes a strain score band.
func StrainMessage(score float64) string {
	switch {
	case score <= 3:
		return "Low training strain - You can increase intensity"
	case score <= 6:
		return "Moderate training strain - Good training stimulus"
	case score <= 8:
		return "High training strain - Monitor recovery closely"
	default:
		return "Very high training strain - Consider reducing load"
	}
}

// RecoveryMessage describes a recovery score band.
func RecoveryMessage(score float64) string {
	switch {
	case score <= 3:
		return "Poor recovery - Consider extra rest or light training"
	case score <= 6:
		return "Moderate recovery - Proceed with caution"
	case score <= 8:
		return "Good recovery - Ready for moderate training"
	default:
		return "Excellent recovery - Ready for intense training"
	}
}

// wallClock reinterprets t's local wall-clock reading in UTC so it lines up with stored dates.
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
