// ABOUTME: Personal record forecasting from a movement's training history.
// ABOUTME: Fits a least-squares line with gonum and caps the 30-day projection at +15%.
package forecast

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/liftlog/internal/models"
	"gonum.org/v1/gonum/stat"
)

const (
	// MinDataPoints is the history length needed for a forecast or insights.
	MinDataPoints = 5

	// HorizonDays is how far past the last session the forecast projects.
	HorizonDays = 30

	// MaxImprovement caps the projection relative to the current PR.
	MaxImprovement = 0.15

	ceilingTolerance = 1e-9
)

const (
	MessageInsufficientData     = "Not enough data for prediction. Need at least 5 workouts."
	MessageMaintain             = "Maintain current training pattern to preserve your PR."
	MessageInsightsInsufficient = "Not enough data for insights. Continue logging your workouts!"
	MessageKeepGoing            = "Keep up the consistent training!"
)

// Insight flags.
const (
	InsightTrainMoreOften  = "Consider increasing training frequency for better progress."
	InsightRestMore        = "Ensure adequate rest between training sessions."
	InsightHighFailure     = "High failure rate detected. Consider adjusting weights or volume."
	InsightReadyForMore    = "High success rate - you might be ready for more challenging weights."
	InsightVolumeRising    = "Good progression in training volume!"
	InsightVolumeDeclining = "Training volume is decreasing. Monitor fatigue and recovery."
)

// DataPoint is one logged set of the movement being forecast.
type DataPoint struct {
	Date      time.Time
	Weight    float64
	Reps      int
	Completed bool
}

// Forecast is a projected personal record.
// PredictedWeight is nil when there is not enough history.
type Forecast struct {
	CurrentPR        float64  `json:"current_pr"`
	PredictedWeight  *float64 `json:"predicted_weight"`
	Confidence       float64  `json:"confidence"`
	ImprovementRate  float64  `json:"improvement_rate"`
	Message          string   `json:"message"`
	InsufficientData bool     `json:"insufficient_data"`
}

// FromWorkouts converts events to points sorted oldest first.
// Events sharing a date keep their relative order.
func FromWorkouts(events []*models.WorkoutEvent) []DataPoint {
	points := make([]DataPoint, 0, len(events))
	for _, w := range events {
		points = append(points, DataPoint{
			Date:      models.Day(w.Date),
			Weight:    w.Weight,
			Reps:      w.Reps,
			Completed: w.CompletedSuccessfully,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// PredictPR projects the PR HorizonDays past the last point.
// points must be sorted oldest first.
func PredictPR(points []DataPoint) *Forecast {
	if len(points) < MinDataPoints {
		return &Forecast{
			CurrentPR:        currentPR(points),
			Message:          MessageInsufficientData,
			InsufficientData: true,
		}
	}

	first := points[0].Date
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = daysBetween(first, p.Date)
		ys[i] = p.Weight
	}

	intercept, slope, r2 := fit(xs, ys)

	pr := currentPR(points)
	ceiling := pr * (1 + MaxImprovement)
	projected := intercept + slope*(xs[len(xs)-1]+HorizonDays)
	predicted := roundHalf(math.Min(projected, ceiling), ceiling)

	f := &Forecast{
		CurrentPR:       pr,
		Confidence:      r2,
		ImprovementRate: slope,
	}

	if predicted <= pr {
		f.PredictedWeight = &pr
		f.Message = MessageMaintain
		return f
	}

	f.PredictedWeight = &predicted
	f.Message = fmt.Sprintf(
		"Based on your training pattern, you could achieve a new PR of %.1fkg (+%.1fkg) within the next %d days.",
		predicted, predicted-pr, HorizonDays)
	return f
}

// TrainingInsights flags frequency, success rate, and volume trend.
// points must be sorted oldest first.
func TrainingInsights(points []DataPoint) string {
	if len(points) < MinDataPoints {
		return MessageInsightsInsufficient
	}

	var insights []string

	if gap := averageGapDays(points); gap > 5 {
		insights = append(insights, InsightTrainMoreOften)
	} else if gap < 2 {
		insights = append(insights, InsightRestMore)
	}

	if rate := successRate(points); rate < 0.7 {
		insights = append(insights, InsightHighFailure)
	} else if rate > 0.9 {
		insights = append(insights, InsightReadyForMore)
	}

	if trend := volumeSlope(points[len(points)-MinDataPoints:]); trend > 0 {
		insights = append(insights, InsightVolumeRising)
	} else if trend < 0 {
		insights = append(insights, InsightVolumeDeclining)
	}

	if len(insights) == 0 {
		return MessageKeepGoing
	}
	return strings.Join(insights, "\n")
}

// fit returns the least-squares intercept, slope, and R².
// With no spread in x the line is flat through the mean; constant y is a perfect fit.
func fit(xs, ys []float64) (intercept, slope, r2 float64) {
	if stat.Variance(ys, nil) == 0 {
		return ys[0], 0, 1
	}
	if stat.Variance(xs, nil) == 0 {
		return stat.Mean(ys, nil), 0, 0
	}

	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	r2 = stat.RSquared(xs, ys, nil, intercept, slope)
	return intercept, slope, math.Min(math.Max(r2, 0), 1)
}

// roundHalf rounds to the nearest 0.5 without exceeding ceiling.
// The ceiling tolerates float noise so 90*1.15 still admits 103.5.
func roundHalf(v, ceiling float64) float64 {
	r := math.Round(v*2) / 2
	if r > ceiling+ceilingTolerance {
		r = math.Floor(ceiling*2) / 2
	}
	return r
}

func currentPR(points []DataPoint) float64 {
	pr := 0.0
	for _, p := range points {
		pr = math.Max(pr, p.Weight)
	}
	return pr
}

func averageGapDays(points []DataPoint) float64 {
	var dates []time.Time
	for _, p := range points {
		if len(dates) == 0 || !dates[len(dates)-1].Equal(p.Date) {
			dates = append(dates, p.Date)
		}
	}
	if len(dates) < 2 {
		return 0
	}
	return daysBetween(dates[0], dates[len(dates)-1]) / float64(len(dates)-1)
}

func successRate(points []DataPoint) float64 {
	ok := 0
	for _, p := range points {
		if p.Completed {
			ok++
		}
	}
	return float64(ok) / float64(len(points))
}

func volumeSlope(points []DataPoint) float64 {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Weight * float64(p.Reps)
	}
	_, slope, _ := fit(xs, ys)
	return slope
}

func daysBetween(from, to time.Time) float64 {
	return math.Round(to.Sub(from).Hours() / 24)
}
