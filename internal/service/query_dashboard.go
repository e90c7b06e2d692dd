package service

import (
	"errors"
	"time"

	"cycling-fitness/internal/analysis"
	"cycling-fitness/internal/store"
)

// DashboardData contains all data needed for the dashboard
type DashboardData struct {
	// Current fitness
	CurrentFitness  float64 // CTL
	CurrentFatigue  float64 // ATL
	CurrentForm     float64 // TSB
	FormDescription string
	HasLoadData     bool

	// Growth since the series began
	StartFitness float64
	StartDate    time.Time

	// This week
	WeekTSS      float64
	WeekWorkouts int

	// Race countdown
	RaceName   string
	DaysToRace int

	// Latest quality-scored workout
	LatestScored *store.Workout

	// Recent workouts
	RecentWorkouts []store.Workout

	// For charts: the last 42 days of the load series, chronological
	CTLHistory []float64
	TSBHistory []float64
	ChartDates []time.Time
}

// GetDashboardData fetches all data needed for the dashboard
func (q *QueryService) GetDashboardData(now time.Time) (*DashboardData, error) {
	data := &DashboardData{}

	latest, err := q.store.GetLatestLoadPoint()
	switch {
	case errors.Is(err, store.ErrNoLoadPoints):
		// No series yet - the dashboard shows partial data
	case err != nil:
		return nil, err
	default:
		data.HasLoadData = true
		data.CurrentFitness = latest.CTL
		data.CurrentFatigue = latest.ATL
		data.CurrentForm = latest.TSB
		data.FormDescription = analysis.FormDescription(latest.TSB)

		earliest, err := q.store.GetEarliestLoadPoint()
		if err != nil {
			return nil, err
		}
		data.StartFitness = earliest.CTL
		data.StartDate = earliest.Date
	}

	points, err := q.store.GetRecentLoadPoints(ChartDays)
	if err != nil {
		return nil, err
	}
	for _, p := range points {
		data.CTLHistory = append(data.CTLHistory, p.CTL)
		data.TSBHistory = append(data.TSBHistory, p.TSB)
		data.ChartDates = append(data.ChartDates, p.Date)
	}

	data.WeekTSS, data.WeekWorkouts, err = q.weekStats(now)
	if err != nil {
		return nil, err
	}

	data.RecentWorkouts, err = q.store.GetRecentWorkouts(RecentWorkoutsLimit)
	if err != nil {
		return nil, err
	}

	scored, err := q.store.GetLatestScoredWorkout()
	if err != nil && !errors.Is(err, store.ErrWorkoutNotFound) {
		return nil, err
	}
	data.LatestScored = scored

	data.RaceName = q.cfg.Race.Name
	data.DaysToRace = daysUntil(now, q.cfg.RaceDate())

	return data, nil
}

// weekStats sums stress over the 7 days ending today and counts the
// completed workouts in that window
func (q *QueryService) weekStats(now time.Time) (tss float64, count int, err error) {
	weekStart := now.AddDate(0, 0, -6)
	workouts, err := q.store.GetWorkoutsBetween(weekStart, now)
	if err != nil {
		return 0, 0, err
	}

	stress := analysis.BuildDailyStress(workouts)
	for _, v := range stress {
		tss += v
	}
	for _, w := range workouts {
		if w.Completed {
			count++
		}
	}
	return tss, count, nil
}

// daysUntil counts whole calendar days from now to the target date.
// Negative when the date has passed.
func daysUntil(now, target time.Time) int {
	if target.IsZero() {
		return 0
	}
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	targetDay := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(targetDay.Sub(nowDay).Hours() / 24)
}
