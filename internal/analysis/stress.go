package analysis

import (
	"time"

	"cycling-fitness/internal/store"
)

// DateKey formats a time as the YYYY-MM-DD key used by the daily stress map
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// BuildDailyStress aggregates per-workout stress into one total per day.
// Actual TSS wins over planned; workouts with neither contribute nothing.
// Dates with no workouts are absent from the map (the PMC engine treats
// absence as zero stress).
func BuildDailyStress(workouts []store.Workout) map[string]float64 {
	stress := make(map[string]float64)
	for _, w := range workouts {
		tss := w.ActualTSS
		if tss == nil {
			tss = w.PlannedTSS
		}
		if tss == nil {
			continue
		}
		stress[DateKey(w.Date)] += *tss
	}
	return stress
}

// WeeklyStress sums daily stress over the 7 days ending at `through`
func WeeklyStress(stress map[string]float64, through time.Time) float64 {
	var total float64
	for i := 0; i < 7; i++ {
		total += stress[DateKey(through.AddDate(0, 0, -i))]
	}
	return total
}
