package store

import "time"

// DateFormat is the layout for calendar dates in the database
const DateFormat = "2006-01-02"

// Workout represents one planned or completed training session
type Workout struct {
	ID                 int64     `db:"id"`
	Date               time.Time `db:"date"` // calendar date, UTC midnight
	Title              string    `db:"title"`
	WorkoutType        string    `db:"workout_type"`
	PlannedTSS         *float64  `db:"planned_tss"`
	ActualTSS          *float64  `db:"actual_tss"`
	PlannedIF          *float64  `db:"planned_if"`
	ActualIF           *float64  `db:"actual_if"`
	DurationPlannedMin *float64  `db:"duration_planned_min"`
	DurationActualMin  *float64  `db:"duration_actual_min"`
	Completed          bool      `db:"completed"`
	QualityScore       *float64  `db:"quality_score"` // derived, 0-100
	Notes              string    `db:"notes"`
}

// LoadPoint represents one day of the Performance Management Chart series.
// The most recent LoadPoint acts as the anchor for incremental recomputes.
type LoadPoint struct {
	Date     time.Time `db:"date"`
	DailyTSS float64   `db:"daily_tss"`
	CTL      float64   `db:"ctl"`
	ATL      float64   `db:"atl"`
	TSB      float64   `db:"tsb"`
}

// FTPRecord represents one FTP test result
type FTPRecord struct {
	ID         int64     `db:"id"`
	TestDate   time.Time `db:"test_date"`
	Watts      float64   `db:"ftp_watts"`
	Protocol   string    `db:"protocol"`   // e.g. "ramp", "20min"
	Confidence string    `db:"confidence"` // "high", "medium", "low"
}
