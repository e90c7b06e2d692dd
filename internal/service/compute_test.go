package service

import (
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"cycling-fitness/internal/store"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database with migrations applied
func openTestDB(t *testing.T) *store.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	db, err := store.NewTestDB(sqlDB)
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func floatPtr(v float64) *float64 {
	return &v
}

func day(n int) time.Time {
	return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC)
}

func addWorkout(t *testing.T, db *store.DB, date time.Time, title string, actualTSS float64) {
	t.Helper()
	w := &store.Workout{
		Date:      date,
		Title:     title,
		ActualTSS: floatPtr(actualTSS),
		Completed: true,
	}
	if err := db.UpsertWorkout(w); err != nil {
		t.Fatalf("UpsertWorkout() error = %v", err)
	}
}

func TestRecomputeLoadColdStart(t *testing.T) {
	db := openTestDB(t)
	svc := NewComputeService(db)

	addWorkout(t, db, day(1), "Endurance", 50)
	addWorkout(t, db, day(3), "Threshold", 100)

	result, err := svc.RecomputeLoad(day(3))
	if err != nil {
		t.Fatalf("RecomputeLoad() error = %v", err)
	}

	if result.DaysComputed != 3 {
		t.Errorf("DaysComputed = %d, want 3 (dense series incl. rest day)", result.DaysComputed)
	}
	if math.Abs(result.Current.CTL-3.52) > 0.001 {
		t.Errorf("current CTL = %v, want 3.52", result.Current.CTL)
	}
	if math.Abs(result.Current.ATL-19.53) > 0.001 {
		t.Errorf("current ATL = %v, want 19.53", result.Current.ATL)
	}
	if math.Abs(result.Current.TSB-(-16.01)) > 0.001 {
		t.Errorf("current TSB = %v, want -16.01", result.Current.TSB)
	}
	if result.FormDescription != "Loading - building fitness" {
		t.Errorf("FormDescription = %q", result.FormDescription)
	}

	// The series landed in the store
	stored, err := db.GetLatestLoadPoint()
	if err != nil {
		t.Fatalf("GetLatestLoadPoint() error = %v", err)
	}
	if !stored.Date.Equal(day(3)) {
		t.Errorf("stored anchor date = %v, want day 3", stored.Date)
	}
}

func TestRecomputeLoadLocalClockAheadOfUTC(t *testing.T) {
	db := openTestDB(t)
	svc := NewComputeService(db)

	addWorkout(t, db, day(1), "Endurance", 50)
	addWorkout(t, db, day(3), "Threshold", 100)

	// Shortly after local midnight on Jan 3 in a zone ahead of UTC; the
	// instant is still Jan 2 in UTC, but today's workout must be included
	localToday := time.Date(2026, 1, 3, 0, 30, 0, 0, time.FixedZone("UTC+11", 11*3600))

	result, err := svc.RecomputeLoad(localToday)
	if err != nil {
		t.Fatalf("RecomputeLoad() error = %v", err)
	}

	if result.DaysComputed != 3 {
		t.Errorf("DaysComputed = %d, want 3 (Jan 1-3)", result.DaysComputed)
	}
	if !result.Current.Date.Equal(day(3)) {
		t.Errorf("current date = %v, want Jan 3", result.Current.Date)
	}
}

func TestRecomputeLoadNoData(t *testing.T) {
	db := openTestDB(t)
	svc := NewComputeService(db)

	// A workout with no stress at all doesn't count as training data
	w := &store.Workout{Date: day(1), Title: "Unplanned ride"}
	if err := db.UpsertWorkout(w); err != nil {
		t.Fatalf("UpsertWorkout() error = %v", err)
	}

	_, err := svc.RecomputeLoad(day(1))
	if !errors.Is(err, ErrNoTrainingData) {
		t.Errorf("RecomputeLoad() error = %v, want ErrNoTrainingData", err)
	}
}

func TestRecomputeLoadIncremental(t *testing.T) {
	db := openTestDB(t)
	svc := NewComputeService(db)

	// Enough load that the stored anchor clears the trust threshold
	for i := 1; i <= 3; i++ {
		addWorkout(t, db, day(i), "Big day", 300)
	}
	first, err := svc.RecomputeLoad(day(3))
	if err != nil {
		t.Fatalf("RecomputeLoad() error = %v", err)
	}
	if first.DaysComputed != 3 {
		t.Fatalf("first run DaysComputed = %d, want 3", first.DaysComputed)
	}
	if first.Current.CTL <= 10 {
		t.Fatalf("test setup: anchor CTL = %v, need > 10", first.Current.CTL)
	}

	addWorkout(t, db, day(4), "Recovery spin", 100)
	second, err := svc.RecomputeLoad(day(4))
	if err != nil {
		t.Fatalf("RecomputeLoad() error = %v", err)
	}

	// Only the new day is computed; the anchor stays put
	if second.DaysComputed != 1 {
		t.Errorf("second run DaysComputed = %d, want 1", second.DaysComputed)
	}
	if !second.Current.Date.Equal(day(4)) {
		t.Errorf("current date = %v, want day 4", second.Current.Date)
	}

	anchor, err := db.GetLoadPointsBetween(day(3), day(3))
	if err != nil {
		t.Fatalf("GetLoadPointsBetween() error = %v", err)
	}
	if len(anchor) != 1 || anchor[0].CTL != first.Current.CTL {
		t.Errorf("day-3 anchor changed: %+v vs first run CTL %v", anchor, first.Current.CTL)
	}
}

func TestRecomputeLoadNothingNew(t *testing.T) {
	db := openTestDB(t)
	svc := NewComputeService(db)

	for i := 1; i <= 3; i++ {
		addWorkout(t, db, day(i), "Big day", 300)
	}
	first, err := svc.RecomputeLoad(day(3))
	if err != nil {
		t.Fatalf("RecomputeLoad() error = %v", err)
	}

	// Re-running on the same day has nothing to compute but still reports
	// current form from the anchor
	second, err := svc.RecomputeLoad(day(3))
	if err != nil {
		t.Fatalf("RecomputeLoad() error = %v", err)
	}
	if second.DaysComputed != 0 {
		t.Errorf("DaysComputed = %d, want 0", second.DaysComputed)
	}
	if second.Current != first.Current {
		t.Errorf("current point changed across idle recompute: %+v vs %+v", second.Current, first.Current)
	}
	if second.FormDescription == "" {
		t.Error("FormDescription empty on idle recompute")
	}
}

func TestRescoreWorkouts(t *testing.T) {
	db := openTestDB(t)
	svc := NewComputeService(db)

	scorable := &store.Workout{
		Date:       day(1),
		Title:      "Sweet spot",
		PlannedTSS: floatPtr(100),
		ActualTSS:  floatPtr(110),
		PlannedIF:  floatPtr(0.80),
		ActualIF:   floatPtr(0.78),
		Completed:  true,
	}
	unscorable := &store.Workout{
		Date:       day(2),
		Title:      "Planned only",
		PlannedTSS: floatPtr(80),
	}
	if err := db.UpsertWorkout(scorable); err != nil {
		t.Fatalf("UpsertWorkout() error = %v", err)
	}
	if err := db.UpsertWorkout(unscorable); err != nil {
		t.Fatalf("UpsertWorkout() error = %v", err)
	}

	updated, err := svc.RescoreWorkouts()
	if err != nil {
		t.Fatalf("RescoreWorkouts() error = %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	workouts, err := db.GetAllWorkouts()
	if err != nil {
		t.Fatalf("GetAllWorkouts() error = %v", err)
	}
	for _, w := range workouts {
		switch w.Title {
		case "Sweet spot":
			if w.QualityScore == nil {
				t.Fatal("scorable workout has no quality score")
			}
			if math.Abs(*w.QualityScore-94.58) > 0.01 {
				t.Errorf("quality score = %v, want 94.58", *w.QualityScore)
			}
		case "Planned only":
			if w.QualityScore != nil {
				t.Errorf("incomplete workout scored %v, want nil", *w.QualityScore)
			}
		}
	}

	// Second pass is a no-op
	updated, err = svc.RescoreWorkouts()
	if err != nil {
		t.Fatalf("RescoreWorkouts() error = %v", err)
	}
	if updated != 0 {
		t.Errorf("second pass updated = %d, want 0", updated)
	}
}
