package store

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Enable foreign keys
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		sqlDB.Close()
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	db, err := NewTestDB(sqlDB)
	if err != nil {
		sqlDB.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func floatPtr(v float64) *float64 {
	return &v
}

func testDate(day int) time.Time {
	return time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestWorkouts(t *testing.T) {
	db := setupTestDB(t)

	t.Run("UpsertWorkout inserts new workout", func(t *testing.T) {
		w := &Workout{
			Date:        testDate(5),
			Title:       "Sweet Spot 3x15",
			WorkoutType: "bike",
			PlannedTSS:  floatPtr(95),
			ActualTSS:   floatPtr(102),
			PlannedIF:   floatPtr(0.85),
			ActualIF:    floatPtr(0.87),
			Completed:   true,
		}
		if err := db.UpsertWorkout(w); err != nil {
			t.Fatalf("UpsertWorkout() error = %v", err)
		}

		all, err := db.GetAllWorkouts()
		if err != nil {
			t.Fatalf("GetAllWorkouts() error = %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("GetAllWorkouts() returned %d workouts, want 1", len(all))
		}
		got := all[0]
		if got.Title != "Sweet Spot 3x15" {
			t.Errorf("Title = %q, want Sweet Spot 3x15", got.Title)
		}
		if got.ActualTSS == nil || *got.ActualTSS != 102 {
			t.Errorf("ActualTSS = %v, want 102", got.ActualTSS)
		}
		if !got.Completed {
			t.Error("Completed = false, want true")
		}
		if got.QualityScore != nil {
			t.Errorf("QualityScore = %v, want nil", got.QualityScore)
		}
	})

	t.Run("UpsertWorkout updates on same date and title", func(t *testing.T) {
		w := &Workout{
			Date:       testDate(5),
			Title:      "Sweet Spot 3x15",
			ActualTSS:  floatPtr(98),
			PlannedTSS: floatPtr(95),
			Completed:  true,
		}
		if err := db.UpsertWorkout(w); err != nil {
			t.Fatalf("UpsertWorkout() error = %v", err)
		}

		all, err := db.GetAllWorkouts()
		if err != nil {
			t.Fatalf("GetAllWorkouts() error = %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("expected upsert to update in place, got %d rows", len(all))
		}
		if *all[0].ActualTSS != 98 {
			t.Errorf("ActualTSS = %v, want 98", *all[0].ActualTSS)
		}
	})

	t.Run("GetWorkoutsBetween filters by range inclusive", func(t *testing.T) {
		for day := 10; day <= 14; day++ {
			w := &Workout{
				Date:       testDate(day),
				Title:      "Endurance",
				ActualTSS:  floatPtr(float64(day * 10)),
				PlannedTSS: floatPtr(60),
				Completed:  true,
			}
			if err := db.UpsertWorkout(w); err != nil {
				t.Fatalf("UpsertWorkout() error = %v", err)
			}
		}

		got, err := db.GetWorkoutsBetween(testDate(11), testDate(13))
		if err != nil {
			t.Fatalf("GetWorkoutsBetween() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("GetWorkoutsBetween() returned %d workouts, want 3", len(got))
		}
		if !got[0].Date.Equal(testDate(11)) || !got[2].Date.Equal(testDate(13)) {
			t.Errorf("range endpoints = %v .. %v, want Jan 11 .. Jan 13", got[0].Date, got[2].Date)
		}
	})

	t.Run("GetRecentWorkouts returns newest first", func(t *testing.T) {
		got, err := db.GetRecentWorkouts(2)
		if err != nil {
			t.Fatalf("GetRecentWorkouts() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("GetRecentWorkouts(2) returned %d workouts", len(got))
		}
		if !got[0].Date.After(got[1].Date) {
			t.Errorf("expected newest first, got %v then %v", got[0].Date, got[1].Date)
		}
	})

	t.Run("UpdateQualityScore sets and clears score", func(t *testing.T) {
		all, err := db.GetAllWorkouts()
		if err != nil {
			t.Fatalf("GetAllWorkouts() error = %v", err)
		}
		id := all[0].ID

		if err := db.UpdateQualityScore(id, floatPtr(94.58)); err != nil {
			t.Fatalf("UpdateQualityScore() error = %v", err)
		}

		scored, err := db.GetLatestScoredWorkout()
		if err != nil {
			t.Fatalf("GetLatestScoredWorkout() error = %v", err)
		}
		if scored.QualityScore == nil || *scored.QualityScore != 94.58 {
			t.Errorf("QualityScore = %v, want 94.58", scored.QualityScore)
		}

		if err := db.UpdateQualityScore(id, nil); err != nil {
			t.Fatalf("UpdateQualityScore(nil) error = %v", err)
		}
	})

	t.Run("UpdateQualityScore on missing workout returns ErrWorkoutNotFound", func(t *testing.T) {
		err := db.UpdateQualityScore(99999, floatPtr(50))
		if err != ErrWorkoutNotFound {
			t.Errorf("UpdateQualityScore() error = %v, want ErrWorkoutNotFound", err)
		}
	})
}

func TestGetLatestScoredWorkoutEmpty(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetLatestScoredWorkout()
	if err != ErrWorkoutNotFound {
		t.Errorf("GetLatestScoredWorkout() error = %v, want ErrWorkoutNotFound", err)
	}
}
