package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// UpsertWorkout inserts or updates a workout, keyed by (date, title)
func (db *DB) UpsertWorkout(w *Workout) error {
	_, err := db.Exec(`
		INSERT INTO workouts (
			date, title, workout_type, planned_tss, actual_tss, planned_if, actual_if,
			duration_planned_min, duration_actual_min, completed, quality_score, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, title) DO UPDATE SET
			workout_type = excluded.workout_type,
			planned_tss = excluded.planned_tss,
			actual_tss = excluded.actual_tss,
			planned_if = excluded.planned_if,
			actual_if = excluded.actual_if,
			duration_planned_min = excluded.duration_planned_min,
			duration_actual_min = excluded.duration_actual_min,
			completed = excluded.completed,
			quality_score = excluded.quality_score,
			notes = excluded.notes,
			updated_at = CURRENT_TIMESTAMP
	`,
		w.Date.Format(DateFormat), w.Title, w.WorkoutType,
		w.PlannedTSS, w.ActualTSS, w.PlannedIF, w.ActualIF,
		w.DurationPlannedMin, w.DurationActualMin, boolToInt(w.Completed),
		w.QualityScore, w.Notes,
	)
	return err
}

// GetAllWorkouts retrieves every workout ordered by date
func (db *DB) GetAllWorkouts() ([]Workout, error) {
	rows, err := db.Query(selectWorkout + ` ORDER BY date, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// GetWorkoutsBetween retrieves workouts with from <= date <= to, ordered by date
func (db *DB) GetWorkoutsBetween(from, to time.Time) ([]Workout, error) {
	rows, err := db.Query(
		selectWorkout+` WHERE date >= ? AND date <= ? ORDER BY date, title`,
		from.Format(DateFormat), to.Format(DateFormat),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// GetRecentWorkouts retrieves the most recent workouts, newest first
func (db *DB) GetRecentWorkouts(limit int) ([]Workout, error) {
	rows, err := db.Query(selectWorkout+` ORDER BY date DESC, title LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

// GetLatestScoredWorkout retrieves the most recent workout with a quality score
func (db *DB) GetLatestScoredWorkout() (*Workout, error) {
	row := db.QueryRow(selectWorkout + ` WHERE quality_score IS NOT NULL ORDER BY date DESC LIMIT 1`)
	w, err := scanWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateQualityScore sets (or clears) the derived quality score for a workout
func (db *DB) UpdateQualityScore(id int64, score *float64) error {
	result, err := db.Exec(`
		UPDATE workouts SET quality_score = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, score, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

const selectWorkout = `
	SELECT id, date, title, workout_type, planned_tss, actual_tss, planned_if, actual_if,
		duration_planned_min, duration_actual_min, completed, quality_score, notes
	FROM workouts`

// scanner abstracts sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanWorkout(s scanner) (*Workout, error) {
	var w Workout
	var dateStr string
	var workoutType, notes sql.NullString
	var completed int

	err := s.Scan(
		&w.ID, &dateStr, &w.Title, &workoutType,
		&w.PlannedTSS, &w.ActualTSS, &w.PlannedIF, &w.ActualIF,
		&w.DurationPlannedMin, &w.DurationActualMin, &completed,
		&w.QualityScore, &notes,
	)
	if err != nil {
		return nil, err
	}

	w.Date, err = time.Parse(DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing workout date %q: %w", dateStr, err)
	}
	w.WorkoutType = workoutType.String
	w.Notes = notes.String
	w.Completed = completed == 1

	return &w, nil
}

func scanWorkouts(rows *sql.Rows) ([]Workout, error) {
	var workouts []Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
