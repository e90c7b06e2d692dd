package service

import (
	"errors"
	"fmt"
	"time"

	"cycling-fitness/internal/analysis"
	"cycling-fitness/internal/store"
)

// ErrNoTrainingData is returned when no workout carries any stress,
// so there is nothing to feed the load series.
var ErrNoTrainingData = errors.New("no training data to compute load from")

// ComputeService owns the derived data: the training load series and
// per-workout quality scores.
type ComputeService struct {
	store *store.DB
}

// NewComputeService creates a new compute service
func NewComputeService(db *store.DB) *ComputeService {
	return &ComputeService{store: db}
}

// RecomputeResult summarizes one load recompute
type RecomputeResult struct {
	DaysComputed    int
	Current         store.LoadPoint
	FormDescription string
}

// RecomputeLoad extends the training load series through today. Days at or
// before the stored anchor are never recomputed; a run with nothing new to
// compute still reports the current point.
func (s *ComputeService) RecomputeLoad(today time.Time) (*RecomputeResult, error) {
	// The series runs on UTC calendar days; the wall clock's zone must not
	// decide whether today's workout is in range yet.
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	anchor, err := s.store.GetLatestLoadPoint()
	if errors.Is(err, store.ErrNoLoadPoints) {
		anchor = nil
	} else if err != nil {
		return nil, fmt.Errorf("reading load anchor: %w", err)
	}

	workouts, err := s.store.GetAllWorkouts()
	if err != nil {
		return nil, fmt.Errorf("reading workouts: %w", err)
	}

	stress := analysis.BuildDailyStress(workouts)

	seed, err := analysis.ResolveSeed(anchor, stress)
	if errors.Is(err, analysis.ErrNoData) {
		return nil, ErrNoTrainingData
	}
	if err != nil {
		return nil, err
	}

	days := analysis.Recompute(stress, seed, today)
	points := analysis.LoadPoints(days)
	if err := s.store.UpsertLoadPoints(points); err != nil {
		return nil, fmt.Errorf("storing load points: %w", err)
	}

	result := &RecomputeResult{DaysComputed: len(points)}
	if len(points) > 0 {
		result.Current = points[len(points)-1]
	} else if anchor != nil {
		result.Current = *anchor
	}
	result.FormDescription = analysis.FormDescription(result.Current.TSB)

	return result, nil
}

// RescoreWorkouts recomputes the quality score for every workout.
// Workouts missing planned or actual inputs keep a nil score.
// Returns the number of workouts whose score changed.
func (s *ComputeService) RescoreWorkouts() (int, error) {
	workouts, err := s.store.GetAllWorkouts()
	if err != nil {
		return 0, fmt.Errorf("reading workouts: %w", err)
	}

	updated := 0
	for _, w := range workouts {
		score := analysis.QualityScore(w.PlannedTSS, w.ActualTSS, w.PlannedIF, w.ActualIF)
		if !scoreChanged(w.QualityScore, score) {
			continue
		}
		if err := s.store.UpdateQualityScore(w.ID, score); err != nil {
			return updated, fmt.Errorf("scoring workout %d: %w", w.ID, err)
		}
		updated++
	}
	return updated, nil
}

func scoreChanged(prev, next *float64) bool {
	if prev == nil && next == nil {
		return false
	}
	if prev == nil || next == nil {
		return true
	}
	return *prev != *next
}
