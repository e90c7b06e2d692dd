package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"cycling-fitness/internal/store"
)

// ImportService loads training data from a JSON export file and refreshes
// the derived data afterwards.
type ImportService struct {
	store   *store.DB
	compute *ComputeService
}

// NewImportService creates a new import service
func NewImportService(db *store.DB, compute *ComputeService) *ImportService {
	return &ImportService{store: db, compute: compute}
}

// ImportFile is the on-disk export format: a flat list of workouts and
// FTP test results.
type ImportFile struct {
	Workouts []WorkoutRecord `json:"workouts"`
	FTPTests []FTPTestRecord `json:"ftp_tests"`
}

// WorkoutRecord is one workout row in the export file
type WorkoutRecord struct {
	Date               string   `json:"date"` // YYYY-MM-DD
	Title              string   `json:"title"`
	WorkoutType        string   `json:"workout_type"`
	PlannedTSS         *float64 `json:"planned_tss"`
	ActualTSS          *float64 `json:"actual_tss"`
	PlannedIF          *float64 `json:"planned_if"`
	ActualIF           *float64 `json:"actual_if"`
	DurationPlannedMin *float64 `json:"duration_planned_min"`
	DurationActualMin  *float64 `json:"duration_actual_min"`
	Completed          bool     `json:"completed"`
	Notes              string   `json:"notes"`
}

// FTPTestRecord is one FTP test row in the export file
type FTPTestRecord struct {
	TestDate   string  `json:"test_date"` // YYYY-MM-DD
	Watts      float64 `json:"ftp_watts"`
	Protocol   string  `json:"protocol"`
	Confidence string  `json:"confidence"`
}

// ImportResult contains the results of an import
type ImportResult struct {
	WorkoutsImported int
	FTPTestsImported int
	WorkoutsScored   int
	DaysComputed     int
	Errors           []error
}

// ImportFromFile imports a JSON export: upsert workouts, append new FTP
// tests, then rescore quality and extend the load series through today.
// Bad records are collected in the result and skipped, not fatal.
func (s *ImportService) ImportFromFile(path string, today time.Time) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}

	var file ImportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}

	result := &ImportResult{}

	s.importWorkouts(file.Workouts, result)
	if err := s.importFTPTests(file.FTPTests, result); err != nil {
		return result, err
	}

	scored, err := s.compute.RescoreWorkouts()
	if err != nil {
		return result, fmt.Errorf("rescoring workouts: %w", err)
	}
	result.WorkoutsScored = scored

	recompute, err := s.compute.RecomputeLoad(today)
	if err != nil && !errors.Is(err, ErrNoTrainingData) {
		return result, fmt.Errorf("recomputing load: %w", err)
	}
	if recompute != nil {
		result.DaysComputed = recompute.DaysComputed
	}

	// The data is in; a bookkeeping failure shouldn't fail the import
	if err := s.store.SetSyncState(lastImportKey, time.Now().Format(time.RFC3339)); err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("recording import time: %w", err))
	}

	return result, nil
}

func (s *ImportService) importWorkouts(records []WorkoutRecord, result *ImportResult) {
	for _, r := range records {
		date, err := time.Parse(store.DateFormat, r.Date)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("workout %q: bad date %q", r.Title, r.Date))
			continue
		}
		if r.Title == "" {
			result.Errors = append(result.Errors, fmt.Errorf("workout on %s: missing title", r.Date))
			continue
		}

		w := &store.Workout{
			Date:               date,
			Title:              r.Title,
			WorkoutType:        r.WorkoutType,
			PlannedTSS:         r.PlannedTSS,
			ActualTSS:          r.ActualTSS,
			PlannedIF:          r.PlannedIF,
			ActualIF:           r.ActualIF,
			DurationPlannedMin: r.DurationPlannedMin,
			DurationActualMin:  r.DurationActualMin,
			Completed:          r.Completed,
			Notes:              r.Notes,
		}
		if err := s.store.UpsertWorkout(w); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing workout %q: %w", r.Title, err))
			continue
		}
		result.WorkoutsImported++
	}
}

// importFTPTests appends tests not already in the history. The history
// table is append-only, so re-importing the same file must not duplicate.
func (s *ImportService) importFTPTests(records []FTPTestRecord, result *ImportResult) error {
	if len(records) == 0 {
		return nil
	}

	existing, err := s.store.GetFTPHistory()
	if err != nil {
		return fmt.Errorf("reading FTP history: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[ftpKey(r.TestDate.Format(store.DateFormat), r.Watts)] = true
	}

	for _, r := range records {
		date, err := time.Parse(store.DateFormat, r.TestDate)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("ftp test: bad date %q", r.TestDate))
			continue
		}
		if r.Watts <= 0 {
			result.Errors = append(result.Errors, fmt.Errorf("ftp test on %s: watts must be positive", r.TestDate))
			continue
		}
		key := ftpKey(r.TestDate, r.Watts)
		if seen[key] {
			continue
		}

		record := &store.FTPRecord{
			TestDate:   date,
			Watts:      r.Watts,
			Protocol:   r.Protocol,
			Confidence: r.Confidence,
		}
		if err := s.store.InsertFTPRecord(record); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing ftp test on %s: %w", r.TestDate, err))
			continue
		}
		seen[key] = true
		result.FTPTestsImported++
	}
	return nil
}

func ftpKey(date string, watts float64) string {
	return fmt.Sprintf("%s|%.1f", date, watts)
}
