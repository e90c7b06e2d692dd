package service

import (
	"cycling-fitness/internal/config"
	"cycling-fitness/internal/store"
)

// QueryService provides read-only queries for the TUI
type QueryService struct {
	store *store.DB
	cfg   *config.Config
}

// NewQueryService creates a new query service
func NewQueryService(db *store.DB, cfg *config.Config) *QueryService {
	return &QueryService{store: db, cfg: cfg}
}

// GetWorkoutsList returns the most recent workouts, newest first
func (q *QueryService) GetWorkoutsList(limit int) ([]store.Workout, error) {
	if limit <= 0 {
		limit = WorkoutsListLimit
	}
	return q.store.GetRecentWorkouts(limit)
}

// GetLastImportTime returns the RFC3339 timestamp of the last import,
// or empty string if nothing was ever imported.
func (q *QueryService) GetLastImportTime() (string, error) {
	return q.store.GetSyncState(lastImportKey)
}
