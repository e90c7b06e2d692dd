package service

import (
	"errors"
	"time"

	"cycling-fitness/internal/analysis"
	"cycling-fitness/internal/store"
)

// FTPProjectionData contains the FTP trajectory toward the configured goal
type FTPProjectionData struct {
	CurrentFTP float64
	TestedOn   time.Time
	History    []store.FTPRecord

	TargetFTP  float64
	TargetDate time.Time

	// W/week needed to hit the target, and the observed rate so far
	RequiredWeeklyGain   float64
	HistoricalWeeklyGain float64
	HasHistoricalRate    bool

	// Projections along the required trajectory
	ProjectedAtRace     float64
	NextTestDate        time.Time
	ProjectedAtNextTest float64
}

// GetFTPProjection builds the FTP goal report. Requires at least one
// recorded FTP test.
func (q *QueryService) GetFTPProjection(now time.Time) (*FTPProjectionData, error) {
	current, err := q.store.GetCurrentFTP()
	if errors.Is(err, store.ErrNoFTPHistory) {
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	history, err := q.store.GetFTPHistory()
	if err != nil {
		return nil, err
	}

	data := &FTPProjectionData{
		CurrentFTP: current.Watts,
		TestedOn:   current.TestDate,
		History:    history,
		TargetFTP:  q.cfg.Athlete.FTPTargetWatts,
		TargetDate: q.cfg.FTPTargetDate(),
	}

	if !data.TargetDate.IsZero() && data.TargetFTP > 0 {
		data.RequiredWeeklyGain = analysis.RequiredWeeklyGain(
			current.Watts, data.TargetFTP, now, data.TargetDate)
	}

	if rate, ok := analysis.HistoricalRate(history); ok {
		data.HistoricalWeeklyGain = rate
		data.HasHistoricalRate = true
	}

	raceDate := q.cfg.RaceDate()
	if !raceDate.IsZero() {
		data.ProjectedAtRace = analysis.ProjectFTP(
			current.Watts, data.RequiredWeeklyGain, now, raceDate)
	}

	data.NextTestDate = q.cfg.NextTestDate()
	if !data.NextTestDate.IsZero() {
		data.ProjectedAtNextTest = analysis.ProjectFTP(
			current.Watts, data.RequiredWeeklyGain, now, data.NextTestDate)
	}

	return data, nil
}
