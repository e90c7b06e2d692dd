package service

import (
	"errors"
	"time"

	"cycling-fitness/internal/analysis"
	"cycling-fitness/internal/config"
	"cycling-fitness/internal/store"
)

// TaperData contains the race-day form projection
type TaperData struct {
	RaceName    string
	RaceDate    time.Time
	DaysToRace  int
	WeeksToRace float64
	Phase       string

	CurrentCTL  float64
	CurrentATL  float64
	CurrentTSB  float64
	CurrentForm string

	ProjectedCTL  float64
	ProjectedATL  float64
	ProjectedTSB  float64
	ProjectedForm string

	TargetTSBMin float64
	TargetTSBMax float64
	OnTrack      bool
}

// GetTaperData projects form forward to race day under the configured
// training schedule. Requires an existing load series.
func (q *QueryService) GetTaperData(now time.Time) (*TaperData, error) {
	latest, err := q.store.GetLatestLoadPoint()
	if errors.Is(err, store.ErrNoLoadPoints) {
		return nil, ErrNoTrainingData
	}
	if err != nil {
		return nil, err
	}

	daysToRace := daysUntil(now, q.cfg.RaceDate())
	if daysToRace < 0 {
		daysToRace = 0
	}

	sched := taperSchedule(q.cfg.Taper)
	ctl, atl, tsb := analysis.SimulateTaper(latest.CTL, latest.ATL, daysToRace, sched)

	weeksToRace := float64(daysToRace) / 7

	data := &TaperData{
		RaceName:    q.cfg.Race.Name,
		RaceDate:    q.cfg.RaceDate(),
		DaysToRace:  daysToRace,
		WeeksToRace: weeksToRace,
		Phase:       phaseName(weeksToRace, q.cfg.Taper),

		CurrentCTL:  latest.CTL,
		CurrentATL:  latest.ATL,
		CurrentTSB:  latest.TSB,
		CurrentForm: analysis.FormDescription(latest.TSB),

		ProjectedCTL:  ctl,
		ProjectedATL:  atl,
		ProjectedTSB:  tsb,
		ProjectedForm: analysis.FormDescription(tsb),

		TargetTSBMin: q.cfg.Taper.TargetTSBMin,
		TargetTSBMax: q.cfg.Taper.TargetTSBMax,
	}
	data.OnTrack = tsb >= data.TargetTSBMin && tsb <= data.TargetTSBMax

	return data, nil
}

// taperSchedule maps the config block onto the simulation schedule
func taperSchedule(t config.TaperConfig) analysis.TaperSchedule {
	return analysis.TaperSchedule{
		BaseWeeksOut:     t.BaseWeeksOut,
		BuildWeeksOut:    t.BuildWeeksOut,
		PeakWeeksOut:     t.PeakWeeksOut,
		TaperWeeksOut:    t.TaperWeeksOut,
		ShakeoutWeeksOut: t.ShakeoutWeeksOut,
		BaseFloorTSS:     t.BaseFloorTSS,
		BuildWeeklyTSS:   t.BuildWeeklyTSS,
		PeakWeeklyTSS:    t.PeakWeeklyTSS,
		TaperWeek2Factor: t.TaperWeek2Factor,
		TaperWeek1Factor: t.TaperWeek1Factor,
		ShakeoutDailyTSS: t.ShakeoutDailyTSS,
	}
}

// phaseName labels the current training phase by weeks until the race
func phaseName(weeksOut float64, t config.TaperConfig) string {
	switch {
	case weeksOut > t.BaseWeeksOut:
		return "Base"
	case weeksOut > t.BuildWeeksOut:
		return "Build"
	case weeksOut > t.PeakWeeksOut:
		return "Peak"
	case weeksOut > t.TaperWeeksOut:
		return "Taper (week -2)"
	case weeksOut > t.ShakeoutWeeksOut:
		return "Taper (week -1)"
	default:
		return "Race week"
	}
}
