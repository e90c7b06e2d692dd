package service

import (
	"fmt"
	"time"

	"cycling-fitness/internal/analysis"
)

// Scenario is one row of the race plan table: a pacing assumption and
// the speed and finish time it produces.
type Scenario struct {
	Name       string
	CdA        float64
	SpeedKPH   float64
	RideHours  float64
	TotalHours float64 // ride + rest stop budget
}

// RestStopETA is the projected arrival at a planned stop
type RestStopETA struct {
	Name         string
	KM           float64
	ElapsedHours float64 // since the start, including earlier stops
	StopMin      float64
}

// RacePlanData contains the full pacing plan for the configured race
type RacePlanData struct {
	RaceName   string
	RaceDate   time.Time
	DistanceKM float64

	TargetIF       float64
	RaceFTP        float64
	TargetNP       float64 // IF * FTP
	TargetAvgPower float64 // NP / variability index
	EstimatedTSS   float64 // from the primary scenario's ride time

	StopBudgetHours float64
	Scenarios       []Scenario
	RestStops       []RestStopETA
}

// GetRacePlan builds the scenario table for the configured race. The
// physics model answers "how fast does the target power go"; the plan
// varies the aero assumption across solo and drafting cases.
func (q *QueryService) GetRacePlan() (*RacePlanData, error) {
	race := q.cfg.Race

	data := &RacePlanData{
		RaceName:   race.Name,
		RaceDate:   q.cfg.RaceDate(),
		DistanceKM: race.DistanceKM,
		TargetIF:   race.TargetIF,
		RaceFTP:    race.ProjectedFTP,
	}

	data.TargetNP = race.TargetIF * race.ProjectedFTP
	data.TargetAvgPower = data.TargetNP
	if race.VariabilityIndex > 0 {
		data.TargetAvgPower = data.TargetNP / race.VariabilityIndex
	}

	for _, stop := range race.RestStops {
		data.StopBudgetHours += stop.StopMin / 60
	}

	systemKg := race.SystemWeightKG()
	penalty := 1 - race.CoursePenaltyPct/100

	addScenario := func(name string, cda, speedFactor float64) Scenario {
		speed := analysis.SpeedKPH(data.TargetAvgPower, systemKg, cda, race.Crr) * speedFactor
		s := Scenario{Name: name, CdA: cda, SpeedKPH: speed}
		if speed > 0 {
			s.RideHours = race.DistanceKM / speed
			s.TotalHours = s.RideHours + data.StopBudgetHours
		}
		data.Scenarios = append(data.Scenarios, s)
		return s
	}

	addScenario("Solo (flat)", race.CdA, 1)
	addScenario("Solo (course-adjusted)", race.CdA, penalty)
	primary := addScenario(
		fmt.Sprintf("Drafting %.0f%%", race.DraftingBenefitPct),
		race.CdA*(1-race.DraftingBenefitPct/100), penalty,
	)
	addScenario("Drafting 15% (conservative)", race.CdA*(1-ConservativeDraftPct/100), penalty)
	addScenario("Drafting 25% (optimistic)", race.CdA*(1-OptimisticDraftPct/100), penalty)

	// TSS = IF^2 * 100 per hour at threshold, over the primary ride time
	data.EstimatedTSS = race.TargetIF * race.TargetIF * 100 * primary.RideHours

	// Rest stop arrivals ride at the primary scenario's speed; each stop's
	// elapsed time includes the minutes spent at earlier stops.
	if primary.SpeedKPH > 0 {
		var stoppedMin float64
		for _, stop := range race.RestStops {
			data.RestStops = append(data.RestStops, RestStopETA{
				Name:         stop.Name,
				KM:           stop.KM,
				ElapsedHours: stop.KM/primary.SpeedKPH + stoppedMin/60,
				StopMin:      stop.StopMin,
			})
			stoppedMin += stop.StopMin
		}
	}

	return data, nil
}
