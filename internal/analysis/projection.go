package analysis

import (
	"time"

	"cycling-fitness/internal/store"
)

const daysPerWeek = 7.0

// RequiredWeeklyGain returns the W/week rate needed to reach targetFTP by
// targetDate. The time span is floored at one week so a past-due or imminent
// target doesn't produce an absurd rate.
func RequiredWeeklyGain(currentFTP, targetFTP float64, now, targetDate time.Time) float64 {
	weeks := targetDate.Sub(now).Hours() / 24 / daysPerWeek
	if weeks < 1 {
		weeks = 1
	}
	return (targetFTP - currentFTP) / weeks
}

// ProjectFTP evaluates the linear FTP trajectory at an arbitrary date.
// Dates in the past project no change.
func ProjectFTP(currentFTP, weeklyGain float64, now, at time.Time) float64 {
	weeks := at.Sub(now).Hours() / 24 / daysPerWeek
	if weeks < 0 {
		weeks = 0
	}
	return currentFTP + weeklyGain*weeks
}

// HistoricalRate returns the observed W/week rate across the FTP history,
// from the first test to the most recent. Needs at least two records.
func HistoricalRate(history []store.FTPRecord) (float64, bool) {
	if len(history) < 2 {
		return 0, false
	}
	first := history[0]
	last := history[len(history)-1]
	weeks := last.TestDate.Sub(first.TestDate).Hours() / 24 / daysPerWeek
	if weeks < 1 {
		weeks = 1
	}
	return (last.Watts - first.Watts) / weeks, true
}

// TaperSchedule is the synthetic weekly-stress plan used to project race-day
// form. Phase boundaries are weeks before the race; the levels are weekly
// TSS except ShakeoutDailyTSS, which is already per-day.
type TaperSchedule struct {
	BaseWeeksOut     float64
	BuildWeeksOut    float64
	PeakWeeksOut     float64
	TaperWeeksOut    float64
	ShakeoutWeeksOut float64
	BaseFloorTSS     float64
	BuildWeeklyTSS   float64
	PeakWeeklyTSS    float64
	TaperWeek2Factor float64
	TaperWeek1Factor float64
	ShakeoutDailyTSS float64
}

// DailyTSS returns the synthetic daily stress for a day the given number of
// weeks before the race. currentWeeklyTSS feeds the base-phase floor so an
// athlete already above the floor isn't projected to detrain.
func (s TaperSchedule) DailyTSS(weeksOut, currentWeeklyTSS float64) float64 {
	switch {
	case weeksOut > s.BaseWeeksOut:
		weekly := currentWeeklyTSS
		if weekly < s.BaseFloorTSS {
			weekly = s.BaseFloorTSS
		}
		return weekly / daysPerWeek
	case weeksOut > s.BuildWeeksOut:
		return s.BuildWeeklyTSS / daysPerWeek
	case weeksOut > s.PeakWeeksOut:
		return s.PeakWeeklyTSS / daysPerWeek
	case weeksOut > s.TaperWeeksOut:
		return s.PeakWeeklyTSS * s.TaperWeek2Factor / daysPerWeek
	case weeksOut > s.ShakeoutWeeksOut:
		return s.PeakWeeklyTSS * s.TaperWeek1Factor / daysPerWeek
	default:
		return s.ShakeoutDailyTSS
	}
}

// SimulateTaper re-runs the PMC recurrence forward from today's CTL/ATL
// under the synthetic schedule, returning projected race-day CTL, ATL and
// TSB. Current weekly load is approximated as CTL * 7 (a steady-state CTL
// is the average daily stress).
func SimulateTaper(ctl, atl float64, daysToRace int, sched TaperSchedule) (float64, float64, float64) {
	currentWeekly := ctl * daysPerWeek

	for d := 0; d < daysToRace; d++ {
		weeksOut := float64(daysToRace-d) / daysPerWeek
		tss := sched.DailyTSS(weeksOut, currentWeekly)
		ctl = ctl + (tss-ctl)/ctlDays
		atl = atl + (tss-atl)/atlDays
	}

	return ctl, atl, ctl - atl
}
