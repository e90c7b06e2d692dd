package analysis

import (
	"errors"
	"math"
	"sort"
	"time"

	"cycling-fitness/internal/store"
)

// Time constants for the coupled exponential moving averages.
// These are fixed domain constants, not tunables.
const (
	ctlDays = 42.0 // chronic ("fitness") window
	atlDays = 7.0  // acute ("fatigue") window

	// An anchor whose CTL is at or below this is treated as an
	// uninitialized row, not a trusted seed.
	anchorMinCTL = 10.0
)

// ErrNoData is returned when the stress series is completely empty
var ErrNoData = errors.New("no training stress data")

// LoadDay is one computed day of the Performance Management Chart
type LoadDay struct {
	Date time.Time
	TSS  float64
	CTL  float64
	ATL  float64
	TSB  float64
}

// Seed describes where the recurrence starts: either a trusted anchor
// (continue from its CTL/ATL at the day after it) or a cold start
// (CTL=ATL=0 at the first date with recorded stress).
type Seed struct {
	Anchored bool
	CTL      float64
	ATL      float64
	Start    time.Time // first day the recurrence will compute
}

// ResolveSeed decides between anchored forward-fill and cold start.
// The anchor qualifies only when its CTL clears the threshold; a near-zero
// CTL means the row was never meaningfully initialized. Returns ErrNoData
// when the stress series is empty.
func ResolveSeed(anchor *store.LoadPoint, stress map[string]float64) (Seed, error) {
	if len(stress) == 0 {
		return Seed{}, ErrNoData
	}

	if anchor != nil && anchor.CTL > anchorMinCTL {
		return Seed{
			Anchored: true,
			CTL:      anchor.CTL,
			ATL:      anchor.ATL,
			Start:    anchor.Date.AddDate(0, 0, 1),
		}, nil
	}

	// Cold start at the earliest date with any stress
	keys := make([]string, 0, len(stress))
	for k := range stress {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	first, err := time.Parse("2006-01-02", keys[0])
	if err != nil {
		return Seed{}, err
	}

	return Seed{Start: first}, nil
}

// Recompute applies the PMC recurrence day by day from the seed through the
// given end date. Every calendar day in the range is emitted (missing days
// contribute zero stress), so the resulting series is dense. Days before the
// seed start are never touched: an anchored run can only extend the series,
// which is what makes repeated runs idempotent.
//
// Returns nil when the seed start is after the end date (nothing new to
// compute; the caller reads back stored points for reporting).
func Recompute(stress map[string]float64, seed Seed, through time.Time) []LoadDay {
	if seed.Start.After(through) {
		return nil
	}

	ctl, atl := seed.CTL, seed.ATL

	var days []LoadDay
	for d := seed.Start; !d.After(through); d = d.AddDate(0, 0, 1) {
		tss := stress[DateKey(d)] // 0 if no workout

		ctl = ctl + (tss-ctl)/ctlDays
		atl = atl + (tss-atl)/atlDays

		// Store at 2-decimal precision; derive TSB from the rounded pair
		// so tsb == ctl - atl holds exactly at stored precision.
		c := round2(ctl)
		a := round2(atl)
		days = append(days, LoadDay{
			Date: d,
			TSS:  tss,
			CTL:  c,
			ATL:  a,
			TSB:  round2(c - a),
		})
	}

	return days
}

// LoadPoints converts computed days to their storage representation
func LoadPoints(days []LoadDay) []store.LoadPoint {
	points := make([]store.LoadPoint, len(days))
	for i, d := range days {
		points[i] = store.LoadPoint{
			Date:     d.Date,
			DailyTSS: d.TSS,
			CTL:      d.CTL,
			ATL:      d.ATL,
			TSB:      d.TSB,
		}
	}
	return points
}

// FormDescription returns a human-readable description of TSB
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Very fresh (possibly detrained)"
	case tsb > 10:
		return "Fresh and ready to race"
	case tsb > 0:
		return "Neutral - good for training"
	case tsb > -10:
		return "Recovering"
	case tsb > -25:
		return "Loading - building fitness"
	default:
		return "Very fatigued - rest needed"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
