package analysis

// QualityScore computes a 0-100 workout quality score blending stress
// adherence and intensity adherence, each weighted 50%.
//
// Stress adherence rewards meeting or modestly exceeding planned load but
// caps the benefit of overshooting at 20%, so junk volume can't inflate the
// score. Intensity adherence penalizes deviation from the prescribed
// intensity factor in either direction.
//
// Returns nil (no score, not zero) when any input is missing or when a
// planned value is zero - a meaningless ratio is not a bad workout.
func QualityScore(tssPlanned, tssActual, ifPlanned, ifActual *float64) *float64 {
	if tssPlanned == nil || tssActual == nil || ifPlanned == nil || ifActual == nil {
		return nil
	}
	if *tssPlanned == 0 || *ifPlanned == 0 {
		return nil
	}

	stressRatio := *tssActual / *tssPlanned
	if stressRatio > 1.2 {
		stressRatio = 1.2
	}
	if stressRatio < 0 {
		stressRatio = 0
	}
	stressAdherence := stressRatio / 1.2 * 100

	ifDelta := *ifActual - *ifPlanned
	if ifDelta < 0 {
		ifDelta = -ifDelta
	}
	intensityAdherence := 100 - (ifDelta / *ifPlanned * 100)

	score := 0.5*stressAdherence + 0.5*intensityAdherence
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return &score
}
