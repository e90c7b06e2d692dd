package analysis

import (
	"math"
	"testing"
)

func TestSpeedKPH(t *testing.T) {
	tests := []struct {
		name     string
		powerW   float64
		systemKg float64
		cda      float64
		crr      float64
		checkFn  func(t *testing.T, kph float64)
	}{
		{
			name:     "typical endurance pace converges to plausible speed",
			powerW:   200,
			systemKg: 85,
			cda:      0.35,
			crr:      0.004,
			checkFn: func(t *testing.T, kph float64) {
				// ~200W on the flat should land in the low-to-mid 30s
				if kph < 25 || kph > 45 {
					t.Errorf("SpeedKPH(200W) = %v kph, outside plausible 25-45 range", kph)
				}
			},
		},
		{
			name:     "solution satisfies the power balance",
			powerW:   250,
			systemKg: 93,
			cda:      0.32,
			crr:      0.004,
			checkFn: func(t *testing.T, kph float64) {
				v := kph / 3.6
				p := 0.004*93*9.81*v + 0.5*1.2*0.32*v*v*v
				if math.Abs(p-250) > 0.01 {
					t.Errorf("power at solved speed = %vW, want 250W", p)
				}
			},
		},
		{
			name:     "zero power never crashes",
			powerW:   0,
			systemKg: 85,
			cda:      0.35,
			crr:      0.004,
			checkFn: func(t *testing.T, kph float64) {
				if kph < 0 {
					t.Errorf("SpeedKPH(0W) = %v, want non-negative", kph)
				}
			},
		},
		{
			name:     "negative power never crashes",
			powerW:   -100,
			systemKg: 85,
			cda:      0.35,
			crr:      0.004,
			checkFn: func(t *testing.T, kph float64) {
				if kph < 0 {
					t.Errorf("SpeedKPH(-100W) = %v, want non-negative", kph)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpeedKPH(tt.powerW, tt.systemKg, tt.cda, tt.crr)
			tt.checkFn(t, got)
		})
	}
}

func TestSpeedKPHMonotonicInPower(t *testing.T) {
	prev := 0.0
	for _, power := range []float64{100, 150, 200, 250, 300, 350} {
		kph := SpeedKPH(power, 85, 0.35, 0.004)
		if kph <= prev {
			t.Errorf("SpeedKPH(%vW) = %v, not greater than %v at lower power", power, kph, prev)
		}
		prev = kph
	}
}

func TestSpeedKPHDecreasingInCdA(t *testing.T) {
	prev := math.Inf(1)
	for _, cda := range []float64{0.20, 0.26, 0.30, 0.35, 0.40} {
		kph := SpeedKPH(200, 85, cda, 0.004)
		if kph >= prev {
			t.Errorf("SpeedKPH(CdA=%v) = %v, not less than %v at lower CdA", cda, kph, prev)
		}
		prev = kph
	}
}

func TestSpeedKPHDraftingIncreasesSpeed(t *testing.T) {
	solo := SpeedKPH(200, 85, 0.35, 0.004)
	drafting := SpeedKPH(200, 85, 0.35/2, 0.004)

	if drafting <= solo {
		t.Errorf("halved CdA speed %v should exceed solo speed %v", drafting, solo)
	}
}
