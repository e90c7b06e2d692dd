package analysis

// Physical constants for the flat-ground power/speed model
const (
	gravity    = 9.81 // m/s^2
	airDensity = 1.2  // kg/m^3

	speedIterations = 50
	speedFloorMS    = 1.0 // reset point for a negative excursion
)

// SpeedKPH solves for steady-state speed from power on flat ground,
// balancing rolling resistance against aerodynamic drag:
//
//	P = Crr*m*g*v + 0.5*rho*CdA*v^3
//
// solved for v with Newton-Raphson. The solver never fails: a zero
// derivative stops iterating with the current estimate, and a negative
// velocity excursion resets to a small positive floor instead of diverging.
// A batch report with one pathological input should still print.
func SpeedKPH(powerW, systemKg, cda, crr float64) float64 {
	rolling := crr * systemKg * gravity

	v := 8.0 // initial guess m/s
	for i := 0; i < speedIterations; i++ {
		f := rolling*v + 0.5*airDensity*cda*v*v*v - powerW
		fp := rolling + 1.5*airDensity*cda*v*v
		if fp == 0 {
			break
		}
		v = v - f/fp
		if v < 0 {
			v = speedFloorMS
		}
	}

	return v * 3.6
}
