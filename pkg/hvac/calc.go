// Package hvac implements the fixed-formula arithmetic behind cleanroom and
// utility compliance certificates: air velocity and ACH, HEPA filter
// leakage, recovery time, differential pressure and chemical preparation.
// Every function is pure and deterministic; degenerate inputs (zero volume,
// zero upstream concentration) return a defined fallback instead of failing,
// since they are legitimate "not yet measured" states in a live form.
package hvac

import "math"

// Status is a compliance verdict.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// Default compliance thresholds. Certificates may override per reading.
const (
	// DefaultLeakageLimit is the maximum acceptable downstream leakage in
	// percent for a HEPA filter integrity test.
	DefaultLeakageLimit = 0.01
	// DefaultPressureLimitPa is the minimum (NLT) differential pressure in
	// Pascals between adjacent classified rooms.
	DefaultPressureLimitPa = 5.0
	// DefaultRecoveryLimitMin is the maximum (NMT) recovery time in minutes.
	DefaultRecoveryLimitMin = 15.0
)

// FilterReading is one filter's velocity grid inside a room: the filter
// face area in square feet and the traverse velocity readings in ft/min.
type FilterReading struct {
	FilterID   string    `json:"filter_id"`
	FilterArea float64   `json:"filter_area"`
	Velocities []float64 `json:"velocities"`
}

// AverageVelocity returns the arithmetic mean of the traverse readings,
// 0 for an empty set.
func AverageVelocity(readings []float64) float64 {
	return mean(readings)
}

// AirflowCFM converts an average face velocity (ft/min) over a filter area
// (sq ft) into a volumetric flow in cubic feet per minute.
func AirflowCFM(avgVelocity, filterArea float64) float64 {
	return avgVelocity * filterArea
}

// TotalAirflowCFM sums the airflow of every filter serving a room.
func TotalAirflowCFM(filters []FilterReading) float64 {
	total := 0.0
	for _, f := range filters {
		total += AirflowCFM(AverageVelocity(f.Velocities), f.FilterArea)
	}
	return total
}

// ACH converts total supply airflow (CFM) and room volume (cubic feet) into
// air changes per hour. A zero or negative volume yields 0.
func ACH(totalCFM, roomVolumeCFT float64) float64 {
	if roomVolumeCFT <= 0 {
		return 0
	}
	return (totalCFM * 60) / roomVolumeCFT
}

// LeakagePercent is the downstream aerosol penetration as a percentage of
// the upstream challenge concentration, rounded to 4 decimals. A zero
// upstream concentration yields 0.
func LeakagePercent(upstream, downstream float64) float64 {
	if upstream == 0 {
		return 0
	}
	return RoundToDecimal((downstream/upstream)*100, 4)
}

// FilterIntegrityStatus passes a filter whose leakage does not exceed the
// limit. The boundary is inclusive: leakage equal to the limit passes.
func FilterIntegrityStatus(leakagePercent, limit float64) Status {
	if leakagePercent <= limit {
		return StatusPass
	}
	return StatusFail
}

// DifferentialPressureStatus applies NLT semantics: the reading must be at
// least the limit, boundary inclusive.
func DifferentialPressureStatus(dp, limit float64) Status {
	if dp >= limit {
		return StatusPass
	}
	return StatusFail
}

// RecoveryStatus applies NMT semantics to a recovery time in minutes.
func RecoveryStatus(minutes, limit float64) Status {
	if minutes <= limit {
		return StatusPass
	}
	return StatusFail
}

// ChemicalQuantityGrams returns the grams of stock chemical needed to mix a
// solution of the target concentration into the given litres of water.
// A zero stock concentration yields 0.
func ChemicalQuantityGrams(solutionPercent, waterLitres, stockPercent float64) float64 {
	if stockPercent == 0 {
		return 0
	}
	return (solutionPercent * waterLitres * 1000) / stockPercent
}

// RoundToDecimal rounds half away from zero at the given number of decimal
// places via scale/round/unscale.
func RoundToDecimal(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
