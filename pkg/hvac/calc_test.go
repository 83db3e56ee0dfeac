package hvac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAverageVelocity(t *testing.T) {
	require.Equal(t, 90.0, AverageVelocity([]float64{88, 92, 90, 89, 91}))
	require.Equal(t, 0.0, AverageVelocity(nil))
}

func TestAirflowCFM(t *testing.T) {
	require.Equal(t, 360.0, AirflowCFM(90, 4))
	require.Equal(t, 0.0, AirflowCFM(0, 4))
}

func TestTotalAirflowCFM_OrderIndependent(t *testing.T) {
	a := FilterReading{FilterID: "F1", FilterArea: 4, Velocities: []float64{90, 90, 90, 90, 90}}
	b := FilterReading{FilterID: "F2", FilterArea: 2, Velocities: []float64{100, 100, 100, 100, 100}}
	c := FilterReading{FilterID: "F3", FilterArea: 3, Velocities: []float64{80, 80, 80, 80, 80}}

	want := 90.0*4 + 100.0*2 + 80.0*3
	require.InDelta(t, want, TotalAirflowCFM([]FilterReading{a, b, c}), 1e-9)
	require.InDelta(t, want, TotalAirflowCFM([]FilterReading{c, a, b}), 1e-9)
}

func TestACH(t *testing.T) {
	require.InDelta(t, 33.6, ACH(560, 1000), 1e-9)
	require.Equal(t, 0.0, ACH(560, 0), "zero volume must not divide")
	require.Equal(t, 0.0, ACH(560, -10))
}

func TestLeakagePercent(t *testing.T) {
	require.Equal(t, 0.02, LeakagePercent(100, 0.02))
	require.Equal(t, 0.0, LeakagePercent(0, 5), "zero upstream must not divide")
	// Rounded to 4 decimals.
	require.Equal(t, 0.0333, LeakagePercent(30000, 10))
}

func TestFilterIntegrityStatus(t *testing.T) {
	require.Equal(t, StatusFail, FilterIntegrityStatus(0.02, DefaultLeakageLimit))
	require.Equal(t, StatusPass, FilterIntegrityStatus(0.005, DefaultLeakageLimit))
	require.Equal(t, StatusPass, FilterIntegrityStatus(0.01, DefaultLeakageLimit), "boundary is inclusive")
}

func TestDifferentialPressureStatus(t *testing.T) {
	require.Equal(t, StatusPass, DifferentialPressureStatus(5, DefaultPressureLimitPa), "NLT boundary is inclusive")
	require.Equal(t, StatusPass, DifferentialPressureStatus(12.5, 5))
	require.Equal(t, StatusFail, DifferentialPressureStatus(4.9, 5))
}

func TestRecoveryStatus(t *testing.T) {
	require.Equal(t, StatusPass, RecoveryStatus(15, DefaultRecoveryLimitMin), "NMT boundary is inclusive")
	require.Equal(t, StatusFail, RecoveryStatus(16, DefaultRecoveryLimitMin))
}

func TestChemicalQuantityGrams(t *testing.T) {
	// 2% solution in 10 L of water from 90% stock.
	require.InDelta(t, (2.0*10*1000)/90, ChemicalQuantityGrams(2, 10, 90), 1e-9)
	require.Equal(t, 0.0, ChemicalQuantityGrams(2, 10, 0), "zero stock strength must not divide")
}

func TestRoundToDecimal(t *testing.T) {
	require.Equal(t, 0.02, RoundToDecimal(0.02, 4))
	require.Equal(t, 1.24, RoundToDecimal(1.2351, 2))
	require.Equal(t, 1.23, RoundToDecimal(1.2349, 2))
	require.Equal(t, 123.0, RoundToDecimal(123.4, 0))
	require.Equal(t, -1.24, RoundToDecimal(-1.2351, 2))
}
