package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/svu-enterprises/certcore/pkg/hvac"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func testHeader() Header {
	return Header{
		CertificateNo: "SVU-AV-0101",
		ClientName:    "Acme Pharma",
		Date:          "2026-03-01",
		AHUNumber:     "AHU-07",
		Instrument: Instrument{
			Name:         "Anemometer",
			Make:         "TSI",
			Model:        "9535",
			SerialNumber: "SN-1234",
		},
		OperatorName: "R. Iyer",
		PreparedBy:   "R. Iyer",
	}
}

func TestTransitions(t *testing.T) {
	require.True(t, StatusDraft.CanTransition(StatusPending))
	require.True(t, StatusPending.CanTransition(StatusApproved))
	require.True(t, StatusPending.CanTransition(StatusRejected))
	require.True(t, StatusRejected.CanTransition(StatusDraft))

	require.False(t, StatusDraft.CanTransition(StatusApproved), "no skipping review")
	require.False(t, StatusApproved.CanTransition(StatusDraft), "approved records are immutable")

	next, err := Transition(StatusDraft, StatusPending)
	require.NoError(t, err)
	require.Equal(t, StatusPending, next)

	_, err = Transition(StatusApproved, StatusRejected)
	require.Error(t, err)
}

func TestNewAirVelocity(t *testing.T) {
	rooms := []AirVelocityRoom{{
		RoomName:      "Filling Room",
		RoomVolumeCFT: 1000,
		DesignACPH:    20,
		Filters: []AirVelocityFilter{
			{FilterID: "F1", FilterArea: 4, Readings: []float64{88, 92, 90, 89, 91}},
			{FilterID: "F2", FilterArea: 2, Readings: []float64{100, 100, 100, 100, 100}},
		},
	}}
	cert, err := NewAirVelocity(testHeader(), rooms, WithClock(fixedClock), WithID("av-1"))
	require.NoError(t, err)

	require.Equal(t, "av-1", cert.ID)
	require.Equal(t, StatusDraft, cert.Status)
	require.Equal(t, fixedClock(), cert.ComputedAt)

	room := cert.Rooms[0]
	require.Equal(t, 90.0, room.Filters[0].AvgVelocity)
	require.Equal(t, 360.0, room.Filters[0].AirflowCFM)
	require.Equal(t, 200.0, room.Filters[1].AirflowCFM)
	require.Equal(t, 560.0, room.TotalAirflowCFM)
	require.Equal(t, 33.6, room.ACH)
	require.Equal(t, hvac.StatusPass, room.Result)

	require.Regexp(t, `^sha256:[0-9a-f]{64}$`, cert.ContentHash)
}

func TestNewAirVelocityDesignACPHNotMet(t *testing.T) {
	rooms := []AirVelocityRoom{{
		RoomName:      "Airlock",
		RoomVolumeCFT: 5000,
		DesignACPH:    40,
		Filters: []AirVelocityFilter{
			{FilterID: "F1", FilterArea: 2, Readings: []float64{80, 80}},
		},
	}}
	cert, err := NewAirVelocity(testHeader(), rooms, WithClock(fixedClock))
	require.NoError(t, err)
	require.Equal(t, hvac.StatusFail, cert.Rooms[0].Result)
}

func TestNewAirVelocityRejectsEmpty(t *testing.T) {
	_, err := NewAirVelocity(testHeader(), nil)
	require.Error(t, err)

	h := testHeader()
	h.CertificateNo = ""
	_, err = NewAirVelocity(h, []AirVelocityRoom{{RoomName: "x"}})
	require.Error(t, err)
}

func TestCertificateDeterministicHash(t *testing.T) {
	rooms := []AirVelocityRoom{{
		RoomName:      "Filling Room",
		RoomVolumeCFT: 1000,
		Filters:       []AirVelocityFilter{{FilterID: "F1", FilterArea: 4, Readings: []float64{90}}},
	}}
	c1, err := NewAirVelocity(testHeader(), rooms, WithClock(fixedClock), WithID("av-1"))
	require.NoError(t, err)
	c2, err := NewAirVelocity(testHeader(), rooms, WithClock(fixedClock), WithID("av-1"))
	require.NoError(t, err)
	require.Equal(t, c1.ContentHash, c2.ContentHash)
}

func TestNewFilterIntegrity(t *testing.T) {
	rooms := []FilterIntegrityRoom{{
		RoomName: "Dispensing",
		Readings: []FilterIntegrityReading{
			{FilterID: "F1", UpstreamConc: 100, DownstreamConc: 0.02},
			{FilterID: "F2", UpstreamConc: 100, DownstreamConc: 0.005},
		},
	}}
	cert, err := NewFilterIntegrity(testHeader(), rooms, WithClock(fixedClock))
	require.NoError(t, err)

	r := cert.Rooms[0].Readings
	require.Equal(t, hvac.DefaultLeakageLimit, r[0].AcceptableLimit)
	require.Equal(t, 0.02, r[0].DownstreamLeakagePct)
	require.Equal(t, hvac.StatusFail, r[0].TestStatus)
	require.Equal(t, 0.005, r[1].DownstreamLeakagePct)
	require.Equal(t, hvac.StatusPass, r[1].TestStatus)
}

func TestNewDifferentialPressure(t *testing.T) {
	readings := []DifferentialPressureReading{
		{RoomPositive: "Filling", RoomNegative: "Corridor", DPReadingPa: 12.5},
		{RoomPositive: "Corridor", RoomNegative: "Airlock", DPReadingPa: 5},
		{RoomPositive: "Airlock", RoomNegative: "Gowning", DPReadingPa: 4.5, LimitPa: 4},
		{RoomPositive: "Gowning", RoomNegative: "Outside", DPReadingPa: 2},
	}
	cert, err := NewDifferentialPressure(testHeader(), readings, WithClock(fixedClock))
	require.NoError(t, err)

	got := cert.Readings
	require.Equal(t, hvac.DefaultPressureLimitPa, got[0].LimitPa)
	require.Equal(t, hvac.StatusPass, got[0].TestStatus)
	require.Equal(t, hvac.StatusPass, got[1].TestStatus, "NLT boundary is inclusive")
	require.Equal(t, hvac.StatusPass, got[2].TestStatus, "explicit limit overrides the default")
	require.Equal(t, hvac.StatusFail, got[3].TestStatus)
}

func TestNewRecovery(t *testing.T) {
	points := []hvac.RecoveryDataPoint{
		{Time: "00:00", AHUStatus: hvac.AHUOff, Count05: 4_000_000, Count5: 40_000},
		{Time: "00:05", AHUStatus: hvac.AHUOn, Count05: 3_000_000, Count5: 20_000},
	}
	cert, err := NewRecovery(testHeader(), "ISO-8", points, 0, WithClock(fixedClock))
	require.NoError(t, err)

	require.Equal(t, hvac.DefaultRecoveryLimitMin, cert.LimitMinutes)
	require.Equal(t, 5.0, cert.RecoveryTimeMin)
	require.Equal(t, hvac.StatusPass, cert.TestStatus)
	require.Contains(t, cert.AuditStatement, "5 minute(s)")
	require.Contains(t, cert.AuditStatement, "NMT 15")
}

func TestNewRecoveryExceedsLimit(t *testing.T) {
	points := []hvac.RecoveryDataPoint{
		{Time: "00:00", AHUStatus: hvac.AHUOff, Count05: 4_000_000, Count5: 40_000},
		{Time: "00:22", AHUStatus: hvac.AHUOn, Count05: 3_000_000, Count5: 20_000},
	}
	cert, err := NewRecovery(testHeader(), "ISO-8", points, 15, WithClock(fixedClock))
	require.NoError(t, err)
	require.Equal(t, 22.0, cert.RecoveryTimeMin)
	require.Equal(t, hvac.StatusFail, cert.TestStatus)
}

func TestNewNVPC(t *testing.T) {
	rooms := []NVPCRoom{{
		RoomName: "Filling Room",
		ISOClass: 8,
		SamplingPoints: []NVPCSamplingPoint{
			{PointID: "P1", Readings05: []float64{3_000_000, 3_200_000}, Readings5: []float64{20_000, 24_000}},
			{PointID: "P2", Readings05: []float64{1_000_000}, Readings5: []float64{10_000}},
		},
	}}
	cert, err := NewNVPC(testHeader(), rooms, WithClock(fixedClock))
	require.NoError(t, err)

	room := cert.Rooms[0]
	require.Equal(t, 3_100_000.0, room.SamplingPoints[0].Average05)
	require.Equal(t, 22_000.0, room.SamplingPoints[0].Average5)
	require.Equal(t, 3_520_000.0, room.SamplingPoints[0].Limit05, "limits filled from the ISO class table")
	require.Equal(t, hvac.StatusPass, room.SamplingPoints[0].TestStatus)
	require.Equal(t, hvac.StatusPass, room.RoomStatus)
	require.Equal(t, 2_050_000.0, room.Mean05)
}

func TestNewNVPCRoomFailsWhenAnyPointFails(t *testing.T) {
	rooms := []NVPCRoom{{
		RoomName: "Filling Room",
		ISOClass: 7,
		SamplingPoints: []NVPCSamplingPoint{
			{PointID: "P1", Readings05: []float64{100_000}, Readings5: []float64{100}},
			{PointID: "P2", Readings05: []float64{400_000}, Readings5: []float64{100}},
		},
	}}
	cert, err := NewNVPC(testHeader(), rooms, WithClock(fixedClock))
	require.NoError(t, err)

	room := cert.Rooms[0]
	require.Equal(t, hvac.StatusPass, room.SamplingPoints[0].TestStatus)
	require.Equal(t, hvac.StatusFail, room.SamplingPoints[1].TestStatus)
	require.Equal(t, hvac.StatusFail, room.RoomStatus)
}

func TestNewNVPCUnsupportedClass(t *testing.T) {
	rooms := []NVPCRoom{{
		RoomName: "Warehouse",
		ISOClass: 9,
		SamplingPoints: []NVPCSamplingPoint{
			{PointID: "P1", Readings05: []float64{1}, Readings5: []float64{1}},
		},
	}}
	_, err := NewNVPC(testHeader(), rooms)
	require.Error(t, err)

	// Explicit per-point limits make the class table irrelevant.
	rooms[0].SamplingPoints[0].Limit05 = 10_000_000
	rooms[0].SamplingPoints[0].Limit5 = 100_000
	cert, err := NewNVPC(testHeader(), rooms, WithClock(fixedClock))
	require.NoError(t, err)
	require.Equal(t, hvac.StatusPass, cert.Rooms[0].RoomStatus)
}

func TestNewChemicalPreparation(t *testing.T) {
	prep, err := NewChemicalPreparation("Sodium Hypochlorite", "R. Iyer", 2, 10, 90, WithClock(fixedClock), WithID("chem-1"))
	require.NoError(t, err)

	require.Equal(t, "chem-1", prep.ID)
	require.Equal(t, 222.22, prep.ChemicalQtyGrams)
	require.Equal(t, StatusDraft, prep.Status)

	_, err = NewChemicalPreparation("", "R. Iyer", 2, 10, 90)
	require.Error(t, err)

	prep, err = NewChemicalPreparation("Sodium Hypochlorite", "R. Iyer", 2, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, prep.ChemicalQtyGrams, "zero stock strength yields zero grams")
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry().WithClock(fixedClock)

	rep, err := reg.RecordApproval("test_certificate", "av-1", "air_velocity", "Air Velocity SVU-AV-0101", "Unit 2", "r.iyer", "s.rao", "")
	require.NoError(t, err)
	require.NotEmpty(t, rep.ID)
	require.Equal(t, fixedClock(), rep.CreatedAt)

	_, err = reg.RecordApproval("test_certificate", "", "air_velocity", "t", "", "u", "a", "")
	require.Error(t, err, "a report must reference its source record")

	_, err = reg.RecordApproval("test_certificate", "av-2", "air_velocity", "t", "", "u", "a", "")
	require.NoError(t, err)
	require.Len(t, reg.List(), 2)

	require.Equal(t, 1, reg.Remove("av-1", "air_velocity"))
	require.Equal(t, 0, reg.Remove("av-1", "air_velocity"))
	remaining := reg.List()
	require.Len(t, remaining, 1)
	require.Equal(t, "av-2", remaining[0].SourceID)
}
