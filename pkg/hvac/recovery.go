package hvac

import (
	"math"
	"strconv"
	"strings"
)

// AHUState flags whether the air handling unit was running when a particle
// sample was taken.
type AHUState string

const (
	AHUOn  AHUState = "ON"
	AHUOff AHUState = "OFF"
)

// ISO-8 "at rest" particle ceilings per cubic meter. A room has recovered
// once both channels are back inside these limits.
const (
	ISO8Limit05 = 3_520_000.0 // >= 0.5 um
	ISO8Limit5  = 29_300.0    // >= 5 um
)

// RecoveryDataPoint is one sample of a recovery test time series.
// Time is wall-clock "HH:MM" or "HH:MM:SS".
type RecoveryDataPoint struct {
	Time      string   `json:"time"`
	AHUStatus AHUState `json:"ahu_status"`
	Count05   float64  `json:"particle_count_05"` // >= 0.5 um
	Count5    float64  `json:"particle_count_5"`  // >= 5 um
}

// RecoveryTime computes the recovery time in whole minutes from a particle
// count time series:
//
//  1. The worst condition is the AHU-OFF sample with the highest summed
//     particle count. No OFF sample means the contamination event was never
//     observed and the result is 0.
//  2. The recovery point is the AHU-ON sample strictly after the worst
//     condition whose counts are BOTH inside the ISO-8 at-rest limits,
//     choosing the sample closest to baseline (lowest sum), not the first
//     qualifying one.
//  3. If no sample qualifies, the elapsed time to the last observation is
//     reported as a lower bound on the unachieved recovery.
//
// Elapsed time is always rounded UP to the next whole minute.
func RecoveryTime(points []RecoveryDataPoint) float64 {
	type sample struct {
		minutes float64
		point   RecoveryDataPoint
	}
	samples := make([]sample, 0, len(points))
	for _, p := range points {
		m, ok := parseClockMinutes(p.Time)
		if !ok {
			continue
		}
		samples = append(samples, sample{minutes: m, point: p})
	}
	if len(samples) == 0 {
		return 0
	}

	worstIdx := -1
	for i, s := range samples {
		if s.point.AHUStatus != AHUOff {
			continue
		}
		if worstIdx < 0 || s.point.Count05+s.point.Count5 > samples[worstIdx].point.Count05+samples[worstIdx].point.Count5 {
			worstIdx = i
		}
	}
	if worstIdx < 0 {
		return 0
	}
	tWorst := samples[worstIdx].minutes

	recoveryIdx := -1
	tLast := tWorst
	for i, s := range samples {
		if s.minutes > tLast {
			tLast = s.minutes
		}
		if s.minutes <= tWorst || s.point.AHUStatus != AHUOn {
			continue
		}
		if s.point.Count05 > ISO8Limit05 || s.point.Count5 > ISO8Limit5 {
			continue
		}
		if recoveryIdx < 0 || s.point.Count05+s.point.Count5 < samples[recoveryIdx].point.Count05+samples[recoveryIdx].point.Count5 {
			recoveryIdx = i
		}
	}

	var elapsed float64
	if recoveryIdx >= 0 {
		elapsed = samples[recoveryIdx].minutes - tWorst
	} else {
		elapsed = tLast - tWorst
	}
	if elapsed <= 0 {
		return 0
	}
	return math.Ceil(elapsed)
}

// parseClockMinutes converts "HH:MM" or "HH:MM:SS" into fractional minutes
// since midnight. Missing seconds default to 0.
func parseClockMinutes(s string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	sec := 0
	if len(parts) == 3 {
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, false
		}
	}
	return float64(h)*60 + float64(m) + float64(sec)/60, true
}
