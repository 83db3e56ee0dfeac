package hvac

// ClassLimit holds the ISO 14644-1 at-rest particle ceilings per cubic
// meter for one cleanliness class.
type ClassLimit struct {
	Count05 float64 // >= 0.5 um
	Count5  float64 // >= 5 um
}

// classLimits covers the classes the certificate workflows handle. The
// >=5 um channel is not classified below ISO 7; those rooms are assessed
// on the 0.5 um channel alone.
var classLimits = map[int]ClassLimit{
	5: {Count05: 3_520, Count5: 29},
	6: {Count05: 35_200, Count5: 293},
	7: {Count05: 352_000, Count5: 2_930},
	8: {Count05: 3_520_000, Count5: 29_300},
}

// ClassLimits returns the at-rest limits for an ISO class, ok=false for a
// class outside the supported 5..8 range.
func ClassLimits(isoClass int) (ClassLimit, bool) {
	l, ok := classLimits[isoClass]
	return l, ok
}

// MeanCount averages repeated particle count readings at one sampling
// point, 0 for an empty set.
func MeanCount(readings []float64) float64 {
	return mean(readings)
}

// NVPCPointStatus passes a sampling point whose channel averages are both
// inside their limits, boundary inclusive.
func NVPCPointStatus(avg05, avg5, limit05, limit5 float64) Status {
	if avg05 <= limit05 && avg5 <= limit5 {
		return StatusPass
	}
	return StatusFail
}
