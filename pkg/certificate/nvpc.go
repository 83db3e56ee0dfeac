package certificate

import (
	"fmt"
	"time"

	"github.com/svu-enterprises/certcore/pkg/hvac"
)

// NVPCSamplingPoint is one particle counter location: repeated readings per
// channel plus the derived averages and verdict.
type NVPCSamplingPoint struct {
	PointID    string      `json:"point_id"`
	Location   string      `json:"location,omitempty"`
	Readings05 []float64   `json:"readings_05"`
	Readings5  []float64   `json:"readings_5"`
	Average05  float64     `json:"average_05"`
	Average5   float64     `json:"average_5"`
	Limit05    float64     `json:"limit_05"`
	Limit5     float64     `json:"limit_5"`
	TestStatus hvac.Status `json:"test_status"`
}

// NVPCRoom aggregates the sampling points of one room at a declared ISO
// class.
type NVPCRoom struct {
	RoomName       string              `json:"room_name"`
	RoomNumber     string              `json:"room_number,omitempty"`
	ISOClass       int                 `json:"iso_class"`
	SamplingPoints []NVPCSamplingPoint `json:"sampling_points"`
	Mean05         float64             `json:"mean_05"`
	Mean5          float64             `json:"mean_5"`
	RoomStatus     hvac.Status         `json:"room_status"`
}

// NVPCCertificate is the computed non-viable particle count record.
type NVPCCertificate struct {
	ID                 string         `json:"id"`
	Header             Header         `json:"header"`
	AreaClassification string         `json:"area_classification,omitempty"`
	Rooms              []NVPCRoom     `json:"rooms"`
	Inference          string         `json:"inference,omitempty"`
	Status             ApprovalStatus `json:"status"`
	ComputedAt         time.Time      `json:"computed_at"`
	ContentHash        string         `json:"content_hash"`
}

// NewNVPC averages each sampling point's channels, fills missing limits
// from the room's ISO class table, and rolls point verdicts up to a room
// verdict (a room passes only if every point passes).
func NewNVPC(header Header, rooms []NVPCRoom, opts ...Option) (*NVPCCertificate, error) {
	if err := header.validate(); err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("certificate %s: NVPC test needs at least one room", header.CertificateNo)
	}
	o := buildOptions(opts)

	cert := &NVPCCertificate{
		ID:         o.id,
		Header:     header,
		Rooms:      make([]NVPCRoom, len(rooms)),
		Status:     StatusDraft,
		ComputedAt: o.clock().UTC(),
	}
	for i, room := range rooms {
		classLimit, knownClass := hvac.ClassLimits(room.ISOClass)
		if !knownClass && roomNeedsClassLimits(room) {
			return nil, fmt.Errorf("certificate %s: room %q declares unsupported ISO class %d", header.CertificateNo, room.RoomName, room.ISOClass)
		}

		roomStatus := hvac.StatusPass
		var sum05, sum5 float64
		for j := range room.SamplingPoints {
			p := &room.SamplingPoints[j]
			p.Average05 = hvac.MeanCount(p.Readings05)
			p.Average5 = hvac.MeanCount(p.Readings5)
			if p.Limit05 == 0 {
				p.Limit05 = classLimit.Count05
			}
			if p.Limit5 == 0 {
				p.Limit5 = classLimit.Count5
			}
			p.TestStatus = hvac.NVPCPointStatus(p.Average05, p.Average5, p.Limit05, p.Limit5)
			if p.TestStatus == hvac.StatusFail {
				roomStatus = hvac.StatusFail
			}
			sum05 += p.Average05
			sum5 += p.Average5
		}
		if n := len(room.SamplingPoints); n > 0 {
			room.Mean05 = sum05 / float64(n)
			room.Mean5 = sum5 / float64(n)
		}
		room.RoomStatus = roomStatus
		cert.Rooms[i] = room
	}

	hash, err := contentHash(cert)
	if err != nil {
		return nil, err
	}
	cert.ContentHash = hash
	return cert, nil
}

// roomNeedsClassLimits reports whether any sampling point relies on the ISO
// class table instead of declaring its own limits.
func roomNeedsClassLimits(room NVPCRoom) bool {
	for _, p := range room.SamplingPoints {
		if p.Limit05 == 0 || p.Limit5 == 0 {
			return true
		}
	}
	return false
}
