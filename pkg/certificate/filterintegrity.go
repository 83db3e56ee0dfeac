package certificate

import (
	"fmt"
	"time"

	"github.com/svu-enterprises/certcore/pkg/hvac"
)

// FilterIntegrityReading is one HEPA filter's aerosol challenge plus the
// derived leakage and verdict.
type FilterIntegrityReading struct {
	FilterID             string      `json:"filter_id"`
	UpstreamConc         float64     `json:"upstream_concentration"`
	AerosolConc          float64     `json:"aerosol_concentration,omitempty"`
	DownstreamConc       float64     `json:"downstream_concentration"`
	AcceptableLimit      float64     `json:"acceptable_limit"`
	DownstreamLeakagePct float64     `json:"downstream_leakage"`
	TestStatus           hvac.Status `json:"test_status"`
}

// FilterIntegrityRoom groups the filters tested in one room.
type FilterIntegrityRoom struct {
	RoomName   string                   `json:"room_name"`
	RoomNumber string                   `json:"room_number,omitempty"`
	Readings   []FilterIntegrityReading `json:"readings"`
}

// FilterIntegrityCertificate is the computed HEPA filter integrity record.
type FilterIntegrityCertificate struct {
	ID          string                `json:"id"`
	Header      Header                `json:"header"`
	Rooms       []FilterIntegrityRoom `json:"rooms"`
	Inference   string                `json:"inference,omitempty"`
	Status      ApprovalStatus        `json:"status"`
	ComputedAt  time.Time             `json:"computed_at"`
	ContentHash string                `json:"content_hash"`
}

// NewFilterIntegrity derives downstream leakage and the per-filter verdict.
// A reading without an explicit acceptable limit uses the default 0.01%.
func NewFilterIntegrity(header Header, rooms []FilterIntegrityRoom, opts ...Option) (*FilterIntegrityCertificate, error) {
	if err := header.validate(); err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("certificate %s: filter integrity test needs at least one room", header.CertificateNo)
	}
	o := buildOptions(opts)

	cert := &FilterIntegrityCertificate{
		ID:         o.id,
		Header:     header,
		Rooms:      make([]FilterIntegrityRoom, len(rooms)),
		Status:     StatusDraft,
		ComputedAt: o.clock().UTC(),
	}
	for i, room := range rooms {
		for j := range room.Readings {
			r := &room.Readings[j]
			if r.AcceptableLimit == 0 {
				r.AcceptableLimit = hvac.DefaultLeakageLimit
			}
			r.DownstreamLeakagePct = hvac.LeakagePercent(r.UpstreamConc, r.DownstreamConc)
			r.TestStatus = hvac.FilterIntegrityStatus(r.DownstreamLeakagePct, r.AcceptableLimit)
		}
		cert.Rooms[i] = room
	}

	hash, err := contentHash(cert)
	if err != nil {
		return nil, err
	}
	cert.ContentHash = hash
	return cert, nil
}
