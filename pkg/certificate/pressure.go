package certificate

import (
	"fmt"
	"time"

	"github.com/svu-enterprises/certcore/pkg/hvac"
)

// DifferentialPressureReading is one room-pair reading plus its verdict.
type DifferentialPressureReading struct {
	RoomPositive string      `json:"room_positive"`
	RoomNegative string      `json:"room_negative"`
	DPReadingPa  float64     `json:"dp_reading"`
	LimitPa      float64     `json:"limit"`
	TestStatus   hvac.Status `json:"test_status"`
}

// DifferentialPressureCertificate is the computed cascade pressure record.
type DifferentialPressureCertificate struct {
	ID          string                        `json:"id"`
	Header      Header                        `json:"header"`
	Readings    []DifferentialPressureReading `json:"readings"`
	Status      ApprovalStatus                `json:"status"`
	ComputedAt  time.Time                     `json:"computed_at"`
	ContentHash string                        `json:"content_hash"`
}

// NewDifferentialPressure judges every reading with NLT semantics against
// its limit (default 5 Pa when the reading does not declare one).
func NewDifferentialPressure(header Header, readings []DifferentialPressureReading, opts ...Option) (*DifferentialPressureCertificate, error) {
	if err := header.validate(); err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("certificate %s: differential pressure test needs at least one reading", header.CertificateNo)
	}
	o := buildOptions(opts)

	cert := &DifferentialPressureCertificate{
		ID:         o.id,
		Header:     header,
		Readings:   make([]DifferentialPressureReading, len(readings)),
		Status:     StatusDraft,
		ComputedAt: o.clock().UTC(),
	}
	for i, r := range readings {
		if r.LimitPa == 0 {
			r.LimitPa = hvac.DefaultPressureLimitPa
		}
		r.TestStatus = hvac.DifferentialPressureStatus(r.DPReadingPa, r.LimitPa)
		cert.Readings[i] = r
	}

	hash, err := contentHash(cert)
	if err != nil {
		return nil, err
	}
	cert.ContentHash = hash
	return cert, nil
}
