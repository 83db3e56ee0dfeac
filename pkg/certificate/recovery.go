package certificate

import (
	"fmt"
	"time"

	"github.com/svu-enterprises/certcore/pkg/hvac"
)

// RecoveryCertificate is the computed cleanroom recovery test record.
type RecoveryCertificate struct {
	ID                 string                   `json:"id"`
	Header             Header                   `json:"header"`
	AreaClassification string                   `json:"area_classification"`
	RoomName           string                   `json:"room_name,omitempty"`
	RoomNumber         string                   `json:"room_number,omitempty"`
	TestCondition      string                   `json:"test_condition,omitempty"`
	DataPoints         []hvac.RecoveryDataPoint `json:"data_points"`
	LimitMinutes       float64                  `json:"limit_minutes"`
	RecoveryTimeMin    float64                  `json:"recovery_time"`
	TestStatus         hvac.Status              `json:"test_status"`
	AuditStatement     string                   `json:"audit_statement,omitempty"`
	Status             ApprovalStatus           `json:"status"`
	ComputedAt         time.Time                `json:"computed_at"`
	ContentHash        string                   `json:"content_hash"`
}

// NewRecovery derives the recovery time from the particle count time series
// and judges it against the limit (default NMT 15 minutes). An incomplete
// run (no AHU-OFF contamination sample) computes to 0 minutes; flagging it
// to the operator is the caller's job.
func NewRecovery(header Header, areaClassification string, points []hvac.RecoveryDataPoint, limitMinutes float64, opts ...Option) (*RecoveryCertificate, error) {
	if err := header.validate(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("certificate %s: recovery test needs at least one data point", header.CertificateNo)
	}
	o := buildOptions(opts)
	if limitMinutes <= 0 {
		limitMinutes = hvac.DefaultRecoveryLimitMin
	}

	minutes := hvac.RecoveryTime(points)
	cert := &RecoveryCertificate{
		ID:                 o.id,
		Header:             header,
		AreaClassification: areaClassification,
		DataPoints:         points,
		LimitMinutes:       limitMinutes,
		RecoveryTimeMin:    minutes,
		TestStatus:         hvac.RecoveryStatus(minutes, limitMinutes),
		Status:             StatusDraft,
		ComputedAt:         o.clock().UTC(),
	}
	cert.AuditStatement = fmt.Sprintf(
		"Area recovered to %s at-rest limits in %.0f minute(s) against an acceptance criterion of NMT %.0f minutes.",
		areaClassification, minutes, limitMinutes,
	)

	hash, err := contentHash(cert)
	if err != nil {
		return nil, err
	}
	cert.ContentHash = hash
	return cert, nil
}
