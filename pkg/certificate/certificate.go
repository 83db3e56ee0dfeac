// Package certificate implements the typed test-certificate workflows that
// consume the hvac calculation library directly: air velocity, filter
// integrity, recovery, differential pressure, non-viable particle count and
// chemical preparation. Each constructor takes raw readings by value,
// derives every computed column, stamps identity and a canonical content
// hash, and returns an audit-ready record. Persistence and rendering belong
// to the hosting application.
package certificate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"
)

// ApprovalStatus tracks a certificate through the approval workflow.
type ApprovalStatus string

const (
	StatusDraft    ApprovalStatus = "draft"
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

var legalTransitions = map[ApprovalStatus][]ApprovalStatus{
	StatusDraft:    {StatusPending},
	StatusPending:  {StatusApproved, StatusRejected},
	StatusRejected: {StatusDraft},
}

// CanTransition reports whether moving from s to next is a legal workflow
// step. Approved certificates are immutable.
func (s ApprovalStatus) CanTransition(next ApprovalStatus) bool {
	for _, t := range legalTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Transition validates and applies a workflow step.
func Transition(current, next ApprovalStatus) (ApprovalStatus, error) {
	if !current.CanTransition(next) {
		return current, fmt.Errorf("certificate: illegal status transition %s -> %s", current, next)
	}
	return next, nil
}

// Instrument records the measuring instrument a certificate was produced
// with. Calibration dates are "2006-01-02" strings straight from the
// calibration sticker; the engine does not compute on them.
type Instrument struct {
	Name               string `json:"instrument_name"`
	Make               string `json:"instrument_make"`
	Model              string `json:"instrument_model"`
	SerialNumber       string `json:"instrument_serial_number"`
	IDNumber           string `json:"instrument_id_number,omitempty"`
	CalibrationDate    string `json:"instrument_calibration_date,omitempty"`
	CalibrationDueDate string `json:"instrument_calibration_due_date,omitempty"`
	FlowRate           string `json:"instrument_flow_rate,omitempty"`
	SamplingTime       string `json:"instrument_sampling_time,omitempty"`
}

// Header carries the fields common to every certificate type.
type Header struct {
	CertificateNo string     `json:"certificate_no"`
	ClientName    string     `json:"client_name"`
	ClientAddress string     `json:"client_address"`
	Date          string     `json:"date"`
	TestReference string     `json:"test_reference,omitempty"`
	AHUNumber     string     `json:"ahu_number"`
	Instrument    Instrument `json:"instrument"`
	OperatorName  string     `json:"operator_name"`
	PreparedBy    string     `json:"prepared_by"`
}

func (h *Header) validate() error {
	if h.CertificateNo == "" {
		return fmt.Errorf("certificate: certificate number is required")
	}
	return nil
}

// Option adjusts certificate construction; the defaults (wall clock, random
// uuid) are right outside tests.
type Option func(*options)

type options struct {
	clock func() time.Time
	id    string
}

// WithClock overrides the clock for deterministic testing.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithID overrides the generated certificate id.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	return o
}

// contentHash returns "sha256:<hex>" over the RFC 8785 canonical JSON form
// of v, computed with the hash field still empty.
func contentHash(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("certificate: hash marshal failed: %w", err)
	}
	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", fmt.Errorf("certificate: canonicalization failed: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}
