package certificate

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Report is the audit-trail row written when a certificate or logbook entry
// is approved. Storage belongs to the hosting application; the registry
// here is the in-memory seam it implements against.
type Report struct {
	ID          string    `json:"id"`
	ReportType  string    `json:"report_type"`
	SourceID    string    `json:"source_id"`
	SourceTable string    `json:"source_table"`
	Title       string    `json:"title"`
	Site        string    `json:"site,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	ApprovedBy  string    `json:"approved_by,omitempty"`
	Remarks     string    `json:"remarks,omitempty"`
}

// Registry collects approval reports for one process lifetime.
type Registry struct {
	mu      sync.Mutex
	reports []Report
	clock   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clock: time.Now}
}

// WithClock overrides the clock for deterministic testing.
func (r *Registry) WithClock(clock func() time.Time) *Registry {
	r.clock = clock
	return r
}

// RecordApproval appends a report row for an approved record.
func (r *Registry) RecordApproval(reportType, sourceID, sourceTable, title, site, createdBy, approvedBy, remarks string) (*Report, error) {
	if sourceID == "" {
		return nil, fmt.Errorf("certificate: report needs a source id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := Report{
		ID:          uuid.NewString(),
		ReportType:  reportType,
		SourceID:    sourceID,
		SourceTable: sourceTable,
		Title:       title,
		Site:        site,
		CreatedBy:   createdBy,
		CreatedAt:   r.clock().UTC(),
		ApprovedBy:  approvedBy,
		Remarks:     remarks,
	}
	r.reports = append(r.reports, rep)
	return &rep, nil
}

// Remove drops every report row referencing a deleted source record and
// returns how many were dropped.
func (r *Registry) Remove(sourceID, sourceTable string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.reports[:0]
	removed := 0
	for _, rep := range r.reports {
		if rep.SourceID == sourceID && rep.SourceTable == sourceTable {
			removed++
			continue
		}
		kept = append(kept, rep)
	}
	r.reports = kept
	return removed
}

// List returns a copy of the collected reports in insertion order.
func (r *Registry) List() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}
