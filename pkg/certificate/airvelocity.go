package certificate

import (
	"fmt"
	"time"

	"github.com/svu-enterprises/certcore/pkg/hvac"
)

// AirVelocityFilter is one filter's traverse grid plus its derived columns.
type AirVelocityFilter struct {
	FilterID    string    `json:"filter_id"`
	FilterArea  float64   `json:"filter_area"`
	Readings    []float64 `json:"readings"`
	AvgVelocity float64   `json:"avg_velocity"`
	AirflowCFM  float64   `json:"air_flow_cfm"`
}

// AirVelocityRoom aggregates the filters serving one room.
type AirVelocityRoom struct {
	RoomName        string              `json:"room_name"`
	RoomNumber      string              `json:"room_number,omitempty"`
	RoomVolumeCFT   float64             `json:"room_volume_cft"`
	DesignACPH      float64             `json:"design_acph,omitempty"`
	Filters         []AirVelocityFilter `json:"filters"`
	TotalAirflowCFM float64             `json:"total_air_flow_cfm"`
	ACH             float64             `json:"ach"`
	Result          hvac.Status         `json:"result,omitempty"`
}

// AirVelocityCertificate is the computed air velocity / ACH test record.
type AirVelocityCertificate struct {
	ID          string            `json:"id"`
	Header      Header            `json:"header"`
	Rooms       []AirVelocityRoom `json:"rooms"`
	Inference   string            `json:"inference,omitempty"`
	Status      ApprovalStatus    `json:"status"`
	ComputedAt  time.Time         `json:"computed_at"`
	ContentHash string            `json:"content_hash"`
}

// NewAirVelocity derives every computed column from the raw traverse
// readings: per-filter average velocity and airflow, per-room total airflow
// and ACH, and a room result against the design ACPH when one is declared.
func NewAirVelocity(header Header, rooms []AirVelocityRoom, opts ...Option) (*AirVelocityCertificate, error) {
	if err := header.validate(); err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("certificate %s: air velocity test needs at least one room", header.CertificateNo)
	}
	o := buildOptions(opts)

	cert := &AirVelocityCertificate{
		ID:         o.id,
		Header:     header,
		Rooms:      make([]AirVelocityRoom, len(rooms)),
		Status:     StatusDraft,
		ComputedAt: o.clock().UTC(),
	}
	for i, room := range rooms {
		readings := make([]hvac.FilterReading, 0, len(room.Filters))
		for j := range room.Filters {
			f := &room.Filters[j]
			f.AvgVelocity = hvac.RoundToDecimal(hvac.AverageVelocity(f.Readings), 2)
			f.AirflowCFM = hvac.RoundToDecimal(hvac.AirflowCFM(f.AvgVelocity, f.FilterArea), 2)
			readings = append(readings, hvac.FilterReading{
				FilterID:   f.FilterID,
				FilterArea: f.FilterArea,
				Velocities: f.Readings,
			})
		}
		room.TotalAirflowCFM = hvac.RoundToDecimal(hvac.TotalAirflowCFM(readings), 2)
		room.ACH = hvac.RoundToDecimal(hvac.ACH(room.TotalAirflowCFM, room.RoomVolumeCFT), 2)
		if room.DesignACPH > 0 {
			// NLT against the design air change rate.
			room.Result = hvac.StatusFail
			if room.ACH >= room.DesignACPH {
				room.Result = hvac.StatusPass
			}
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
