package certificate

import (
	"fmt"
	"time"

	"github.com/svu-enterprises/certcore/pkg/hvac"
)

// ChemicalPreparation is a chemical dosing log entry: the operator records
// the target solution concentration, the water volume and the stock
// strength, and the required chemical quantity is derived.
type ChemicalPreparation struct {
	ID               string         `json:"id"`
	EquipmentName    string         `json:"equipment_name,omitempty"`
	ChemicalName     string         `json:"chemical_name"`
	StockPercent     float64        `json:"chemical_percent"`
	SolutionPercent  float64        `json:"solution_concentration"`
	WaterLitres      float64        `json:"water_qty"`
	ChemicalQtyGrams float64        `json:"chemical_qty"`
	OperatorName     string         `json:"operator_name"`
	CheckedBy        string         `json:"checked_by,omitempty"`
	Remarks          string         `json:"remarks,omitempty"`
	Status           ApprovalStatus `json:"status"`
	ComputedAt       time.Time      `json:"computed_at"`
	ContentHash      string         `json:"content_hash"`
}

// NewChemicalPreparation derives the chemical quantity in grams. A zero
// stock strength is a "not yet measured" state and yields 0 grams rather
// than an error.
func NewChemicalPreparation(chemicalName, operatorName string, solutionPercent, waterLitres, stockPercent float64, opts ...Option) (*ChemicalPreparation, error) {
	if chemicalName == "" {
		return nil, fmt.Errorf("certificate: chemical name is required")
	}
	o := buildOptions(opts)

	prep := &ChemicalPreparation{
		ID:               o.id,
		ChemicalName:     chemicalName,
		StockPercent:     stockPercent,
		SolutionPercent:  solutionPercent,
		WaterLitres:      waterLitres,
		ChemicalQtyGrams: hvac.RoundToDecimal(hvac.ChemicalQuantityGrams(solutionPercent, waterLitres, stockPercent), 2),
		OperatorName:     operatorName,
		Status:           StatusDraft,
		ComputedAt:       o.clock().UTC(),
	}

	hash, err := contentHash(prep)
	if err != nil {
		return nil, err
	}
	prep.ContentHash = hash
	return prep, nil
}
