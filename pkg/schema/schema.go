// Package schema defines the declarative field model behind every logbook
// and test certificate form: field types, validation bounds, compliance
// limits and calculated-field formulas. Schemas are JSON documents authored
// in the logbook builder; this package is their single source of truth.
package schema

// FieldType enumerates the input widgets a schema may declare. Presentation
// variants the engine does not compute over (headers, dividers) are not
// listed; they pass through untouched.
type FieldType string

const (
	FieldText       FieldType = "text"
	FieldNumber     FieldType = "number"
	FieldTextarea   FieldType = "textarea"
	FieldSelect     FieldType = "select"
	FieldDate       FieldType = "date"
	FieldDateTime   FieldType = "datetime"
	FieldBoolean    FieldType = "boolean"
	FieldCalculated FieldType = "calculated"
)

// Validation holds per-field input rules. Bounds apply to number fields,
// Pattern to text-like fields. CustomMessage, if set, replaces the default
// message for a bound or pattern violation.
type Validation struct {
	Min           *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max           *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern       string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	CustomMessage string   `json:"customMessage,omitempty" yaml:"customMessage,omitempty"`
}

// Calculation describes a derived field. DependsOn is declarative metadata
// for schema authors; the recalculation engine recomputes every calculated
// field on every change and does not read it.
type Calculation struct {
	Formula   string   `json:"formula" yaml:"formula"`
	DependsOn []string `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
}

// Limit is a compliance threshold. Unlike Validation bounds it never blocks
// submission; hosts use it to highlight out-of-limit readings.
type Limit struct {
	Type      string  `json:"type" yaml:"type"` // "min" or "max"
	Value     float64 `json:"value" yaml:"value"`
	Unit      string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	Condition string  `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// FieldMetadata carries annotations that affect display and formatting but
// not validity.
type FieldMetadata struct {
	Limit         *Limit `json:"limit,omitempty" yaml:"limit,omitempty"`
	DecimalPlaces *int   `json:"decimalPlaces,omitempty" yaml:"decimalPlaces,omitempty"`
}

// Display positions a field in the rendered form. Presentation only.
type Display struct {
	Order      int    `json:"order,omitempty" yaml:"order,omitempty"`
	Group      string `json:"group,omitempty" yaml:"group,omitempty"`
	ColumnSpan int    `json:"columnSpan,omitempty" yaml:"columnSpan,omitempty"`
}

// FieldSchema is one form field. ID is the value-map key and the primary
// formula token; Name is a human-readable alias that formulas may also
// reference. Both must be distinct in spelling across the schema.
type FieldSchema struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Type        FieldType      `json:"type" yaml:"type"`
	Required    bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []string       `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *Validation    `json:"validation,omitempty" yaml:"validation,omitempty"`
	Calculation *Calculation   `json:"calculation,omitempty" yaml:"calculation,omitempty"`
	Metadata    *FieldMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Display     *Display       `json:"display,omitempty" yaml:"display,omitempty"`
}

// IsCalculated reports whether the field's value is derived, never entered.
func (f *FieldSchema) IsCalculated() bool {
	return f.Type == FieldCalculated
}

// DecimalPlaces returns the formatting hint for a calculated number field,
// ok=false when the schema does not set one.
func (f *FieldSchema) DecimalPlaces() (int, bool) {
	if f.Metadata == nil || f.Metadata.DecimalPlaces == nil {
		return 0, false
	}
	return *f.Metadata.DecimalPlaces, true
}

// Category classifies a logbook for navigation and reporting.
type Category string

const (
	CategoryUtility     Category = "utility"
	CategoryMaintenance Category = "maintenance"
	CategoryQuality     Category = "quality"
	CategorySafety      Category = "safety"
	CategoryValidation  Category = "validation"
	CategoryCustom      Category = "custom"
)

// Workflow is the approval policy attached to a schema.
type Workflow struct {
	RequiresApproval bool     `json:"requiresApproval,omitempty" yaml:"requiresApproval,omitempty"`
	ApproverRoles    []string `json:"approverRoles,omitempty" yaml:"approverRoles,omitempty"`
}

// LogbookSchema is an ordered set of fields plus workflow and display
// policy. Field order matters: the recalculation pass walks fields in
// schema order, so producers of intermediate calculated values must be
// listed before their consumers.
type LogbookSchema struct {
	ID          string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Category    Category       `json:"category,omitempty" yaml:"category,omitempty"`
	Version     string         `json:"version,omitempty" yaml:"version,omitempty"`
	Fields      []FieldSchema  `json:"fields" yaml:"fields"`
	Workflow    Workflow       `json:"workflow,omitempty" yaml:"workflow,omitempty"`
	Display     map[string]any `json:"display,omitempty" yaml:"display,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field returns the field with the given id.
func (s *LogbookSchema) Field(id string) (*FieldSchema, bool) {
	for i := range s.Fields {
		if s.Fields[i].ID == id {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

// Alias is one (id, name) pair handed to the formula evaluator so a formula
// written against the human-readable name resolves to the same value as one
// written against the id.
type Alias struct {
	ID   string
	Name string
}

// FieldAliases builds the alias table for a field list, in schema order.
func FieldAliases(fields []FieldSchema) []Alias {
	aliases := make([]Alias, 0, len(fields))
	for _, f := range fields {
		aliases = append(aliases, Alias{ID: f.ID, Name: f.Name})
	}
	return aliases
}
