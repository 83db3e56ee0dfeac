// Package validator turns a field schema into a submit-time input
// validator. Validation is a pure read of the value map: it never mutates
// values and never triggers recalculation, and it reports the full
// invalidity set so a host can display every problem at once.
package validator

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/svu-enterprises/certcore/pkg/schema"
)

// Result is the outcome of one validation pass: one message per invalid
// field, keyed by field id.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

type rule struct {
	field   schema.FieldSchema
	pattern *regexp.Regexp
}

// Validator validates a value map against the schema it was built from.
type Validator struct {
	rules []rule
}

// Build compiles one rule per non-calculated field. Calculated fields get
// no rule at all: submission must never fail because a derived value is
// temporarily stale. Patterns that fail to compile are dropped here; the
// schema loader already rejects them at authoring time.
func Build(fields []schema.FieldSchema) *Validator {
	v := &Validator{rules: make([]rule, 0, len(fields))}
	for _, f := range fields {
		if f.IsCalculated() {
			continue
		}
		r := rule{field: f}
		if f.Validation != nil && f.Validation.Pattern != "" {
			if re, err := regexp.Compile(f.Validation.Pattern); err == nil {
				r.pattern = re
			}
		}
		v.rules = append(v.rules, r)
	}
	return v
}

// Validate checks every rule against the current values. It does not
// short-circuit: every invalid field contributes its message.
func (v *Validator) Validate(values schema.ValueMap) *Result {
	res := &Result{Valid: true, Errors: make(map[string]string)}
	for _, r := range v.rules {
		if msg := r.check(values.Get(r.field.ID)); msg != "" {
			res.Errors[r.field.ID] = msg
			res.Valid = false
		}
	}
	return res
}

func (r *rule) check(v schema.Value) string {
	f := &r.field
	if v.IsAbsent() {
		if f.Required {
			return fmt.Sprintf("%s is required", r.label())
		}
		return ""
	}

	switch f.Type {
	case schema.FieldNumber:
		return r.checkNumber(v)
	case schema.FieldBoolean:
		// Booleans pass through; required-ness was already handled.
		return ""
	case schema.FieldDate, schema.FieldDateTime:
		if _, ok := v.AsTime(); !ok {
			return fmt.Sprintf("%s must be a valid date", r.label())
		}
		return ""
	default:
		return r.checkText(v)
	}
}

func (r *rule) checkNumber(v schema.Value) string {
	n, ok := v.AsNumber()
	if !ok {
		return fmt.Sprintf("%s must be a number", r.label())
	}
	val := r.field.Validation
	if val == nil {
		return ""
	}
	if val.Min != nil && n < *val.Min {
		return r.boundMessage(fmt.Sprintf("%s must be at least %s", r.label(), formatBound(*val.Min)))
	}
	if val.Max != nil && n > *val.Max {
		return r.boundMessage(fmt.Sprintf("%s must be at most %s", r.label(), formatBound(*val.Max)))
	}
	return ""
}

func (r *rule) checkText(v schema.Value) string {
	s, ok := v.AsString()
	if !ok {
		return fmt.Sprintf("%s must be text", r.label())
	}
	if r.pattern != nil && !r.pattern.MatchString(s) {
		return r.boundMessage(fmt.Sprintf("%s has an invalid format", r.label()))
	}
	return ""
}

// boundMessage applies the schema author's customMessage override.
func (r *rule) boundMessage(fallback string) string {
	if r.field.Validation != nil && r.field.Validation.CustomMessage != "" {
		return r.field.Validation.CustomMessage
	}
	return fallback
}

func (r *rule) label() string {
	if r.field.Name != "" {
		return r.field.Name
	}
	return r.field.ID
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
