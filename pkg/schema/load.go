package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the highest schema document major version this engine
// understands. Loading rejects anything newer.
const SupportedMajor = 1

// metaSchema validates the raw document shape before decoding. Structural
// rules that need the decoded form (id uniqueness, formula references) are
// enforced afterwards in validateStructure.
const metaSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "fields"],
  "properties": {
    "id": {"type": "string"},
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "category": {"enum": ["utility", "maintenance", "quality", "safety", "validation", "custom"]},
    "version": {"type": "string"},
    "fields": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "type": {"enum": ["text", "number", "textarea", "select", "date", "datetime", "boolean", "calculated"]},
          "required": {"type": "boolean"},
          "options": {"type": "array", "items": {"type": "string"}},
          "validation": {
            "type": "object",
            "properties": {
              "min": {"type": "number"},
              "max": {"type": "number"},
              "pattern": {"type": "string"},
              "customMessage": {"type": "string"}
            }
          },
          "calculation": {
            "type": "object",
            "required": ["formula"],
            "properties": {
              "formula": {"type": "string", "minLength": 1},
              "dependsOn": {"type": "array", "items": {"type": "string"}}
            }
          },
          "metadata": {
            "type": "object",
            "properties": {
              "limit": {
                "type": "object",
                "required": ["type", "value"],
                "properties": {
                  "type": {"enum": ["min", "max"]},
                  "value": {"type": "number"},
                  "unit": {"type": "string"},
                  "condition": {"type": "string"}
                }
              },
              "decimalPlaces": {"type": "integer", "minimum": 0}
            }
          }
        }
      }
    },
    "workflow": {
      "type": "object",
      "properties": {
        "requiresApproval": {"type": "boolean"},
        "approverRoles": {
          "type": "array",
          "items": {"enum": ["operator", "supervisor", "manager", "super_admin", "client"]}
        }
      }
    }
  }
}`

var compiledMeta = mustCompileMeta()

func mustCompileMeta() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	const url = "https://schemas.svu-enterprises.local/logbook.schema.json"
	if err := c.AddResource(url, strings.NewReader(metaSchema)); err != nil {
		panic(fmt.Sprintf("schema: meta-schema load failed: %v", err))
	}
	s, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("schema: meta-schema compile failed: %v", err))
	}
	return s
}

// Load decodes and validates a JSON logbook schema document.
func Load(data []byte) (*LogbookSchema, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("schema: decode failed: %w", err)
	}
	if err := compiledMeta.Validate(raw); err != nil {
		return nil, fmt.Errorf("schema: document rejected: %w", err)
	}

	var s LogbookSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: decode failed: %w", err)
	}
	if err := validateStructure(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadYAML decodes a YAML schema document by converting to JSON first, so
// the same meta-schema and structural checks apply to both formats.
func LoadYAML(data []byte) (*LogbookSchema, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("schema: yaml decode failed: %w", err)
	}
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: yaml conversion failed: %w", err)
	}
	return Load(jsonData)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateStructure enforces the invariants the meta-schema cannot express:
// unique ids, spelling-distinct names, compilable patterns, formulas that
// reference only fields declared in the same schema, and a supported
// document version.
func validateStructure(s *LogbookSchema) error {
	if s.Version != "" {
		v, err := semver.NewVersion(s.Version)
		if err != nil {
			return fmt.Errorf("schema %q: invalid version %q: %w", s.Name, s.Version, err)
		}
		if v.Major() > SupportedMajor {
			return fmt.Errorf("schema %q: version %s is newer than supported major %d", s.Name, s.Version, SupportedMajor)
		}
	}

	// Every id and name occupies the same token namespace: a formula token
	// must resolve to exactly one field.
	tokens := make(map[string]string, len(s.Fields)*2)
	ids := make(map[string]bool, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if !identRe.MatchString(f.ID) {
			return fmt.Errorf("schema %q: field id %q is not a valid identifier", s.Name, f.ID)
		}
		if ids[f.ID] {
			return fmt.Errorf("schema %q: duplicate field id %q", s.Name, f.ID)
		}
		ids[f.ID] = true

		if owner, clash := tokens[f.ID]; clash && owner != f.ID {
			return fmt.Errorf("schema %q: field id %q collides with the name of field %q", s.Name, f.ID, owner)
		}
		tokens[f.ID] = f.ID
		if f.Name != f.ID {
			if owner, clash := tokens[f.Name]; clash {
				return fmt.Errorf("schema %q: field name %q of %q collides with field %q", s.Name, f.Name, f.ID, owner)
			}
			tokens[f.Name] = f.ID
		}

		if f.IsCalculated() {
			if f.Calculation == nil || strings.TrimSpace(f.Calculation.Formula) == "" {
				return fmt.Errorf("schema %q: calculated field %q has no formula", s.Name, f.ID)
			}
		} else if f.Calculation != nil {
			return fmt.Errorf("schema %q: field %q carries a calculation but is type %q", s.Name, f.ID, f.Type)
		}

		if f.Validation != nil {
			if f.IsCalculated() {
				return fmt.Errorf("schema %q: calculated field %q may not carry validation", s.Name, f.ID)
			}
			if f.Validation.Pattern != "" {
				if _, err := regexp.Compile(f.Validation.Pattern); err != nil {
					return fmt.Errorf("schema %q: field %q pattern does not compile: %w", s.Name, f.ID, err)
				}
			}
			if f.Validation.Min != nil && f.Validation.Max != nil && *f.Validation.Min > *f.Validation.Max {
				return fmt.Errorf("schema %q: field %q has min %g above max %g", s.Name, f.ID, *f.Validation.Min, *f.Validation.Max)
			}
		}
	}

	for i := range s.Fields {
		f := &s.Fields[i]
		if !f.IsCalculated() {
			continue
		}
		for _, tok := range formulaIdentifiers(f.Calculation.Formula) {
			if _, known := tokens[tok]; !known {
				return fmt.Errorf("schema %q: formula of %q references unknown field %q", s.Name, f.ID, tok)
			}
		}
	}
	return nil
}

// formulaIdentifiers scans a formula for identifier tokens at identifier
// boundaries. A letter directly following a digit (the exponent of 1e3)
// does not start a token, and quoted literals are skipped.
func formulaIdentifiers(src string) []string {
	var out []string
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		if r == '"' || r == '\'' {
			quote := r
			i++
			for i < len(runes) && runes[i] != quote {
				i++
			}
			i++
			continue
		}
		if isIdentStart(r) && (i == 0 || !isIdentPart(runes[i-1])) {
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			out = append(out, string(runes[start:i]))
			continue
		}
		i++
	}
	return out
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
