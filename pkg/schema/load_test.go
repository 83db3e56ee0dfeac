package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const purifiedWaterSchema = `{
  "name": "Purified Water Log",
  "category": "utility",
  "version": "1.2.0",
  "fields": [
    {"id": "conductivity", "name": "Conductivity", "type": "number", "required": true,
     "validation": {"min": 0, "max": 1.3}},
    {"id": "temp", "name": "Temperature", "type": "number"},
    {"id": "status", "name": "Status", "type": "calculated",
     "calculation": {"formula": "conductivity <= 1.3 ? \"PASS\" : \"FAIL\""},
     "metadata": {"decimalPlaces": 2}}
  ],
  "workflow": {"requiresApproval": true, "approverRoles": ["supervisor"]}
}`

func TestLoadValidSchema(t *testing.T) {
	s, err := Load([]byte(purifiedWaterSchema))
	require.NoError(t, err)
	require.Equal(t, "Purified Water Log", s.Name)
	require.Equal(t, CategoryUtility, s.Category)
	require.Len(t, s.Fields, 3)

	f, ok := s.Field("status")
	require.True(t, ok)
	require.True(t, f.IsCalculated())
	dp, ok := f.DecimalPlaces()
	require.True(t, ok)
	require.Equal(t, 2, dp)

	require.True(t, s.Workflow.RequiresApproval)
}

func TestLoadYAML(t *testing.T) {
	doc := `
name: Pressure Log
fields:
  - id: dp
    name: Differential Pressure
    type: number
    validation:
      min: 0
`
	s, err := LoadYAML([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, "Pressure Log", s.Name)
	require.NotNil(t, s.Fields[0].Validation.Min)
	require.Equal(t, 0.0, *s.Fields[0].Validation.Min)
}

func TestLoadRejections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing name", `{"fields": []}`},
		{"bad category", `{"name": "x", "category": "bogus", "fields": []}`},
		{"bad field type", `{"name": "x", "fields": [{"id": "a", "name": "A", "type": "blob"}]}`},
		{"duplicate id", `{"name": "x", "fields": [
			{"id": "a", "name": "A", "type": "number"},
			{"id": "a", "name": "B", "type": "number"}]}`},
		{"id not identifier", `{"name": "x", "fields": [{"id": "a b", "name": "AB", "type": "text"}]}`},
		{"name collides with other id", `{"name": "x", "fields": [
			{"id": "a", "name": "b", "type": "number"},
			{"id": "b", "name": "B", "type": "number"}]}`},
		{"calculated without formula", `{"name": "x", "fields": [{"id": "a", "name": "A", "type": "calculated"}]}`},
		{"formula on plain field", `{"name": "x", "fields": [
			{"id": "a", "name": "A", "type": "number", "calculation": {"formula": "1 + 1"}}]}`},
		{"validation on calculated field", `{"name": "x", "fields": [
			{"id": "a", "name": "A", "type": "calculated",
			 "calculation": {"formula": "1 + 1"}, "validation": {"min": 0}}]}`},
		{"bad pattern", `{"name": "x", "fields": [
			{"id": "a", "name": "A", "type": "text", "validation": {"pattern": "["}}]}`},
		{"min above max", `{"name": "x", "fields": [
			{"id": "a", "name": "A", "type": "number", "validation": {"min": 5, "max": 1}}]}`},
		{"unknown formula reference", `{"name": "x", "fields": [
			{"id": "a", "name": "A", "type": "number"},
			{"id": "c", "name": "C", "type": "calculated", "calculation": {"formula": "a + missing"}}]}`},
		{"unsupported version", `{"name": "x", "version": "2.0.0", "fields": []}`},
		{"unparseable version", `{"name": "x", "version": "one", "fields": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load([]byte(tc.doc))
			require.Error(t, err)
		})
	}
}

func TestLoadFormulaTokensInsideLiteralsIgnored(t *testing.T) {
	// "missing" only appears inside a quoted branch, not as a reference.
	doc := `{"name": "x", "fields": [
		{"id": "a", "name": "A", "type": "number"},
		{"id": "c", "name": "C", "type": "calculated",
		 "calculation": {"formula": "a > 1 ? \"missing\" : \"ok\""}}]}`
	_, err := Load([]byte(doc))
	require.NoError(t, err)
}

func TestFormulaIdentifiers(t *testing.T) {
	require.Equal(t, []string{"temp", "temp2"}, formulaIdentifiers("temp + temp2 * 2"))
	require.Empty(t, formulaIdentifiers("1e3 + 2.5"), "exponent suffix is not an identifier")
	require.Equal(t, []string{"a"}, formulaIdentifiers(`a > 1 ? "b c" : 'd'`))
}

func TestFingerprintStableAcrossFormatting(t *testing.T) {
	compact := `{"name":"x","fields":[{"id":"a","name":"A","type":"number"}]}`
	spaced := `{
		"fields": [ {"type": "number", "name": "A", "id": "a"} ],
		"name": "x"
	}`
	s1, err := Load([]byte(compact))
	require.NoError(t, err)
	s2, err := Load([]byte(spaced))
	require.NoError(t, err)

	fp1, err := s1.Fingerprint()
	require.NoError(t, err)
	fp2, err := s2.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
	require.Regexp(t, `^sha256:[0-9a-f]{64}$`, fp1)
}

func TestFingerprintDetectsDrift(t *testing.T) {
	s1, err := Load([]byte(`{"name":"x","fields":[{"id":"a","name":"A","type":"number"}]}`))
	require.NoError(t, err)
	s2, err := Load([]byte(`{"name":"x","fields":[{"id":"a","name":"A","type":"text"}]}`))
	require.NoError(t, err)

	fp1, _ := s1.Fingerprint()
	fp2, _ := s2.Fingerprint()
	require.NotEqual(t, fp1, fp2)
}

func TestFieldAliases(t *testing.T) {
	s, err := Load([]byte(purifiedWaterSchema))
	require.NoError(t, err)
	aliases := FieldAliases(s.Fields)
	require.Len(t, aliases, 3)
	require.Equal(t, Alias{ID: "conductivity", Name: "Conductivity"}, aliases[0])
}
