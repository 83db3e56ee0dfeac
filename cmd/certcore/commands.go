package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/svu-enterprises/certcore/pkg/formula"
	"github.com/svu-enterprises/certcore/pkg/recalc"
	"github.com/svu-enterprises/certcore/pkg/schema"
	"github.com/svu-enterprises/certcore/pkg/validator"
)

func runSchemaCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "schema document (.json or .yaml)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		_, _ = fmt.Fprintln(stderr, "certcore schema: -file is required")
		return 2
	}

	s, err := loadSchemaFile(*file)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore schema: %v\n", err)
		return 1
	}
	fp, err := s.Fingerprint()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore schema: %v\n", err)
		return 1
	}

	calculated := 0
	for _, f := range s.Fields {
		if f.IsCalculated() {
			calculated++
		}
	}
	_, _ = fmt.Fprintf(stdout, "schema:      %s\n", s.Name)
	_, _ = fmt.Fprintf(stdout, "fields:      %d (%d calculated)\n", len(s.Fields), calculated)
	_, _ = fmt.Fprintf(stdout, "fingerprint: %s\n", fp)
	return 0
}

func runValidateCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	schemaFile := fs.String("schema", "", "schema document")
	valuesFile := fs.String("values", "", "value map JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	s, values, code := loadInputs(*schemaFile, *valuesFile, stderr, "validate")
	if code != 0 {
		return code
	}

	res := validator.Build(s.Fields).Validate(values)
	if res.Valid {
		_, _ = fmt.Fprintln(stdout, "valid")
		return 0
	}
	ids := make([]string, 0, len(res.Errors))
	for id := range res.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		_, _ = fmt.Fprintf(stdout, "%s: %s\n", id, res.Errors[id])
	}
	return 1
}

func runEvalCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	schemaFile := fs.String("schema", "", "schema document")
	valuesFile := fs.String("values", "", "value map JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		_, _ = fmt.Fprintln(stderr, "certcore eval: exactly one formula argument is required")
		return 2
	}

	s, values, code := loadInputs(*schemaFile, *valuesFile, stderr, "eval")
	if code != 0 {
		return code
	}

	src := fs.Arg(0)
	if err := formula.Check(src); err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore eval: %v\n", err)
		return 1
	}
	res := formula.Evaluate(src, values, schema.FieldAliases(s.Fields))
	if res.IsAbsent() {
		// Not computable with the current values; hosts render this as a dash.
		_, _ = fmt.Fprintln(stdout, "-")
		return 0
	}
	_, _ = fmt.Fprintln(stdout, res.String())
	return 0
}

func runRecalcCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("recalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	schemaFile := fs.String("schema", "", "schema document")
	valuesFile := fs.String("values", "", "value map JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	s, values, code := loadInputs(*schemaFile, *valuesFile, stderr, "recalc")
	if code != 0 {
		return code
	}

	out := recalc.NewEngine(s.Fields).Apply(context.Background(), values)
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore recalc: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(stdout, string(data))
	return 0
}

func loadInputs(schemaFile, valuesFile string, stderr io.Writer, cmd string) (*schema.LogbookSchema, schema.ValueMap, int) {
	if schemaFile == "" || valuesFile == "" {
		_, _ = fmt.Fprintf(stderr, "certcore %s: -schema and -values are required\n", cmd)
		return nil, nil, 2
	}
	s, err := loadSchemaFile(schemaFile)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore %s: %v\n", cmd, err)
		return nil, nil, 1
	}
	data, err := os.ReadFile(valuesFile)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore %s: %v\n", cmd, err)
		return nil, nil, 1
	}
	var values schema.ValueMap
	if err := json.Unmarshal(data, &values); err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore %s: value map decode failed: %v\n", cmd, err)
		return nil, nil, 1
	}
	return s, values, 0
}

func loadSchemaFile(path string) (*schema.LogbookSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return schema.LoadYAML(data)
	}
	return schema.Load(data)
}
