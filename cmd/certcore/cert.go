package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/svu-enterprises/certcore/pkg/certificate"
	"github.com/svu-enterprises/certcore/pkg/hvac"
)

// certInput is the union of the raw-reading payloads the cert subcommand
// accepts; each test type reads its own slice of it.
type certInput struct {
	Header             certificate.Header                        `json:"header"`
	AreaClassification string                                    `json:"area_classification,omitempty"`
	LimitMinutes       float64                                   `json:"limit_minutes,omitempty"`
	AirVelocityRooms   []certificate.AirVelocityRoom             `json:"rooms,omitempty"`
	IntegrityRooms     []certificate.FilterIntegrityRoom         `json:"integrity_rooms,omitempty"`
	NVPCRooms          []certificate.NVPCRoom                    `json:"nvpc_rooms,omitempty"`
	PressureReadings   []certificate.DifferentialPressureReading `json:"readings,omitempty"`
	DataPoints         []hvac.RecoveryDataPoint                  `json:"data_points,omitempty"`
	ChemicalName       string                                    `json:"chemical_name,omitempty"`
	OperatorName       string                                    `json:"operator_name,omitempty"`
	SolutionPercent    float64                                   `json:"solution_concentration,omitempty"`
	WaterLitres        float64                                   `json:"water_qty,omitempty"`
	StockPercent       float64                                   `json:"chemical_percent,omitempty"`
}

func runCertCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	testType := fs.String("type", "", "air_velocity | filter_integrity | recovery | pressure | nvpc | chemical")
	inputFile := fs.String("input", "", "raw readings JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *testType == "" || *inputFile == "" {
		_, _ = fmt.Fprintln(stderr, "certcore cert: -type and -input are required")
		return 2
	}

	data, err := os.ReadFile(*inputFile)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore cert: %v\n", err)
		return 1
	}
	var in certInput
	if err := json.Unmarshal(data, &in); err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore cert: input decode failed: %v\n", err)
		return 1
	}

	var cert any
	switch *testType {
	case "air_velocity":
		cert, err = certificate.NewAirVelocity(in.Header, in.AirVelocityRooms)
	case "filter_integrity":
		cert, err = certificate.NewFilterIntegrity(in.Header, in.IntegrityRooms)
	case "recovery":
		cert, err = certificate.NewRecovery(in.Header, in.AreaClassification, in.DataPoints, in.LimitMinutes)
	case "pressure":
		cert, err = certificate.NewDifferentialPressure(in.Header, in.PressureReadings)
	case "nvpc":
		cert, err = certificate.NewNVPC(in.Header, in.NVPCRooms)
	case "chemical":
		cert, err = certificate.NewChemicalPreparation(in.ChemicalName, in.OperatorName, in.SolutionPercent, in.WaterLitres, in.StockPercent)
	default:
		_, _ = fmt.Fprintf(stderr, "certcore cert: unknown test type %q\n", *testType)
		return 2
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore cert: %v\n", err)
		return 1
	}

	out, err := json.MarshalIndent(cert, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore cert: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(stdout, string(out))
	return 0
}
