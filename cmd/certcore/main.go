// Command certcore is the schema author's debugging surface over the
// computation engine: it validates schema documents, checks value maps
// against them, evaluates formulas, runs recalculation passes and builds
// test certificates, all against the same code paths the form hosts embed.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/svu-enterprises/certcore/pkg/config"
	"github.com/svu-enterprises/certcore/pkg/telemetry"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the entrypoint, split from main for testing.
func Run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	initLogging(stderr, cfg.LogLevel)

	ctx := context.Background()
	tcfg := telemetry.DefaultConfig()
	tcfg.Enabled = cfg.TelemetryEnabled
	tcfg.OTLPEndpoint = cfg.OTLPEndpoint
	provider, err := telemetry.New(ctx, tcfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "certcore: telemetry init failed: %v\n", err)
		return 1
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}
	switch args[1] {
	case "schema":
		return runSchemaCmd(args[2:], stdout, stderr)
	case "validate":
		return runValidateCmd(args[2:], stdout, stderr)
	case "eval":
		return runEvalCmd(args[2:], stdout, stderr)
	case "recalc":
		return runRecalcCmd(args[2:], stdout, stderr)
	case "cert":
		return runCertCmd(args[2:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "certcore: unknown command %q\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func initLogging(w io.Writer, level string) {
	var l slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		l = slog.LevelDebug
	case "WARN":
		l = slog.LevelWarn
	case "ERROR":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})))
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, `Usage: certcore <command> [flags]

Commands:
  schema    -file <schema.json|yaml>                     check a schema document and print its fingerprint
  validate  -schema <file> -values <values.json>         validate a value map, printing every violation
  eval      -schema <file> -values <values.json> <expr>  evaluate a formula against a value map
  recalc    -schema <file> -values <values.json>         run one recalculation pass and print the result map
  cert      -type <test type> -input <readings.json>     build a test certificate from raw readings`)
}
