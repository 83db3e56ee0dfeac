// Package recalc keeps calculated fields consistent with the rest of the
// value map. The strategy is a total pass: every calculated field is
// recomputed on every change, in schema order, instead of tracing a
// dependency graph. Field counts are tens per form, so the redundant work
// is cheap and the class of dependency-ordering bugs disappears; a
// calculated field feeding another calculated field works as long as the
// producer is listed before the consumer.
package recalc

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/svu-enterprises/certcore/pkg/formula"
	"github.com/svu-enterprises/certcore/pkg/hvac"
	"github.com/svu-enterprises/certcore/pkg/schema"
)

// Recalculate runs one full pass over the calculated fields, writing each
// result back into values under the field's id. Results that cannot be
// computed are written as Absent so a stale previous value never survives
// the inputs that produced it. Writes here are engine writes, not user
// edits: the validator never sees them as touched fields.
//
// The pass is idempotent: with no intervening edits a second call writes
// the same map.
func Recalculate(fields []schema.FieldSchema, values schema.ValueMap) schema.ValueMap {
	aliases := schema.FieldAliases(fields)
	for i := range fields {
		f := &fields[i]
		if !f.IsCalculated() || f.Calculation == nil {
			continue
		}
		res := formula.Evaluate(f.Calculation.Formula, values, aliases)
		switch res.Kind() {
		case schema.KindNumber:
			n, _ := res.AsNumber()
			if places, ok := f.DecimalPlaces(); ok {
				n = hvac.RoundToDecimal(n, places)
			}
			values.Set(f.ID, schema.Number(n))
		case schema.KindString:
			values.Set(f.ID, res)
		default:
			values.Set(f.ID, schema.Absent())
		}
	}
	return values
}

// Engine is the instrumented entry point a form host invokes once per user
// edit. It wraps the pure pass with a span and RED metrics; hosts that do
// not configure telemetry pay only for no-op instruments.
type Engine struct {
	fields   []schema.FieldSchema
	logger   *slog.Logger
	tracer   trace.Tracer
	passes   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewEngine builds an engine for one schema's field list.
func NewEngine(fields []schema.FieldSchema) *Engine {
	meter := otel.Meter("certcore.recalc")
	passes, _ := meter.Int64Counter("certcore.recalc.passes",
		metric.WithDescription("Total recalculation passes executed"),
		metric.WithUnit("{pass}"),
	)
	duration, _ := meter.Float64Histogram("certcore.recalc.duration",
		metric.WithDescription("Recalculation pass duration in seconds"),
		metric.WithUnit("s"),
	)
	return &Engine{
		fields:   fields,
		logger:   slog.Default().With("component", "recalc"),
		tracer:   otel.Tracer("certcore.recalc"),
		passes:   passes,
		duration: duration,
	}
}

// Apply runs one whole-map pass. The pass runs to completion before the
// next change is accepted; callers adapting this to an asynchronous host
// must keep it atomic per change.
func (e *Engine) Apply(ctx context.Context, values schema.ValueMap) schema.ValueMap {
	ctx, span := e.tracer.Start(ctx, "recalc.pass",
		trace.WithAttributes(attribute.Int("fields", len(e.fields))),
	)
	defer span.End()

	start := time.Now()
	out := Recalculate(e.fields, values)
	elapsed := time.Since(start)

	e.passes.Add(ctx, 1)
	e.duration.Record(ctx, elapsed.Seconds())
	e.logger.DebugContext(ctx, "recalculation pass complete",
		"fields", len(e.fields),
		"elapsed", elapsed,
	)
	return out
}
