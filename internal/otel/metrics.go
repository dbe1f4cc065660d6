package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the session metric instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// SessionOps counts backend operations by backend, operation and outcome.
	SessionOps metric.Int64Counter
	// CommandRuns counts external program invocations by program and result.
	CommandRuns metric.Int64Counter
}

// NewMetrics creates the instruments on the global MeterProvider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(ServiceName)
	m := &Metrics{}
	var err error

	m.SessionOps, err = meter.Int64Counter("sessions.operations",
		metric.WithDescription("Multiplexer session operations partitioned by backend, operation and outcome"))
	if err != nil {
		return nil, err
	}

	m.CommandRuns, err = meter.Int64Counter("commands.runs",
		metric.WithDescription("External multiplexer command invocations partitioned by program and result"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSessionOp records one backend operation, e.g. ("tmux", "open", "switched").
func (m *Metrics) RecordSessionOp(ctx context.Context, backend, op, outcome string) {
	if m == nil {
		return
	}
	m.SessionOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mux.backend", backend),
		attribute.String("mux.operation", op),
		attribute.String("mux.outcome", outcome),
	))
}

// RecordCommand records one external program run. result is "ok", "exit" or "error".
func (m *Metrics) RecordCommand(ctx context.Context, program, step, result string) {
	if m == nil {
		return
	}
	m.CommandRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command.program", program),
		attribute.String("command.step", step),
		attribute.String("command.result", result),
	))
}
