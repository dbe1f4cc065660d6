package mux

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/timvw/mukduk/internal/logger"
	mkotel "github.com/timvw/mukduk/internal/otel"
	"github.com/timvw/mukduk/internal/runner"
)

var tracer = otel.Tracer(mkotel.ServiceName)

// commander runs one backend's program through a Runner and turns failures
// into CommandErrors.
type commander struct {
	program string
	runner  runner.Runner
	metrics *mkotel.Metrics
	log     *slog.Logger
}

func newCommander(program string, r runner.Runner, opts Options) commander {
	return commander{
		program: program,
		runner:  r,
		metrics: opts.Metrics,
		log:     logger.Component(program),
	}
}

// probe runs a command whose non-zero exit is an answer, not a failure
// (has-session, list-sessions). Only a command that cannot run is an error.
func (c commander) probe(ctx context.Context, step, session string, cmd runner.Command) (runner.Result, error) {
	cmd.Name = c.program
	res, err := c.runner.Run(ctx, cmd)
	switch {
	case err != nil:
		c.metrics.RecordCommand(ctx, c.program, step, "error")
		return res, &CommandError{Backend: c.program, Step: step, Session: session, Command: cmd, Err: err}
	case !res.Success():
		c.metrics.RecordCommand(ctx, c.program, step, "exit")
	default:
		c.metrics.RecordCommand(ctx, c.program, step, "ok")
	}
	return res, nil
}

// check runs a command that must exit 0.
func (c commander) check(ctx context.Context, step, session string, cmd runner.Command) (runner.Result, error) {
	res, err := c.probe(ctx, step, session, cmd)
	if err != nil {
		return res, err
	}
	if !res.Success() {
		return res, &CommandError{Backend: c.program, Step: step, Session: session, Command: cmd, Result: res}
	}
	return res, nil
}

// startSpan opens a span for one backend operation.
func (c commander) startSpan(ctx context.Context, op, session string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("mux.backend", c.program),
		attribute.String("mux.operation", op),
	}
	if session != "" {
		attrs = append(attrs, attribute.String("mux.session", session))
	}
	return tracer.Start(ctx, c.program+"."+op, trace.WithAttributes(attrs...))
}

// finish ends a span and records the operation outcome.
func (c commander) finish(ctx context.Context, span trace.Span, op, outcome string, err error) {
	if err != nil {
		outcome = outcomeFailed
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("mux.outcome", outcome))
	span.End()
	c.metrics.RecordSessionOp(ctx, c.program, op, outcome)
}
