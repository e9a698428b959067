package common

import (
	"context"
	"time"

	"github.com/teemow/deskhand/internal/instrumentation"
)

// Observer supplies the recorders used by Instrument. Either may be nil.
type Observer interface {
	Metrics() *instrumentation.Metrics
	AuditLogger() *instrumentation.AuditLogger
}

// Instrument wraps t with a span, tool and external API metrics, and an
// audit record.
//
// Usage:
//
//	registry.Register(common.Instrument(tool, sc))
func Instrument(t StringTool, obs Observer) StringTool {
	if obs == nil {
		return t
	}
	metrics := obs.Metrics()
	auditLogger := obs.AuditLogger()
	if metrics == nil && auditLogger == nil {
		return t
	}

	inner := t
	t.Call = func(ctx context.Context, input string) Result {
		ctx, span := instrumentation.StartToolSpan(ctx, inner.Name)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(inner.Name).
			WithSpanContext(ctx).
			WithService(inner.Service, inner.Operation)

		res := inner.Run(ctx, input)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		kind := res.Kind()
		if res.Failed() {
			status = instrumentation.StatusError
			invocation.CompleteWithError(string(kind), res.Err)
			instrumentation.SetSpanError(span, res.Err)
		} else {
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		metrics.RecordToolInvocation(ctx, inner.Name, status, string(kind), duration)
		if reachedService(inner.Service, kind) {
			metrics.RecordExternalOperation(ctx, inner.Service, inner.Operation, status, duration)
		}
		auditLogger.LogToolInvocation(invocation)

		return res
	}
	return t
}

// reachedService reports whether a call with the given outcome got as far
// as the external service.
func reachedService(service string, kind ErrorKind) bool {
	if service == "" || service == instrumentation.ServiceLocal {
		return false
	}
	switch kind {
	case KindParse, KindConfiguration, KindInternal:
		return false
	}
	return true
}

// External runs fn inside a client span named after service and operation.
func External(ctx context.Context, service, operation string, fn func(ctx context.Context) error) error {
	ctx, span := instrumentation.StartExternalAPISpan(ctx, service, operation)
	defer span.End()

	if err := fn(ctx); err != nil {
		instrumentation.SetSpanError(span, err)
		return err
	}
	instrumentation.SetSpanSuccess(span)
	return nil
}
