package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartToolSpan(t *testing.T) {
	recorder := installRecorder(t)

	ctx, span := StartToolSpan(context.Background(), "add_numbers")
	if GetTraceID(ctx) == "" || GetSpanID(ctx) == "" {
		t.Error("expected trace and span ids in context")
	}
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	s := ended[0]
	if s.Name() != "tool.add_numbers" {
		t.Errorf("span name = %q", s.Name())
	}
	if s.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", s.SpanKind())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", s.Status().Code)
	}
}

func TestStartExternalAPISpan(t *testing.T) {
	recorder := installRecorder(t)

	ctx, parent := StartToolSpan(context.Background(), "send_email")
	_, span := StartExternalAPISpan(ctx, ServiceGmail, OperationSend)
	SetSpanError(span, errors.New("quota exceeded"))
	span.End()
	parent.End()

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(ended))
	}
	child := ended[0]
	if child.Name() != "gmail.send" {
		t.Errorf("span name = %q", child.Name())
	}
	if child.SpanKind() != trace.SpanKindClient {
		t.Errorf("span kind = %v, want client", child.SpanKind())
	}
	if child.Parent().SpanID() != ended[1].SpanContext().SpanID() {
		t.Error("external span should be a child of the tool span")
	}
	if child.Status().Code != codes.Error || child.Status().Description != "quota exceeded" {
		t.Errorf("status = %+v", child.Status())
	}
}

func TestSetSpanError_Nil(t *testing.T) {
	recorder := installRecorder(t)

	_, span := StartToolSpan(context.Background(), "noop")
	SetSpanError(span, nil)
	span.End()

	if got := recorder.Ended()[0].Status().Code; got != codes.Unset {
		t.Errorf("status = %v, want Unset", got)
	}
}

func TestGetIDs_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("GetTraceID() = %q, want empty", id)
	}
	if id := GetSpanID(context.Background()); id != "" {
		t.Errorf("GetSpanID() = %q, want empty", id)
	}
}
