// Package tracing instruments an fsfetch.Resolver for distributed tracing.
// The OpenTelemetry API is supported.
//
// This is not a resolver of its own, but rather a wrapper around an existing
// one, usually an fsfetch.Mux. As such, it does not implement the
// [fsfetch.Provider] interface.
//
// # Usage
//
// Call [New] with the resolver to instrument, and give the result to
// fsfetch.NewClient. Every resolved request gets a span.
//
// In order to report traces, an OTel [trace.TracerProvider] must first be set
// up. The details of this are outside the scope of this module, but see the
// fetchcli example in this repository's examples directory for one approach.
//
// A [trace.TracerProvider] can optionally be passed to [New] using
// [WithTracerProvider].
//
// # Propagation
//
// By default, the global [propagation.TextMapPropagator] is used to inject
// the span's context into the request headers, so that resolvers talking to
// remote servers carry it along. This can be overridden by passing a
// [propagation.TextMapPropagator] to [WithPropagators].
package tracing

import (
	"context"
	"fmt"

	"github.com/noxmake/go-fsfetch"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

type traceResolver struct {
	next   fsfetch.Resolver
	tracer trace.Tracer
	cfg    *config
}

const tracerName = "github.com/noxmake/go-fsfetch/tracing"

// New returns a Resolver that instruments r, adding a span for each request.
// Options can be provided to configure the instrumentation.
func New(r fsfetch.Resolver, opts ...Option) fsfetch.Resolver {
	cfg := newConfig(opts)

	return &traceResolver{
		next:   r,
		tracer: cfg.tp.Tracer(tracerName),
		cfg:    cfg,
	}
}

var _ fsfetch.Resolver = (*traceResolver)(nil)

func (t *traceResolver) Resolve(ctx context.Context, req *fsfetch.Request) (*fsfetch.Response, error) {
	ctx, span := t.tracer.Start(ctx, t.cfg.spanName(req),
		trace.WithAttributes(
			Scheme(req.URL.Scheme),
			URL(t.cfg.redactURL(req.URL)),
			Type(fmt.Sprintf("%T", t.next)),
		),
	)
	defer span.End()

	req = req.Clone()
	t.cfg.propagators.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := t.next.Resolve(ctx, req)
	if err != nil {
		span.SetAttributes(semconv.HTTPStatusCode(fsfetch.StatusFromError(err)))

		return resp, recordError(span, err)
	}

	if resp != nil {
		if resp.URL != nil {
			span.SetAttributes(ResolvedURL(t.cfg.redactURL(resp.URL)))
		}

		span.SetAttributes(
			semconv.HTTPStatusCode(resp.StatusCode),
			Size(len(resp.Body)),
		)

		if ct := resp.Header.Get("Content-Type"); ct != "" {
			span.SetAttributes(ContentType(ct))
		}

		if resp.Err != nil {
			span.RecordError(resp.Err)
		}
	}

	return resp, nil
}

// recordError records the given error on the span, and returns it. It does not
// set the span's status to error.
func recordError(span trace.Span, err error) error {
	span.RecordError(err)

	return err
}
