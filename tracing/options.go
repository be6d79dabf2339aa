package tracing

import (
	"net/url"
	"strings"

	"github.com/noxmake/go-fsfetch"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option specifies instrumentation configuration options.
type Option interface {
	apply(*config)
}

type config struct {
	propagators propagation.TextMapPropagator
	tp          trace.TracerProvider
	spanName    func(*fsfetch.Request) string
	// lower-cased names of query parameters to redact
	redacted map[string]struct{}
}

type optionFunc func(*config)

func (o optionFunc) apply(c *config) {
	o(c)
}

// query parameters that usually carry credentials, such as the signatures of
// pre-signed S3 and GCS URLs
//
//nolint:gochecknoglobals
var defaultRedactedParams = []string{
	"access_token",
	"sig",
	"signature",
	"token",
	"X-Amz-Credential",
	"X-Amz-Security-Token",
	"X-Amz-Signature",
	"X-Goog-Credential",
	"X-Goog-Signature",
}

func newConfig(opts []Option) *config {
	cfg := &config{
		spanName: func(*fsfetch.Request) string { return "fetch.Resolve" },
		redacted: map[string]struct{}{},
	}

	WithRedactedParams(defaultRedactedParams...).apply(cfg)

	for _, opt := range opts {
		opt.apply(cfg)
	}

	if cfg.tp == nil {
		cfg.tp = otel.GetTracerProvider()
	}

	if cfg.propagators == nil {
		cfg.propagators = otel.GetTextMapPropagator()
	}

	return cfg
}

// WithPropagators specifies propagators to use for injecting trace context
// into request headers. If none are specified, global ones will be used.
func WithPropagators(propagators propagation.TextMapPropagator) Option {
	return optionFunc(func(cfg *config) {
		if propagators != nil {
			cfg.propagators = propagators
		}
	})
}

// WithTracerProvider specifies a tracer provider to use for creating a tracer.
// If none is specified, the global provider is used (see [otel.GetTracerProvider]).
func WithTracerProvider(provider trace.TracerProvider) Option {
	return optionFunc(func(cfg *config) {
		if provider != nil {
			cfg.tp = provider
		}
	})
}

// WithSpanNameFormatter sets the function naming each request's span. The
// default names every span "fetch.Resolve".
func WithSpanNameFormatter(f func(req *fsfetch.Request) string) Option {
	return optionFunc(func(cfg *config) {
		if f != nil {
			cfg.spanName = f
		}
	})
}

// WithRedactedParams adds query parameters whose values are replaced with
// "xxxxx" in the URLs recorded on spans. Names are matched case-insensitively.
//
// Query parameters on a base URL are carried to every resource joined to it,
// so credentials passed that way would otherwise end up in every span. A
// common set of credential parameters (e.g. "token", "X-Amz-Signature") is
// always redacted.
func WithRedactedParams(names ...string) Option {
	return optionFunc(func(cfg *config) {
		for _, name := range names {
			cfg.redacted[strings.ToLower(name)] = struct{}{}
		}
	})
}

// redactURL is like u.Redacted, but also hides the values of the configured
// query parameters.
func (c *config) redactURL(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Redacted()
	}

	q := u.Query()
	found := false

	for name, vals := range q {
		if _, ok := c.redacted[strings.ToLower(name)]; !ok {
			continue
		}

		for i := range vals {
			vals[i] = "xxxxx"
		}

		found = true
	}

	if !found {
		return u.Redacted()
	}

	ru := *u
	ru.RawQuery = q.Encode()

	return ru.Redacted()
}
