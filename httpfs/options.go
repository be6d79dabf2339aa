package httpfs

import "net/http"

// Option configures the HTTP resolver.
type Option interface {
	apply(*config)
}

type config struct {
	client    *http.Client
	headers   http.Header
	tlsVerify bool
}

type optionFunc func(*config)

func (o optionFunc) apply(c *config) {
	o(c)
}

// WithHTTPClient sets the client used for all requests. When set,
// WithTLSVerify has no effect, and the client's transport is used as-is.
func WithHTTPClient(client *http.Client) Option {
	return optionFunc(func(cfg *config) {
		if client != nil {
			cfg.client = client
		}
	})
}

// WithTLSVerify controls whether server certificates are verified. The
// default is to verify.
func WithTLSVerify(verify bool) Option {
	return optionFunc(func(cfg *config) {
		cfg.tlsVerify = verify
	})
}

// WithHeader sets headers sent with every request, in addition to the ones
// set on each request.
func WithHeader(headers http.Header) Option {
	return optionFunc(func(cfg *config) {
		if cfg.headers == nil {
			cfg.headers = http.Header{}
		}

		for k, vs := range headers {
			for _, v := range vs {
				cfg.headers.Add(k, v)
			}
		}
	})
}
