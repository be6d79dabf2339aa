package fsfetch

import (
	"log/slog"
	"net/http"
)

// Option configures a Client.
type Option interface {
	apply(*config)
}

type config struct {
	logger *slog.Logger
	notify func(msg string)
}

type optionFunc func(*config)

func (o optionFunc) apply(c *config) {
	o(c)
}

// WithLogger sets the logger used by the Client. The default is
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// WithNotifier sets the function called with a human-readable warning when a
// templates listing can't be fetched. By default the warning is logged.
func WithNotifier(notify func(msg string)) Option {
	return optionFunc(func(cfg *config) {
		if notify != nil {
			cfg.notify = notify
		}
	})
}

// RequestOption modifies a single request before it's resolved.
type RequestOption func(*Request)

// WithHeader adds the given headers to the request. Only resolvers that talk
// to remote servers make use of them.
func WithHeader(headers http.Header) RequestOption {
	return func(req *Request) {
		for k, vs := range headers {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
}
