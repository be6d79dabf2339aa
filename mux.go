package fsfetch

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrUnsupportedScheme is returned when no resolver is registered for a URL's
// scheme.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// Mux dispatches requests to the Resolver registered for the target URL's
// scheme. All resolvers provided in this module can be registered, and
// additional ones can be added given an implementation of Provider.
// Mux is itself a Resolver.
//
// A Mux must be fully populated before it is used to resolve requests; after
// that it is safe for concurrent use.
type Mux map[string]Resolver

var _ Provider = (Mux)(nil)

// NewMux returns a Mux ready for use.
func NewMux() Mux {
	return Mux(map[string]Resolver{})
}

// Add registers the given provider for its supported URL schemes. If any of
// its schemes are already registered, they will be overridden.
func (m Mux) Add(p Provider) {
	for _, scheme := range p.Schemes() {
		m[scheme] = p
	}
}

// Lookup returns the Resolver registered for scheme.
func (m Mux) Lookup(scheme string) (Resolver, error) {
	r, ok := m[scheme]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedScheme, scheme)
	}

	return r, nil
}

// Schemes - implements Provider
func (m Mux) Schemes() []string {
	schemes := make([]string, 0, len(m))
	for scheme := range m {
		schemes = append(schemes, scheme)
	}

	sort.Strings(schemes)

	return schemes
}

// Resolve - implements Resolver
func (m Mux) Resolve(ctx context.Context, req *Request) (*Response, error) {
	if req.URL == nil {
		return nil, errors.New("resolve: request has no URL")
	}

	r, err := m.Lookup(req.URL.Scheme)
	if err != nil {
		return nil, err
	}

	return r.Resolve(ctx, req)
}
