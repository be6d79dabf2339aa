package fsfetch

import (
	"context"
	"net/http"
	"net/url"
)

// Request is a single fetch. Resolvers receive their own copy and may rewrite
// URL to the location that is actually read.
type Request struct {
	URL    *url.URL
	Header http.Header
}

// NewRequest returns a Request for u with an empty header.
func NewRequest(u *url.URL) *Request {
	return &Request{URL: u, Header: http.Header{}}
}

// WithURL returns a shallow copy of r targeting u.
func (r *Request) WithURL(u *url.URL) *Request {
	r2 := *r
	r2.URL = u

	return &r2
}

// Clone returns a deep copy of r.
func (r *Request) Clone() *Request {
	r2 := *r

	if r.URL != nil {
		u := *r.URL
		r2.URL = &u
	}

	r2.Header = r.Header.Clone()
	if r2.Header == nil {
		r2.Header = http.Header{}
	}

	return &r2
}

// Resolver turns a request for a location into the bytes stored there.
//
// Failures to read the target (missing file, unknown package, network error)
// should be returned as errors; the Client reports them as non-ok responses.
type Resolver interface {
	Resolve(ctx context.Context, req *Request) (*Response, error)
}

// ResolverFunc adapts an ordinary function into a Resolver.
type ResolverFunc func(ctx context.Context, req *Request) (*Response, error)

// Resolve - implements Resolver
func (f ResolverFunc) Resolve(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Provider is a Resolver for a defined set of URL schemes.
type Provider interface {
	Resolver

	// Schemes returns the URL schemes handled by this resolver
	Schemes() []string
}

// ProviderFor returns a Provider that registers r for the given schemes.
func ProviderFor(r Resolver, schemes ...string) Provider {
	return provider{Resolver: r, schemes: schemes}
}

type provider struct {
	Resolver
	schemes []string
}

func (p provider) Schemes() []string {
	return p.schemes
}
