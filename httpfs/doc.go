// Package httpfs resolves http:// and https:// URLs by fetching them with a
// GET request.
//
// # Usage
//
// Register the resolver with an fsfetch.Mux:
//
//	mux := fsfetch.NewMux()
//	mux.Add(httpfs.New())
//
// The default client follows redirects, and its transport is instrumented
// with OpenTelemetry, so requests made with a traced context produce client
// spans and carry the trace context to the server.
//
// # Certificate verification
//
// Server certificates are verified by default. To talk to servers with
// self-signed certificates, disable verification:
//
//	httpfs.New(httpfs.WithTLSVerify(false))
//
// # Adding custom HTTP headers
//
// Headers sent with every request can be set with [WithHeader], for example
// to set a user-agent:
//
//	httpfs.New(httpfs.WithHeader(http.Header{
//		"User-Agent": []string{"my-app"},
//	}))
//
// Per-request headers are given to fsfetch.Client.Get with fsfetch.WithHeader.
//
// # Using your own HTTP client
//
// By default, a client built on a copy of [net/http.DefaultTransport] is
// used. The [WithHTTPClient] option allows using a different one:
//
//	httpfs.New(httpfs.WithHTTPClient(&http.Client{Transport: myCustomTransport}))
package httpfs
