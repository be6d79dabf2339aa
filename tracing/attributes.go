package tracing

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	typeKey        = attribute.Key("fetch.resolver")
	schemeKey      = attribute.Key("fetch.scheme")
	urlKey         = attribute.Key("fetch.url")
	resolvedURLKey = attribute.Key("fetch.resolved_url")
	sizeKey        = attribute.Key("fetch.size")
	contentTypeKey = attribute.Key("fetch.content_type")
)

// The type of resolver handling the request.
//
// Type: string
// Required: No
// Examples: "fsfetch.Mux", "*httpfs.httpResolver"
func Type(name string) attribute.KeyValue {
	return typeKey.String(name)
}

// The scheme of the requested URL.
//
// Type: string
// Required: Yes
// Examples: "file", "https", "pymod"
func Scheme(scheme string) attribute.KeyValue {
	return schemeKey.String(scheme)
}

// The requested URL, with any password redacted.
//
// Type: string
// Required: Yes
// Examples: "https://example.com/templates.json", "pymod:///mypkg/data/readme.md"
func URL(u string) attribute.KeyValue {
	return urlKey.String(u)
}

// The URL actually read, after redirects or rewriting.
//
// Type: string
// Required: No
// Examples: "file:///usr/lib/python3/site-packages/mypkg/data/readme.md"
func ResolvedURL(u string) attribute.KeyValue {
	return resolvedURLKey.String(u)
}

// The size of the response body.
//
// Type: int
// Required: No
// Examples: 1024, 0
func Size(n int) attribute.KeyValue {
	return sizeKey.Int(n)
}

// The content type of the response.
//
// Type: string
// Required: No
// Examples: "application/json", "text/plain; charset=utf-8"
func ContentType(ct string) attribute.KeyValue {
	return contentTypeKey.String(ct)
}
