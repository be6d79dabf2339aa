// Package fsfetch fetches small text and JSON resources (project templates and
// their metadata) relative to a base location. The base location may be a
// local path, a file:// URL, a resource tree bundled with a package
// (pymod:// or pkg://), an HTTP(S) endpoint, a blob storage bucket, or a path
// inside a git repository.
//
// Every transport is a [Resolver], registered for its URL schemes in a [Mux].
// A [Client] joins a resource name onto a base location with [JoinURL], hands
// the result to its Resolver, and decodes the [Response].
//
// Transport failures are never returned as errors: they are reported as a
// [Response] for which OK returns false. The only errors returned by the
// Client are for locations that can't be parsed at all.
//
// See the autofetch package for a Client wired with every resolver in this
// module.
package fsfetch
