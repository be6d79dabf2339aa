package fsfetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Response is the outcome of a single fetch. A failed fetch is still a
// Response: check OK before using Body.
type Response struct {
	// URL is the location that was actually read. Resolvers that rewrite
	// their target (file, pymod) report the rewritten location here.
	URL    *url.URL
	Header http.Header
	// Err is the transport error for a failed fetch, if there was one.
	Err        error
	Body       []byte
	StatusCode int
}

// OK reports whether the fetch succeeded, i.e. there was no transport error
// and the status is below 400.
func (r *Response) OK() bool {
	return r != nil && r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 400
}

// Encoding returns the charset declared in the Content-Type header, or an
// empty string when none is declared.
func (r *Response) Encoding() string {
	if r == nil || r.Header == nil {
		return ""
	}

	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}

	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}

	return params["charset"]
}

// Text returns the body decoded with the declared encoding, defaulting to
// UTF-8.
func (r *Response) Text() (string, error) {
	charset := r.Encoding()

	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return string(r.Body), nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("unsupported encoding %q: %w", charset, err)
	}

	b, err := enc.NewDecoder().Bytes(r.Body)
	if err != nil {
		return "", fmt.Errorf("decode %s body: %w", charset, err)
	}

	return string(b), nil
}

// JSON unmarshals the body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// FileResponse returns a successful Response for a file read from a
// filesystem. The Content-Type is derived from fi (see ContentType).
func FileResponse(u *url.URL, fi fs.FileInfo, body []byte) *Response {
	hdr := http.Header{}
	hdr.Set("Content-Length", strconv.Itoa(len(body)))

	if fi != nil {
		if ct := ContentType(fi); ct != "" {
			hdr.Set("Content-Type", ct)
		}

		if mt := fi.ModTime(); !mt.IsZero() {
			hdr.Set("Last-Modified", mt.UTC().Format(http.TimeFormat))
		}
	}

	return &Response{
		URL:        u,
		Header:     hdr,
		Body:       body,
		StatusCode: http.StatusOK,
	}
}

// ErrorResponse returns a failed Response for u, with a status derived from
// err (see StatusFromError).
func ErrorResponse(u *url.URL, err error) *Response {
	return &Response{
		URL:        u,
		Header:     http.Header{},
		Err:        err,
		StatusCode: StatusFromError(err),
	}
}

// StatusFromError maps a transport error to the HTTP status that best
// describes it. Errors with no obvious equivalent map to 0.
func StatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, fs.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnsupportedScheme):
		return http.StatusNotImplemented
	default:
		return 0
	}
}
