package fsfetch

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/noxmake/go-fsfetch/internal"
)

// JoinURL resolves the resource reference against the base location and
// returns the resulting absolute URL.
//
// The base is always treated as a directory: a trailing "/" is added when
// missing. A base without a URL scheme is a filesystem path, made absolute
// against the working directory and turned into a file:// URL.
//
// Dot segments already present in the base are kept as they are, so that
// symbolic links along the base path are honoured when the location is read.
// Dot segments in the resource are applied to the base's segments following
// the usual relative path rules. Base query parameters are kept (the
// resource's take precedence), and the base's fragment is kept unless the
// resource sets its own.
//
// This differs from RFC 3986 reference resolution (and url.URL.ResolveReference),
// which drops the base's query and fragment. Bucket and repository locations
// carry configuration there ("s3://bucket/dir?region=eu-west-1",
// "git+https://host/repo//dir#v1") that must reach every resource under them.
// For http(s) bases, this means a query such as "?token=abc" is sent with
// every joined resource too; strip it from the base first when that's not
// wanted.
//
// An absolute resource URL is returned unchanged.
func JoinURL(base, resource string) (string, error) {
	u, err := baseURL(base)
	if err != nil {
		return "", err
	}

	ref, err := url.Parse(resource)
	if err != nil {
		return "", fmt.Errorf("parse resource %q: %w", resource, err)
	}

	return resolveReference(u, ref).String(), nil
}

func baseURL(base string) (*url.URL, error) {
	if base == "" {
		return nil, errors.New("empty base location")
	}

	scheme := getScheme(base)

	// one-letter schemes are Windows drive letters
	if len(scheme) > 1 {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse base %q: %w", base, err)
		}

		if u.Opaque != "" {
			return nil, fmt.Errorf("base %q: can't join onto an opaque URL", base)
		}

		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
			u.RawPath = ""
		}

		return u, nil
	}

	if !strings.HasSuffix(base, "/") && !strings.HasSuffix(base, string(filepath.Separator)) {
		base += "/"
	}

	p, err := internal.AbsPath(base)
	if err != nil {
		return nil, err
	}

	return internal.FileURL(p), nil
}

// getScheme returns the URL scheme of raw, or an empty string if raw doesn't
// start with one (RFC 3986, section 3.1)
func getScheme(raw string) string {
	for i := 0; i < len(raw); i++ {
		c := raw[i]

		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return ""
			}
		case c == ':':
			return raw[:i]
		default:
			return ""
		}
	}

	return ""
}

func resolveReference(base, ref *url.URL) *url.URL {
	if ref.Scheme != "" {
		return ref
	}

	u := *base
	u.RawPath = ""

	if ref.Host != "" || ref.User != nil {
		// network-path reference - only the scheme is inherited
		u.Host = ref.Host
		u.User = ref.User
		u.Path = mergePath("/", ref.Path)
		u.RawQuery = ref.RawQuery
		u.Fragment = ref.Fragment
		u.RawFragment = ref.RawFragment

		return &u
	}

	u.Path = mergePath(base.Path, ref.Path)
	u.RawQuery = internal.MergeQuery(base, ref)

	if ref.Fragment != "" {
		u.Fragment = ref.Fragment
		u.RawFragment = ref.RawFragment
	}

	return &u
}

// mergePath applies the reference path to the base path segment by segment.
// Base segments are never normalised; "." and ".." in the reference are.
func mergePath(basePath, refPath string) string {
	if refPath == "" {
		return basePath
	}

	var segs []string

	if strings.HasPrefix(refPath, "/") {
		segs = []string{""}
		refPath = refPath[1:]
	} else {
		if !strings.HasPrefix(basePath, "/") {
			basePath = "/" + basePath
		}

		// drop the last segment - everything after the final "/"
		segs = strings.Split(basePath, "/")
		segs = segs[:len(segs)-1]
	}

	// segs[0] is always the empty root segment
	pop := func() {
		for len(segs) > 1 && segs[len(segs)-1] == "." {
			segs = segs[:len(segs)-1]
		}

		switch {
		case len(segs) <= 1:
			// can't go above the root
		case segs[len(segs)-1] == "..":
			segs = append(segs, "..")
		default:
			segs = segs[:len(segs)-1]
		}
	}

	refSegs := strings.Split(refPath, "/")
	for i, s := range refSegs {
		switch s {
		case ".":
		case "..":
			pop()
		default:
			segs = append(segs, s)

			continue
		}

		// a final dot segment refers to a directory
		if i == len(refSegs)-1 {
			segs = append(segs, "")
		}
	}

	if len(segs) == 1 {
		return "/"
	}

	return strings.Join(segs, "/")
}
