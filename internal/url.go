package internal

import "net/url"

// MergeQuery returns the encoded query for a reference resolved against base:
// base parameters are kept, and parameters set on ref replace them.
func MergeQuery(base, ref *url.URL) string {
	if base.RawQuery == "" {
		return ref.RawQuery
	}

	if ref.RawQuery == "" {
		return base.RawQuery
	}

	bq := base.Query()
	rq := ref.Query()

	for k, vs := range rq {
		bq[k] = vs
	}

	return bq.Encode()
}

// AddParams appends params to the query of u, in place. The existing query is
// kept as it is.
func AddParams(u *url.URL, params url.Values) {
	if len(params) == 0 {
		return
	}

	if u.RawQuery == "" {
		u.RawQuery = params.Encode()

		return
	}

	u.RawQuery += "&" + params.Encode()
}
