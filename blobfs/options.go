package blobfs

import (
	"net/http"

	"gocloud.dev/blob"
)

// Option configures the blob resolver.
type Option interface {
	apply(*config)
}

type config struct {
	opener  blob.BucketURLOpener
	hclient *http.Client
}

type optionFunc func(*config)

func (o optionFunc) apply(c *config) {
	o(c)
}

// WithBucketOpener sets the opener used for every bucket, regardless of the
// URL's scheme. The URL given to the opener has no path, and only the query
// parameters the Go CDK understands for the scheme.
func WithBucketOpener(opener blob.BucketURLOpener) Option {
	return optionFunc(func(cfg *config) {
		cfg.opener = opener
	})
}

// WithHTTPClient sets the HTTP client used to talk to S3, and whose transport
// is used to talk to Google Cloud Storage.
func WithHTTPClient(client *http.Client) Option {
	return optionFunc(func(cfg *config) {
		cfg.hclient = client
	})
}
