package blobfs

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/noxmake/go-fsfetch/internal/env"
	gcaws "gocloud.dev/aws"
	"gocloud.dev/blob"
	"gocloud.dev/blob/s3blob"
)

// s3 bucket URL parameters handled by s3Opener itself, rather than by
// gcaws.V2ConfigFromURLParams
const (
	s3Accelerate   = "accelerate"
	s3Anonymous    = "anonymous"
	s3DisableHTTPS = "disable_https"
	s3PathStyle    = "use_path_style"
)

// s3Opener opens S3 buckets with an AWS SDK v2 client. Beyond the parameters
// gcaws.V2ConfigFromURLParams understands, it accepts 'anonymous' to send
// unsigned requests, for reading public buckets without credentials.
type s3Opener struct {
	// optional - the SDK's default client is used when nil
	hclient *http.Client
}

var _ blob.BucketURLOpener = (*s3Opener)(nil)

func (o *s3Opener) OpenBucketURL(ctx context.Context, u *url.URL) (*blob.Bucket, error) {
	q := u.Query()

	flags := map[string]bool{}

	for _, param := range []string{s3Accelerate, s3Anonymous, s3DisableHTTPS, s3PathStyle} {
		v := q.Get(param)
		q.Del(param)

		if v == "" {
			continue
		}

		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for %s: %w", v, param, fs.ErrInvalid)
		}

		flags[param] = b
	}

	cfg, err := gcaws.V2ConfigFromURLParams(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("s3 config for bucket %s: %w", u.Host, err)
	}

	if flags[s3Anonymous] {
		cfg.Credentials = aws.AnonymousCredentials{}
	}

	if o.hclient != nil {
		cfg.HTTPClient = o.hclient
	}

	client := s3.NewFromConfig(cfg, func(opts *s3.Options) {
		opts.UseAccelerate = flags[s3Accelerate]
		opts.UsePathStyle = flags[s3PathStyle]
		opts.EndpointOptions.DisableHTTPS = flags[s3DisableHTTPS]
	})

	return s3blob.OpenBucketV2(ctx, client, u.Host, nil)
}

// cleanS3URL keeps only the bucket parameters s3Opener understands, filling
// in defaults from the AWS_* environment variables.
func (r *blobResolver) cleanS3URL(u url.URL) url.URL {
	q := u.Query()
	translateV1Params(q)

	for param := range q {
		switch param {
		case s3Accelerate, s3Anonymous, s3DisableHTTPS, s3PathStyle,
			"dualstack",
			"endpoint",
			"fips",
			"hostname_immutable",
			"profile",
			"rate_limiter_capacity",
			"region":
		default:
			// includes write-only settings like 'kmskeyid' and 'ssetype'
			q.Del(param)
		}
	}

	r.setParamsFromEnv(q)

	ensureValidEndpointURL(q)

	u.RawQuery = q.Encode()

	return u
}

// translateV1Params renames parameters from the AWS SDK v1 era.
func translateV1Params(q url.Values) {
	renames := map[string]string{
		"disableSSL":       s3DisableHTTPS,
		"s3ForcePathStyle": s3PathStyle,
	}

	for old, param := range renames {
		if v, ok := q[old]; ok {
			q[param] = v
			q.Del(old)
		}
	}
}

// ensureValidEndpointURL gives a scheme-less endpoint (e.g. "localhost:9000")
// the scheme disable_https asks for.
func ensureValidEndpointURL(q url.Values) {
	endpoint := q.Get("endpoint")
	if endpoint == "" {
		return
	}

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		return
	}

	scheme := "https://"
	if disable, _ := strconv.ParseBool(q.Get(s3DisableHTTPS)); disable {
		scheme = "http://"
	}

	q.Set("endpoint", scheme+endpoint)
}

// setParamsFromEnv fills in parameters missing from the URL from AWS_S3_ENDPOINT,
// AWS_REGION (or AWS_DEFAULT_REGION), and AWS_ANON.
func (r *blobResolver) setParamsFromEnv(q url.Values) {
	defaults := []struct {
		param, value string
	}{
		{"endpoint", env.GetenvFS(r.envfs, "AWS_S3_ENDPOINT")},
		{"region", env.GetenvFS(r.envfs, "AWS_REGION", env.GetenvFS(r.envfs, "AWS_DEFAULT_REGION"))},
		{s3Anonymous, env.GetenvFS(r.envfs, "AWS_ANON")},
	}

	for _, d := range defaults {
		if q.Get(d.param) == "" && d.value != "" {
			q.Set(d.param, d.value)
		}
	}
}
