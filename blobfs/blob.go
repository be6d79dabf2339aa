package blobfs

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/noxmake/go-fsfetch"
	"github.com/noxmake/go-fsfetch/internal"
	"github.com/noxmake/go-fsfetch/internal/env"
	"gocloud.dev/blob"
	"gocloud.dev/blob/azureblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
	"gocloud.dev/gcp"
)

type blobResolver struct {
	opener  blob.BucketURLOpener
	hclient *http.Client
	envfs   fs.FS
}

// New returns a resolver for the 's3', 'gs', and 'azblob' URL schemes,
// suitable for registering with an fsfetch.Mux.
//
// The URL's host names the bucket, and its path (without the leading "/") is
// the key of the blob to read. Query parameters understood by the Go CDK
// (such as 'region' or 'endpoint' for S3) configure the bucket, and others are
// ignored.
//
// The bucket is opened for each request and closed afterwards.
func New(opts ...Option) fsfetch.Provider {
	cfg := config{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	return &blobResolver{
		opener:  cfg.opener,
		hclient: cfg.hclient,
		envfs:   os.DirFS("/"),
	}
}

var _ fsfetch.Provider = (*blobResolver)(nil)

func (r *blobResolver) Schemes() []string {
	return []string{s3blob.Scheme, gcsblob.Scheme, azureblob.Scheme}
}

func (r *blobResolver) Resolve(ctx context.Context, req *fsfetch.Request) (*fsfetch.Response, error) {
	key := strings.TrimPrefix(req.URL.Path, "/")
	if key == "" || !fs.ValidPath(key) {
		return nil, &fs.PathError{Op: "open", Path: req.URL.Path, Err: fs.ErrInvalid}
	}

	bucket, err := r.openBucket(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	defer bucket.Close()

	reader, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: key, Err: blobError(err)}
	}

	defer reader.Close()

	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: key, Err: blobError(err)}
	}

	fi := internal.FileInfo(path.Base(key), reader.Size(), 0o444, reader.ModTime(), reader.ContentType())

	return fsfetch.FileResponse(req.URL, fi, b), nil
}

// blobError maps Go CDK error codes to their fs equivalents, so that a
// missing blob is reported the same way as a missing file.
func blobError(err error) error {
	switch gcerrors.Code(err) {
	case gcerrors.NotFound:
		return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	case gcerrors.PermissionDenied:
		return fmt.Errorf("%w: %w", fs.ErrPermission, err)
	case gcerrors.InvalidArgument:
		return fmt.Errorf("%w: %w", fs.ErrInvalid, err)
	default:
		return err
	}
}

func (r *blobResolver) openBucket(ctx context.Context, u *url.URL) (*blob.Bucket, error) {
	o, err := r.newOpener(ctx, u.Scheme)
	if err != nil {
		return nil, fmt.Errorf("bucket opener: %w", err)
	}

	bu := r.cleanCdkURL(*u)

	bucket, err := o.OpenBucketURL(ctx, &bu)
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}

	return bucket, nil
}

// create the correct kind of blob.BucketURLOpener for the given scheme
func (r *blobResolver) newOpener(ctx context.Context, scheme string) (opener blob.BucketURLOpener, err error) {
	if r.opener != nil {
		return r.opener, nil
	}

	// nil means the default transport
	var transport http.RoundTripper
	if r.hclient != nil {
		transport = r.hclient.Transport
	}

	switch scheme {
	case s3blob.Scheme:
		return &s3Opener{hclient: r.hclient}, nil
	case azureblob.Scheme:
		// see https://gocloud.dev/concepts/urls/#muxes
		return blob.DefaultURLMux(), nil
	case gcsblob.Scheme:
		if env.GetenvFS(r.envfs, "GOOGLE_ANON") == "true" {
			return &gcsblob.URLOpener{
				Client: gcp.NewAnonymousHTTPClient(transport),
			}, nil
		}

		creds, err := gcp.DefaultCredentials(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve GCP credentials: %w", err)
		}

		client, err := gcp.NewHTTPClient(
			transport,
			gcp.CredentialsTokenSource(creds))
		if err != nil {
			return nil, fmt.Errorf("failed to create GCP HTTP client: %w", err)
		}

		return &gcsblob.URLOpener{Client: client}, nil
	default:
		return nil, fmt.Errorf("unsupported scheme: %s", scheme)
	}
}

// copy/sanitize the URL for the Go CDK - it doesn't like params it can't
// parse, and the path names the blob, not the bucket
func (r *blobResolver) cleanCdkURL(u url.URL) url.URL {
	u.Path = ""
	u.RawPath = ""
	u.Fragment = ""
	u.RawFragment = ""

	switch u.Scheme {
	case s3blob.Scheme:
		return r.cleanS3URL(u)
	case gcsblob.Scheme:
		return r.cleanGSURL(u)
	case azureblob.Scheme:
		return r.cleanAzBlobURL(u)
	default:
		return u
	}
}

func (r *blobResolver) cleanAzBlobURL(u url.URL) url.URL {
	q := u.Query()
	for param := range q {
		switch param {
		case "domain", "protocol", "cdn", "localemu":
		default:
			q.Del(param)
		}
	}

	u.RawQuery = q.Encode()

	return u
}

func (r *blobResolver) cleanGSURL(u url.URL) url.URL {
	q := u.Query()
	for param := range q {
		switch param {
		case "access_id", "private_key_path":
		default:
			q.Del(param)
		}
	}

	u.RawQuery = q.Encode()

	return u
}
