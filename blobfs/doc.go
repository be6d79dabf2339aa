// Package blobfs resolves URLs for blob stores such as Google Cloud Storage,
// Azure Blob Storage, or AWS S3.
//
// # Usage
//
// Register the resolver with an fsfetch.Mux:
//
//	mux := fsfetch.NewMux()
//	mux.Add(blobfs.New())
//
// The schemes "s3", "gs", and "azblob" are supported. Bases like
// "s3://mybucket/templates/?region=eu-west-1" can then be used with
// fsfetch.Client, and each resource is read from the bucket with the key
// given by the joined URL's path.
//
// # Credentials
//
// Credentials are found the way the Go CDK finds them for each provider. For
// S3, the AWS_S3_ENDPOINT, AWS_REGION (or AWS_DEFAULT_REGION) and AWS_ANON
// environment variables fill in the 'endpoint', 'region' and 'anonymous'
// parameters when the URL doesn't set them. For GCS, set GOOGLE_ANON=true to
// read public buckets without credentials.
package blobfs
