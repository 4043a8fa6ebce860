// Copyright (c) 2026 Rooftop. All rights reserved.
// Author: dev@rooftop.homes

/*
Package storage provides object storage for listing images.

Images are uploaded once, referenced by public URL in listings, and deleted
either explicitly by the owner or as a side-effect of removing the listing.
The bucket is the only source of truth for image bytes; the database stores
URLs only.

Architecture:

  - ObjectStore: The interface consumed by the listing service.
  - S3Store: Production implementation over any S3-compatible endpoint
    (AWS S3, Cloudflare R2, MinIO).
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ErrObjectNotFound is returned when a delete targets a key that does not exist.
var ErrObjectNotFound = errors.New("storage: object not found")

// ObjectStore is the blob interface consumed by the listing service.
type ObjectStore interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)

	// Delete removes the object. Returns [ErrObjectNotFound] if the key is absent.
	Delete(ctx context.Context, key string) error

	// KeyFromURL recovers the object key from a public URL previously
	// returned by Upload. Non-URL input is assumed to already be a key.
	KeyFromURL(raw string) string
}

// # S3 Implementation

// S3Store stores objects in an S3-compatible bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
	// endpoint is set for non-AWS providers; empty means real AWS S3.
	endpoint string
}

// S3Options carries the connection settings for [NewS3Store].
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Store builds a store against the configured bucket.
//
// When Endpoint is set (R2, MinIO) the client switches to path-style
// addressing, which those providers require.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if opts.Endpoint != "" {
			options.BaseEndpoint = aws.String(opts.Endpoint)
			options.UsePathStyle = true
		}
	})

	return &S3Store{
		client:   client,
		bucket:   opts.Bucket,
		region:   opts.Region,
		endpoint: opts.Endpoint,
	}, nil
}

// Upload stores the object with public-read access and returns its URL.
func (s *S3Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload of %s failed: %w", key, err)
	}

	return s.publicURL(key), nil
}

// Delete removes the object from the bucket.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return ErrObjectNotFound
		}
		return fmt.Errorf("storage: delete of %s failed: %w", key, err)
	}

	return nil
}

// KeyFromURL recovers the "ads/<file>" key from a full public URL.
// Clients send back whichever form they stored, so both are accepted.
func (s *S3Store) KeyFromURL(raw string) string {
	if !strings.HasPrefix(raw, "http") {
		return raw
	}
	segments := strings.Split(raw, "/")
	if len(segments) < 2 {
		return raw
	}
	return strings.Join(segments[len(segments)-2:], "/")
}

// publicURL builds the browsable URL for an uploaded key.
func (s *S3Store) publicURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
