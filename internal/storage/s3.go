// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for the
// asset host serving blog images. It wraps the AWS SDK v2 and is configured
// for path-style access.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Client wraps an S3 client for asset operations on the image bucket.
type Client struct {
	s3       *s3.Client
	bucket   string
	endpoint string
	baseURL  string // public asset host URL prefixing every image URL
}

// New creates an S3 storage client with path-style addressing.
// Returns (nil, nil) if endpoint or credentials are empty, allowing the app
// to start without upload/cleanup support; editors then supply image URLs
// hosted elsewhere on the asset host.
func New(endpoint, region, accessKey, secretKey, bucket, baseURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:       s3Client,
		bucket:   bucket,
		endpoint: endpoint,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload stores an image with a generated key and returns its public URL.
// The original filename only contributes its extension.
func (c *Client) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, error) {
	key := "blogs/" + uuid.NewString() + strings.ToLower(path.Ext(filename))

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}

	return c.FileURL(key), nil
}

// Delete removes an object from the asset bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// DeleteByURL removes the object behind a public image URL. URLs that don't
// belong to this storage are ignored without error, since editors may link
// images hosted elsewhere on the asset host.
func (c *Client) DeleteByURL(ctx context.Context, rawURL string) error {
	key, ok := c.ExtractKey(rawURL)
	if !ok {
		return nil
	}
	return c.Delete(ctx, key)
}

// FileURL returns the public URL for a stored object key.
// Uses the asset host URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.baseURL != "" {
		return c.baseURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// ExtractKey extracts the object key from a public image URL.
// Returns ("", false) if the URL doesn't belong to this storage.
func (c *Client) ExtractKey(rawURL string) (string, bool) {
	if c.baseURL != "" {
		prefix := c.baseURL + "/"
		if strings.HasPrefix(rawURL, prefix) {
			return rawURL[len(prefix):], true
		}
	}

	prefix := c.endpoint + "/" + c.bucket + "/"
	if strings.HasPrefix(rawURL, prefix) {
		return rawURL[len(prefix):], true
	}

	return "", false
}
