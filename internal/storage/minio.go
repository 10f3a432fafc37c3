// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioOptions configures an S3-compatible backend.
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PublicURL replaces the endpoint in returned URLs, e.g. a CDN host.
	PublicURL string
}

// MinioStore stores objects in an S3-compatible service.
type MinioStore struct {
	client    *minio.Client
	publicURL string
}

// NewMinioStore creates the client. It does not contact the server.
func NewMinioStore(opts MinioOptions) (*MinioStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	public := opts.PublicURL
	if public == "" {
		public = client.EndpointURL().String()
	}
	return &MinioStore{client: client, publicURL: strings.TrimRight(public, "/")}, nil
}

// EnsureBucket creates bucket when it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *MinioStore) Put(ctx context.Context, obj Object) (string, error) {
	_, err := s.client.PutObject(ctx, obj.Bucket, obj.Key, obj.Body, obj.Size, minio.PutObjectOptions{
		ContentType:  obj.ContentType,
		UserMetadata: obj.Metadata,
	})
	if err != nil {
		return "", fmt.Errorf("putting object %s/%s: %w", obj.Bucket, obj.Key, err)
	}
	return s.publicURL + "/" + obj.Bucket + "/" + obj.Key, nil
}

func (s *MinioStore) Delete(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Ping lists buckets to verify the endpoint and credentials.
func (s *MinioStore) Ping(ctx context.Context) error {
	_, err := s.client.ListBuckets(ctx)
	return err
}
