//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package cos provides a Tencent Cloud Object Storage (COS) implementation
// of bucket.Service for archiving run attachments.
//
// Authentication credentials can be provided via the COS_SECRETID and
// COS_SECRETKEY environment variables or through the option functions.
package cos

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"

	"trpc.group/trpc-go/trpc-agent-evals/bucket"
)

const defaultTimeout = 60 * time.Second

// service implements bucket.Service backed by a COS bucket.
type service struct {
	client *cos.Client
}

// options configure the COS bucket service.
type options struct {
	secretID  string
	secretKey string
	timeout   time.Duration
	client    *cos.Client
}

// Option configures the COS bucket service.
type Option func(*options)

// WithSecretID sets the COS secret id.
func WithSecretID(secretID string) Option {
	return func(o *options) {
		o.secretID = secretID
	}
}

// WithSecretKey sets the COS secret key.
func WithSecretKey(secretKey string) Option {
	return func(o *options) {
		o.secretKey = secretKey
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithClient provides a pre-configured COS client directly.
func WithClient(client *cos.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// NewService creates a COS-backed bucket for the given bucket URL, e.g.
// "https://bucket.cos.region.myqcloud.com".
func NewService(bucketURL string, opt ...Option) (bucket.Service, error) {
	opts := &options{
		timeout:   defaultTimeout,
		secretID:  os.Getenv("COS_SECRETID"),
		secretKey: os.Getenv("COS_SECRETKEY"),
	}
	for _, o := range opt {
		o(opts)
	}
	if opts.client != nil {
		return &service{client: opts.client}, nil
	}
	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("parse bucket url %q: %w", bucketURL, err)
	}
	httpClient := &http.Client{
		Timeout: opts.timeout,
		Transport: &cos.AuthorizationTransport{
			SecretID:  opts.secretID,
			SecretKey: opts.secretKey,
		},
	}
	return &service{client: cos.NewClient(&cos.BaseURL{BucketURL: u}, httpClient)}, nil
}

// Put stores data under the object name.
func (s *service) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.Object.Put(ctx, name, bytes.NewReader(data), nil)
	if err != nil {
		return fmt.Errorf("put object %s: %w", name, err)
	}
	return nil
}

// Get returns the object stored under name.
func (s *service) Get(ctx context.Context, name string) ([]byte, error) {
	response, err := s.client.Object.Get(ctx, name, nil)
	if err != nil {
		if response != nil && response.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("get object %s: %w", name, os.ErrNotExist)
		}
		return nil, fmt.Errorf("get object %s: %w", name, err)
	}
	defer response.Body.Close()
	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", name, err)
	}
	return data, nil
}

// List returns the object names with the given prefix.
func (s *service) List(ctx context.Context, prefix string) ([]string, error) {
	result, _, err := s.client.Bucket.Get(ctx, &cos.BucketGetOptions{Prefix: prefix})
	if err != nil {
		return nil, fmt.Errorf("list objects with prefix %s: %w", prefix, err)
	}
	names := make([]string, 0, len(result.Contents))
	for _, object := range result.Contents {
		names = append(names, object.Key)
	}
	return names, nil
}
