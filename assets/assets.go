// Package assets mirrors externally hosted race images into an S3-compatible
// bucket (AWS S3 or MinIO) so the catalog serves them from one place.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// maxImageBytes caps how much of a remote image is fetched.
const maxImageBytes = 10 << 20

// Config holds the bucket settings; credentials come from the default AWS
// chain (env vars, shared config, instance role).
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, for MinIO-style endpoints
	PathStyle bool
}

// Store uploads objects into a single bucket.
type Store struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL *url.URL
	httpc   *http.Client
}

// New creates an asset store from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("assets: bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "eu-west-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	var base *url.URL
	if cfg.Endpoint != "" {
		if u, err := url.Parse(cfg.Endpoint); err == nil {
			base = u
		}
	}

	return &Store{
		client:  client,
		bucket:  cfg.Bucket,
		region:  region,
		baseURL: base,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// UploadFromURL fetches srcURL and stores its body under key, returning the
// URL the object is served from.
func (s *Store) UploadFromURL(ctx context.Context, key, srcURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assets: fetching %s: status %d", srcURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", err
	}

	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   bytes.NewReader(body),
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		input.ContentType = &ct
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", err
	}

	return s.objectURL(key), nil
}

func (s *Store) objectURL(key string) string {
	if s.baseURL != nil {
		return s.baseURL.JoinPath(s.bucket, key).String()
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
