package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tencentyun/cos-go-sdk-v5"

	"github.com/michaelcadilhac/oink/pkg/errors"
)

// COSConfig holds COS-specific configuration.
type COSConfig struct {
	Bucket    string
	Region    string
	SecretID  string
	SecretKey string
	Domain    string // e.g. "myqcloud.com"
	Scheme    string // "https" or "http"
}

// COS serves game files from a Tencent Cloud COS bucket.
type COS struct {
	client *cos.Client
	scheme string
	bucket string
	region string
	domain string
}

// NewCOS creates a COS storage client.
func NewCOS(cfg *COSConfig) (*COS, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, errors.New(errors.CodeConfigError, "bucket and region are required for COS storage")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, errors.New(errors.CodeConfigError, "credentials are required for COS storage")
	}

	domain := cfg.Domain
	if domain == "" {
		domain = "myqcloud.com"
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	bucketURL, err := url.Parse(fmt.Sprintf("%s://%s.cos.%s.%s", scheme, cfg.Bucket, cfg.Region, domain))
	if err != nil {
		return nil, errors.Wrap(errors.CodeConfigError, "failed to parse bucket URL", err)
	}
	serviceURL, err := url.Parse(fmt.Sprintf("%s://cos.%s.%s", scheme, cfg.Region, domain))
	if err != nil {
		return nil, errors.Wrap(errors.CodeConfigError, "failed to parse service URL", err)
	}

	client := cos.NewClient(&cos.BaseURL{
		BucketURL:  bucketURL,
		ServiceURL: serviceURL,
	}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	return &COS{
		client: client,
		scheme: scheme,
		bucket: cfg.Bucket,
		region: cfg.Region,
		domain: domain,
	}, nil
}

// Download opens the object stored at the key.
func (s *COS) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.Object.Get(ctx, key, nil)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDownloadError, "failed to download from COS", err)
	}
	return resp.Body, nil
}

// Upload stores data under the key.
func (s *COS) Upload(ctx context.Context, key string, reader io.Reader) error {
	if _, err := s.client.Object.Put(ctx, key, reader, nil); err != nil {
		return errors.Wrap(errors.CodeUploadError, "failed to upload to COS", err)
	}
	return nil
}

// Exists checks whether an object exists at the key.
func (s *COS) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.Object.IsExist(ctx, key)
	if err != nil {
		return false, errors.Wrap(errors.CodeDownloadError, "failed to check COS object", err)
	}
	return ok, nil
}

// GetURL returns the public object URL.
func (s *COS) GetURL(key string) string {
	return fmt.Sprintf("%s://%s.cos.%s.%s/%s", s.scheme, s.bucket, s.region, s.domain, key)
}
