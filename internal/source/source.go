// Package source turns the media source a player is mounted with into a URL
// the browser can load.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

var (
	ErrInvalidSource     = errors.New("invalid media source")
	ErrStorageDisabled   = errors.New("object storage is not configured")
	ErrUnsupportedScheme = errors.New("unsupported media source scheme")
)

type presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Config struct {
	Endpoint       string
	PublicEndpoint string // used for presigned URLs, falls back to Endpoint
	Bucket         string
	Region         string
	AccessKey      string
	SecretKey      string
	PresignExpiry  time.Duration
}

type Resolver struct {
	presigner presigner
	bucket    string
	expiry    time.Duration
}

// NewResolver builds a resolver. Without a bucket only http(s) sources are
// accepted.
func NewResolver(ctx context.Context, cfg Config) (*Resolver, error) {
	if cfg.Bucket == "" {
		return &Resolver{}, nil
	}

	if cfg.Region == "" {
		cfg.Region = "eu-central-1"
	}

	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = time.Hour
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := cfg.Endpoint
	if cfg.PublicEndpoint != "" {
		endpoint = cfg.PublicEndpoint
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = true
	})

	return &Resolver{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		expiry:    cfg.PresignExpiry,
	}, nil
}

func (r *Resolver) Resolve(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", ErrInvalidSource
	}

	if key, ok := strings.CutPrefix(source, s3Scheme); ok {
		return r.presign(ctx, key)
	}

	u, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidSource)
	}

	return u.String(), nil
}

func (r *Resolver) presign(ctx context.Context, key string) (string, error) {
	if r.presigner == nil {
		return "", ErrStorageDisabled
	}

	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty object key", ErrInvalidSource)
	}

	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:              aws.String(r.bucket),
		Key:                 aws.String(key),
		ResponseContentType: aws.String("video/mp4"),
	}, s3.WithPresignExpires(r.expiry))
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}

	return req.URL, nil
}
