// Package storage wraps the object store holding revision artifacts. The
// service itself never reads or writes artifact bodies; it only needs two
// primitives: mint a time-limited write credential for a key, and check
// whether a key exists.
package storage

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
)

// ErrUnavailable wraps transient storage failures (timeouts, connection
// errors). Callers retry with backoff; it is never conflated with a logical
// not-found.
var ErrUnavailable = errors.New("object storage unavailable")

// SignedUpload is a time-limited capability permitting a single PUT to one
// storage key.
type SignedUpload struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ObjectStore is the pair of primitives the service needs from object
// storage: mint a write credential for a key, and probe a key's existence.
type ObjectStore interface {
	SignedPutURL(ctx context.Context, key, contentType string) (SignedUpload, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// Client talks to the S3-compatible object store.
type Client struct {
	s3      *s3.Client
	presign *s3.PresignClient
	cfg     *Config
	expiry  time.Duration
	logger  hclog.Logger
}

// NewClient creates an object storage client and verifies the bucket is
// reachable.
func NewClient(ctx context.Context, cfg *Config, logger hclog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}
	cfg.SetDefaults()

	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	awsCfg, err := createAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing for MinIO and friends.
			o.UsePathStyle = true
		}
	})

	c := &Client{
		s3:      client,
		presign: s3.NewPresignClient(client),
		cfg:     cfg,
		expiry:  time.Duration(cfg.UploadExpirySeconds) * time.Second,
		logger:  logger.Named("storage"),
	}

	if err := c.verifyBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to verify bucket: %w", err)
	}

	c.logger.Info("storage client initialized",
		"bucket", cfg.Bucket,
		"region", cfg.Region,
		"upload_expiry", c.expiry,
	)

	return c, nil
}

// createAWSConfig builds the AWS SDK configuration from storage config.
func createAWSConfig(ctx context.Context, cfg *Config) (aws.Config, error) {
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify,
			},
		},
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(httpClient),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func (c *Client) verifyBucket(ctx context.Context) error {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.cfg.Bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s is not accessible: %w", c.cfg.Bucket, err)
	}
	return nil
}

// SignedPutURL mints a presigned PUT for the given key. The credential is
// independent per key and expires after the configured window; nothing is
// persisted and nothing is revoked, expiry is the only lifecycle.
func (c *Client) SignedPutURL(
	ctx context.Context, key, contentType string,
) (SignedUpload, error) {
	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(c.expiry))
	if err != nil {
		return SignedUpload{}, fmt.Errorf(
			"presigning PUT for %s: %w: %w", key, ErrUnavailable, err)
	}

	return SignedUpload{
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: time.Now().Add(c.expiry).UTC(),
	}, nil
}

// ObjectExists reports whether the key holds an object. Transient failures
// are retried with exponential backoff before surfacing as ErrUnavailable.
func (c *Client) ObjectExists(ctx context.Context, key string) (bool, error) {
	var exists bool

	operation := func() error {
		_, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(c.cfg.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var notFound *types.NotFound
			if errors.As(err, &notFound) {
				exists = false
				return nil
			}
			return err
		}
		exists = true
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(),
			uint64(c.cfg.RetryMaxAttempts),
		),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return false, fmt.Errorf(
			"checking object %s: %w: %w", key, ErrUnavailable, err)
	}

	return exists, nil
}
