// Package storage implements the workspace file-storage client the demo
// agent exercises. The storage service speaks the S3 API: the workspace and
// token act as static credentials and the service URL becomes a custom
// endpoint with path-style addressing, so the same client works against AWS
// S3 or any S3-compatible backend.
package storage

import (
	"bytes"
	"context"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/orcastack/dummy-agent/core"
)

// Bucket describes a storage bucket.
type Bucket struct {
	Name    string    `json:"name"`
	Created time.Time `json:"created,omitempty"`
}

// UploadInput describes a buffer upload.
type UploadInput struct {
	Bucket      string
	FileName    string
	Buffer      []byte
	FolderPath  string
	Visibility  string // private or public
	GenerateURL bool
}

// FileInfo describes an uploaded file.
type FileInfo struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
}

// Client is the storage operation surface the demo routines call.
type Client interface {
	ListBuckets(ctx context.Context) ([]Bucket, error)
	UploadBuffer(ctx context.Context, in UploadInput) (FileInfo, error)
}

// Config configures the S3-backed client.
type Config struct {
	// Workspace identifies the tenant and doubles as the access key.
	Workspace string
	// Token is the workspace secret.
	Token string
	// BaseURL is the storage service endpoint. Empty uses AWS defaults.
	BaseURL string
	// Region passed to the SDK. Defaults to us-east-1 for custom endpoints.
	Region string
	// PresignTTL bounds generated download URLs. Defaults to 15 minutes.
	PresignTTL time.Duration
}

// S3Client implements Client against an S3-compatible storage service.
type S3Client struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	presignTTL time.Duration
}

// New builds an S3Client from the config.
func New(ctx context.Context, cfg Config) (*S3Client, error) {
	if cfg.Workspace == "" || cfg.Token == "" {
		return nil, core.NewConfigurationError("STORAGE_CREDENTIALS", "workspace and token are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Workspace, cfg.Token, ""),
		),
	)
	if err != nil {
		return nil, core.NewConfigurationError("STORAGE_INIT", "failed to load storage configuration").Wrap(err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseURL != "" {
			o.BaseEndpoint = aws.String(cfg.BaseURL)
			o.UsePathStyle = true
		}
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Client{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		presignTTL: ttl,
	}, nil
}

// ListBuckets returns the buckets visible to the workspace.
func (c *S3Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	out, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, core.NewAPIError("STORAGE_LIST_BUCKETS", "failed to list buckets").Wrap(err)
	}
	buckets := make([]Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		bucket := Bucket{Name: aws.ToString(b.Name)}
		if b.CreationDate != nil {
			bucket.Created = *b.CreationDate
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

// UploadBuffer stores the buffer under folderPath/fileName and optionally
// returns a presigned download URL.
func (c *S3Client) UploadBuffer(ctx context.Context, in UploadInput) (FileInfo, error) {
	if in.Bucket == "" || in.FileName == "" {
		return FileInfo{}, core.NewValidationError("STORAGE_UPLOAD_INPUT", "bucket and file name are required")
	}

	key := ObjectKey(in.FolderPath, in.FileName)
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(in.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(in.Buffer),
	})
	if err != nil {
		return FileInfo{}, core.NewAPIError("STORAGE_UPLOAD", "failed to upload buffer").
			WithContext("bucket", in.Bucket).
			WithContext("key", key).
			Wrap(err)
	}

	info := FileInfo{Key: key}
	if in.GenerateURL {
		presigned, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(in.Bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(c.presignTTL))
		if err != nil {
			return info, core.NewAPIError("STORAGE_PRESIGN", "failed to presign download URL").
				WithContext("key", key).
				Wrap(err)
		}
		info.URL = presigned.URL
	}
	return info, nil
}

// ObjectKey joins an optional folder path with the file name into a clean
// object key.
func ObjectKey(folderPath, fileName string) string {
	if folderPath == "" {
		return fileName
	}
	return path.Join(path.Clean(folderPath), fileName)
}
