package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gamehub/internal/client/models"
	"github.com/dmitrijs2005/gamehub/internal/filex"
)

// ExportSink stores an export artifact and returns where it ended up.
type ExportSink interface {
	Save(ctx context.Context, a *models.ExportArtifact) (string, error)
}

// FileSink writes artifacts into a local directory, creating it on first use.
type FileSink struct {
	Dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

func (s *FileSink) Save(ctx context.Context, a *models.ExportArtifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir, err := filex.EnsureDir(s.Dir)
	if err != nil {
		return "", fmt.Errorf("save export: %w", err)
	}
	path, err := filex.WriteFileAtomic(dir, a.Name, a.Body)
	if err != nil {
		return "", fmt.Errorf("save export: %w", err)
	}
	return path, nil
}

// S3Options configures the S3 export sink. An empty BaseEndpoint uses AWS;
// a set one (e.g. MinIO) switches to path-style addressing.
type S3Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Prefix       string
}

// seams for tests
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3Sink uploads artifacts to an S3-compatible bucket.
type S3Sink struct {
	opts S3Options
}

func NewS3Sink(opts S3Options) (*S3Sink, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 export sink: bucket is required")
	}
	return &S3Sink{opts: opts}, nil
}

func (s *S3Sink) getClient(ctx context.Context) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(s.opts.Region),
	}
	if s.opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.opts.AccessKey, s.opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func (s *S3Sink) Save(ctx context.Context, a *models.ExportArtifact) (string, error) {
	c, err := s.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 config: %w", err)
	}

	key := s.opts.Prefix + a.Name
	_, err = putObject(c, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(a.Body),
		ContentType:   aws.String(a.ContentType),
		ContentLength: aws.Int64(int64(len(a.Body))),
	})
	if err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.opts.Bucket, key), nil
}
