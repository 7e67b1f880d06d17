package upload

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"

	errs "github.com/mnemonic-no/act-utils/pkg/errors"
)

// S3API is the subset of *s3.Client used by S3Publisher.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures NewS3Publisher.
type S3Options struct {
	Bucket string
	Prefix string
	Region string
	// Endpoint overrides the S3 endpoint, e.g. for MinIO. Path-style
	// addressing is used when set.
	Endpoint string
	// Static credentials. The default AWS credential chain is used when
	// AccessKeyID is empty.
	AccessKeyID     string
	SecretAccessKey string
}

// S3Publisher stores artifacts as objects named prefix/<file name>.
type S3Publisher struct {
	api    S3API
	bucket string
	prefix string
	logger *log.Logger
}

// NewS3Publisher loads the AWS configuration and creates a publisher.
func NewS3Publisher(ctx context.Context, opts S3Options, logger *log.Logger) (*S3Publisher, error) {
	if opts.Bucket == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "s3 bucket is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "load AWS config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3PublisherWithClient(client, opts.Bucket, opts.Prefix, logger), nil
}

// NewS3PublisherWithClient wraps an existing client.
func NewS3PublisherWithClient(api S3API, bucket, prefix string, logger *log.Logger) *S3Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &S3Publisher{api: api, bucket: bucket, prefix: prefix, logger: logger}
}

// Target returns "s3".
func (p *S3Publisher) Target() string { return "s3" }

// Key returns the object key for a local file.
func (p *S3Publisher) Key(file string) string {
	return path.Join(p.prefix, filepath.Base(file))
}

// Upload puts the file into the bucket. The title is stored as object metadata.
func (p *S3Publisher) Upload(ctx context.Context, file, title string) error {
	f, err := os.Open(file)
	if err != nil {
		return errs.Wrap(errs.ErrCodeUploadFailed, err, "open %s", file)
	}
	defer f.Close()

	key := p.Key(file)
	_, err = p.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentType(file)),
		Metadata:    map[string]string{"title": title},
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeUploadFailed, err, "put s3://%s/%s", p.bucket, key)
	}
	p.logger.Debug("stored object", "bucket", p.bucket, "key", key, "title", title)
	return nil
}
