package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrInvalidS3URL reports a malformed s3:// location.
var ErrInvalidS3URL = errors.New("invalid s3 location")

const s3Scheme = "s3://"

// ObjectAPI is the subset of the S3 client used for exports.
type ObjectAPI interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads exports from a bucket.
type S3Source struct {
	api ObjectAPI
}

// S3Config configures the bucket client. Endpoint overrides the AWS
// endpoint for S3 compatible stores.
type S3Config struct {
	Region   string
	Endpoint string
}

func NewS3Source(ctx context.Context, cfg S3Config) (*S3Source, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3SourceWithAPI(client), nil
}

func NewS3SourceWithAPI(api ObjectAPI) *S3Source {
	return &S3Source{api: api}
}

// IsS3 reports whether location uses the s3:// scheme.
func IsS3(location string) bool {
	return strings.HasPrefix(location, s3Scheme)
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(location string) (bucket, key string, err error) {
	if !IsS3(location) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidS3URL, location)
	}

	bucket, key, _ = strings.Cut(strings.TrimPrefix(location, s3Scheme), "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidS3URL, location)
	}

	return bucket, key, nil
}

func (s *S3Source) Resolve(ctx context.Context, pattern string) (string, error) {
	bucket, key, err := ParseS3URL(pattern)
	if err != nil {
		return "", err
	}

	if !hasMeta(key) {
		return pattern, nil
	}

	prefix := key[:strings.IndexAny(key, `*?[`)]

	var matches []string

	p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list s3://%s/%s: %w", bucket, prefix, err)
		}

		for _, obj := range page.Contents {
			k := aws.ToString(obj.Key)

			ok, err := path.Match(key, k)
			if err != nil {
				return "", fmt.Errorf("invalid file pattern %s: %w", pattern, err)
			}

			if ok {
				matches = append(matches, s3Scheme+bucket+"/"+k)
			}
		}
	}

	return lastMatch(matches, pattern)
}

func (s *S3Source) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", location, err)
	}

	return out.Body, nil
}
