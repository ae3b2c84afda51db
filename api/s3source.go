package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aouyang1/repogallery/gallery"
	"github.com/aouyang1/repogallery/util"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Source serves the images directly below a bucket prefix.
type S3Source struct {
	client  *s3.Client
	presign *s3.PresignClient

	bucket     string
	prefix     string
	presignTTL time.Duration
}

func NewS3Source(ctx context.Context, profile, bucket, prefix string, presignTTL time.Duration) (*S3Source, error) {
	if bucket == "" {
		return nil, errors.New("no s3 bucket provided in environment variable GALLERY_S3_BUCKET")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	// Load the Shared AWS Configuration (~/.aws/config)
	ctxCfg, cancelCfg := context.WithTimeout(ctx, 3*time.Second)
	cfg, err := awsconfig.LoadDefaultConfig(ctxCfg, opts...)
	cancelCfg()
	if err != nil {
		return nil, fmt.Errorf("unable to load aws config, %w", err)
	}

	return newS3Source(s3.NewFromConfig(cfg), bucket, prefix, presignTTL), nil
}

func newS3Source(client *s3.Client, bucket, prefix string, presignTTL time.Duration) *S3Source {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Source{
		client:     client,
		presign:    s3.NewPresignClient(client),
		bucket:     bucket,
		prefix:     prefix,
		presignTTL: presignTTL,
	}
}

func (s *S3Source) Endpoint() string {
	return "s3://" + s.bucket + "/" + s.prefix
}

func (s *S3Source) key(name string) string {
	return s.prefix + name
}

// ListImages lists the objects directly below the prefix, in key order.
func (s *S3Source) ListImages(ctx context.Context) ([]string, error) {
	images := []string{}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var names []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return images, fmt.Errorf("%w: unable to list s3 objects, %w", gallery.ErrListingFetch, err)
		}
		for _, object := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(object.Key), s.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			names = append(names, name)
		}
	}

	images = util.FilterImages(names)
	if len(images) == 0 {
		slog.Info("no remote files found", "endpoint", s.Endpoint())
	}
	return images, nil
}

func (s *S3Source) FetchImage(ctx context.Context, name string) ([]byte, error) {
	downloader := manager.NewDownloader(s.client)

	buf := manager.NewWriteAtBuffer(nil)
	if _, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	}); err != nil {
		return nil, fmt.Errorf("%w: unable to download object from s3, %s, %w", gallery.ErrImageFetch, name, err)
	}
	return buf.Bytes(), nil
}

// ImageURL presigns a GET for name. An empty string is returned when
// presigning fails.
func (s *S3Source) ImageURL(name string) string {
	req, err := s.presign.PresignGetObject(
		context.Background(),
		&s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key(name)),
		},
		s3.WithPresignExpires(s.presignTTL),
	)
	if err != nil {
		slog.Warn("unable to presign s3 object", "name", name, "error", err)
		return ""
	}
	return req.URL
}
