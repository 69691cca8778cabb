package sthree

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/oneconcern/buildsync/pkg/storage"
)

// Option is a functor to pass optional parameters to the s3 store
type Option func(*s3FS)

// Bucket scopes all keys of this store to a single bucket
func Bucket(bucket string) Option {
	return func(fs *s3FS) {
		fs.bucket = bucket
	}
}

// AWSConfig overrides the default AWS client configuration,
// e.g. to point at an S3-compatible endpoint
func AWSConfig(cfg *aws.Config) Option {
	return func(fs *s3FS) {
		fs.awsConfig = cfg
	}
}

// Endpoint points the store at an alternate S3-compatible service.
// Path-style addressing is forced since most compatible stores
// don't resolve virtual-hosted bucket names.
func Endpoint(url string) Option {
	return func(fs *s3FS) {
		if url == "" {
			return
		}
		if fs.awsConfig == nil {
			fs.awsConfig = aws.NewConfig()
		}
		fs.awsConfig = fs.awsConfig.WithEndpoint(url).WithS3ForcePathStyle(true)
	}
}

// New creates a new store backed by an S3 bucket
func New(option Option, options ...Option) storage.Store {
	fs := new(s3FS)
	option(fs)
	for _, apply := range options {
		apply(fs)
	}

	fs.s3 = s3.New(session.Must(session.NewSession(fs.awsConfig)))
	fs.uploader = s3manager.NewUploaderWithClient(fs.s3)
	return fs
}

type s3FS struct {
	bucket    string
	awsConfig *aws.Config
	s3        *s3.S3
	uploader  *s3manager.Uploader
}

func (s *s3FS) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		err = toSentinelErrors(err)
		if errNotExists(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *s3FS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return obj.Body, nil
}

func (s *s3FS) Put(ctx context.Context, key string, rdr io.Reader, settings storage.PutSettings) error {
	input := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   rdr,
	}
	if settings.ContentType != "" {
		input.ContentType = aws.String(settings.ContentType)
	}
	if settings.CacheControl != "" {
		input.CacheControl = aws.String(settings.CacheControl)
	}
	if settings.ACL != "" {
		input.ACL = aws.String(settings.ACL)
	}
	if settings.ContentEncoding != "" {
		input.ContentEncoding = aws.String(settings.ContentEncoding)
	}
	if settings.ContentDisposition != "" {
		input.ContentDisposition = aws.String(settings.ContentDisposition)
	}
	_, err := s.uploader.UploadWithContext(ctx, input)
	return toSentinelErrors(err)
}

func (s *s3FS) Delete(ctx context.Context, key string) error {
	_, err := s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return toSentinelErrors(err)
}

func (s *s3FS) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	eachPage := func(page *s3.ListObjectsOutput, more bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if key != "" {
				keys = append(keys, key)
			}
		}
		return more
	}
	params := &s3.ListObjectsInput{Bucket: aws.String(s.bucket)}

	err := s.s3.ListObjectsPagesWithContext(ctx, params, eachPage)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return keys, nil
}

func (s *s3FS) String() string {
	return "s3@" + s.bucket
}
