package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// nameKey is the user metadata key holding the escaped wire name.
const nameKey = "filename"

// S3Config locates the bucket of an S3-compatible backend such as MinIO.
type S3Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
	Prefix       string
}

// s3API is the subset of *s3.Client used by S3.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3 stores each file as one object under Prefix. The wire name travels in
// object metadata. Identifiers come from the clock so a restarted service
// does not overwrite earlier objects.
type S3 struct {
	api    s3API
	bucket string
	prefix string
	now    func() time.Time

	mu     sync.Mutex
	lastID int64
}

// Test seams for the SDK constructors.
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
)

// NewS3 builds an S3 storage with static credentials and path-style
// addressing.
func NewS3(ctx context.Context, c S3Config) (*S3, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(c.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return newS3(client, c.Bucket, c.Prefix), nil
}

func newS3(api s3API, bucket, prefix string) *S3 {
	return &S3{api: api, bucket: bucket, prefix: prefix, now: time.Now}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3) EnsureBucket(ctx context.Context) error {
	if _, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err == nil {
		return nil
	}
	if _, err := s.api.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *S3) Create(ctx context.Context, name string, data []byte) (int64, error) {
	if name == "" {
		return 0, ErrEmptyName
	}

	id := s.nextID()
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(id)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		Metadata:      map[string]string{nameKey: url.PathEscape(name)},
	})
	if err != nil {
		return 0, fmt.Errorf("put object %d: %w", id, err)
	}
	return id, nil
}

func (s *S3) Stat(ctx context.Context, id int64) (Info, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return Info{}, s.mapError("head", id, err)
	}

	name, err := objectName(out.Metadata)
	if err != nil {
		return Info{}, fmt.Errorf("object %d: %w", id, err)
	}
	return Info{Name: name, Size: aws.ToInt64(out.ContentLength)}, nil
}

func (s *S3) Get(ctx context.Context, id int64) (Object, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return Object{}, s.mapError("get", id, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Object{}, fmt.Errorf("read object %d: %w", id, err)
	}
	name, err := objectName(out.Metadata)
	if err != nil {
		return Object{}, fmt.Errorf("object %d: %w", id, err)
	}
	return Object{Name: name, Data: data}, nil
}

// Delete removes id. S3 deletes are idempotent, so existence is checked
// first to report unknown ids.
func (s *S3) Delete(ctx context.Context, id int64) error {
	if _, err := s.Stat(ctx, id); err != nil {
		return err
	}
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("delete object %d: %w", id, err)
	}
	return nil
}

func (s *S3) key(id int64) string {
	return s.prefix + strconv.FormatInt(id, 10)
}

func (s *S3) nextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMicro()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *S3) mapError(op string, id int64, err error) error {
	var (
		notFound *types.NotFound
		noSuch   *types.NoSuchKey
	)
	if errors.As(err, &notFound) || errors.As(err, &noSuch) {
		return ErrNotFound
	}
	// S3-compatible backends may answer with an untyped API error.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey") {
		return ErrNotFound
	}
	return fmt.Errorf("%s object %d: %w", op, id, err)
}

func objectName(md map[string]string) (string, error) {
	raw, ok := md[nameKey]
	if !ok {
		return "", errors.New("missing file name metadata")
	}
	return url.PathUnescape(raw)
}
