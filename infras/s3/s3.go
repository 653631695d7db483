package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"campus/config"
	"campus/infras/otel"
	"campus/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
	region            = "auto"
)

// Object is an upload destined for the configured bucket.
type Object struct {
	Directory   string
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (o Object) Key() string {
	return path.Join(o.Directory, o.Name)
}

type S3 interface {
	Upload(ctx context.Context, object Object) (url string, err error)
	Delete(ctx context.Context, objectKey string) error
}

// objectAPI is the subset of *s3.Client in use, kept narrow for tests.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Impl struct {
	client objectAPI
	bucket string
	public string
	otel   otel.Otel
}

func (svc *s3Impl) Upload(ctx context.Context, object Object) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Upload")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := object.Key()

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    svc.bucket,
	})

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(svc.bucket),
		Key:           aws.String(key),
		Body:          object.Body,
		ContentType:   aws.String(object.ContentType),
		ContentLength: aws.Int64(object.Size),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(svc.public, "/"), key), nil
}

func (svc *s3Impl) Delete(ctx context.Context, objectKey string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    svc.bucket,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func New(config *config.Config, otel otel.Otel) S3 {
	s3Config := config.External.S3

	staticProvider := credentials.NewStaticCredentialsProvider(
		s3Config.AccessKeyID,
		s3Config.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
		awsConfig.WithRegion(region),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s3Config.APIEndpoint != constant.Empty {
			o.BaseEndpoint = aws.String(s3Config.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return NewWithClient(client, s3Config.BucketName, s3Config.PublicDomain, otel)
}

func NewWithClient(client objectAPI, bucket, publicDomain string, otel otel.Otel) S3 {
	return &s3Impl{
		client: client,
		bucket: bucket,
		public: publicDomain,
		otel:   otel,
	}
}
