package staging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/LilVoxy/tourism_etl/ETL/config"
)

// S3Store хранит файлы staging-области в бакете S3 или S3-совместимом хранилище
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store создает хранилище поверх готового клиента
func NewS3Store(client *s3.Client, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// NewS3Client создает клиент S3 по настройкам staging-области
func NewS3Client(ctx context.Context, c config.StagingConfig) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации AWS: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.ForcePathStyle
	}), nil
}

// List возвращает ключи объектов с префиксом prefix
func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ошибка листинга s3://%s/%s: %w", s.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Get открывает объект по ключу
func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, os.ErrNotExist
		}
		return nil, err
	}
	return output.Body, nil
}

// Put загружает объект
func (s *S3Store) Put(ctx context.Context, key string, data []byte) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentLength: aws.Int64(reader.Size()),
	})
	if err != nil {
		return fmt.Errorf("ошибка загрузки s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// OpenStores создает хранилища для данных API и ручного ввода.
// Для backend fs бакеты отображаются в подкаталоги Root.
func OpenStores(ctx context.Context, c config.StagingConfig) (api BlobStore, manual BlobStore, err error) {
	switch c.Backend {
	case "s3":
		client, err := NewS3Client(ctx, c)
		if err != nil {
			return nil, nil, err
		}
		return NewS3Store(client, c.APIBucket), NewS3Store(client, c.ManualBucket), nil
	case "fs", "":
		return NewFSStore(filepath.Join(c.Root, c.APIBucket)), NewFSStore(filepath.Join(c.Root, c.ManualBucket)), nil
	default:
		return nil, nil, fmt.Errorf("неизвестный backend staging-области: %q", c.Backend)
	}
}
