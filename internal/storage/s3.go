package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Uploader sobe as fotos de perfil para um bucket S3 ou compatível
// (MinIO, R2). Com credenciais vazias o upload fica desligado e o job de
// fotos guarda só a URL do gateway.
type Uploader struct {
	client   *s3.Client
	bucket   string
	endpoint string
	region   string
}

func NewUploader(endpoint, region, bucket, accessKey, secretKey string) *Uploader {
	if bucket == "" || accessKey == "" {
		return nil
	}

	opts := s3.Options{
		Region: region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
		UsePathStyle: true,
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	}

	return &Uploader{
		client:   s3.New(opts),
		bucket:   bucket,
		endpoint: strings.TrimRight(endpoint, "/"),
		region:   region,
	}
}

func (u *Uploader) Enabled() bool {
	return u != nil && u.client != nil
}

// UploadProfilePicture sobe o webp e devolve a URL pública e a chave do objeto
func (u *Uploader) UploadProfilePicture(ctx context.Context, clienteID uint, data []byte) (string, string, error) {
	key := fmt.Sprintf("clientes/%d/perfil-%s.webp", clienteID, uuid.NewString())

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", "", fmt.Errorf("storage: upload da foto: %w", err)
	}

	return u.objectURL(key), key, nil
}

func (u *Uploader) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: remover objeto: %w", err)
	}
	return nil
}

func (u *Uploader) objectURL(key string) string {
	if u.endpoint != "" {
		// path-style nos endpoints compatíveis
		return fmt.Sprintf("%s/%s/%s", u.endpoint, u.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
