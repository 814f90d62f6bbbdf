// Package storage guarda la evidencia fotográfica de recepciones en un bucket MinIO / S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/sucursales-api/internal/application/transfer"
	"github.com/jhoicas/sucursales-api/pkg/config"
	"github.com/jhoicas/sucursales-api/pkg/logger"
)

var _ transfer.PhotoStore = (*MinioPhotoStore)(nil)

// MinioPhotoStore implementa transfer.PhotoStore.
type MinioPhotoStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *logger.Logger
}

// NewMinioPhotoStore crea el cliente y asegura que el bucket exista.
func NewMinioPhotoStore(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*MinioPhotoStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: crear cliente: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: verificar bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio: crear bucket %s: %w", cfg.Bucket, err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("bucket de evidencias creado")
	}

	return &MinioPhotoStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: PublicBaseURL(cfg),
		log:       log.Component("storage"),
	}, nil
}

// PutPhoto sube el objeto y devuelve su URL pública.
func (s *MinioPhotoStore) PutPhoto(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio: subir %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Int64("size", info.Size).Msg("foto de recepción almacenada")
	return ObjectURL(s.publicURL, s.bucket, key), nil
}

// RemovePhoto elimina el objeto. Borrar una clave inexistente no es error.
func (s *MinioPhotoStore) RemovePhoto(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio: borrar %s: %w", key, err)
	}
	return nil
}

// PublicBaseURL base para URLs públicas: MINIO_PUBLIC_URL o, si falta, el propio endpoint.
func PublicBaseURL(cfg config.StorageConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint
}

// ObjectURL arma la URL path-style del objeto escapando cada segmento de la clave.
func ObjectURL(base, bucket, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return base + "/" + url.PathEscape(bucket) + "/" + strings.Join(parts, "/")
}
