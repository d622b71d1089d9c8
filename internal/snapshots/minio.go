package snapshots

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ArmaanM08/WikiDoCollab/internal/config"
)

// MinIOArchive mirrors version snapshots into object storage so external
// renderers (PDF/DOCX) can fetch them without going through Mongo.
type MinIOArchive struct {
	client *minio.Client
	bucket string
}

// NewMinIOArchive creates the archive client and ensures the bucket exists.
func NewMinIOArchive(cfg *config.MinIOConfig) (*MinIOArchive, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	a := &MinIOArchive{client: mc, bucket: cfg.Bucket}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, a.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return a, nil
}

func (a *MinIOArchive) key(versionID string) string {
	return "versions/" + versionID + ".html"
}

// PutSnapshot uploads a version snapshot under versions/<id>.html.
func (a *MinIOArchive) PutSnapshot(ctx context.Context, versionID string, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, a.key(versionID), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/html; charset=utf-8"})
	return err
}

// GetSnapshot returns a ReadCloser for an archived snapshot.
func (a *MinIOArchive) GetSnapshot(ctx context.Context, versionID string) (io.ReadCloser, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, a.key(versionID), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// stat to surface missing objects eagerly
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// PresignedURL returns a presigned GET URL for handing a snapshot to an
// external renderer.
func (a *MinIOArchive) PresignedURL(ctx context.Context, versionID string, expires time.Duration) (string, error) {
	presigned, err := a.client.PresignedGetObject(ctx, a.bucket, a.key(versionID), expires, nil)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
