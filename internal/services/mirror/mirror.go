package mirror

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/princekumarofficial/upload-service/internal/config"
	"github.com/princekumarofficial/upload-service/internal/upload"
)

const objectPrefix = "uploads/"

// objectPutter is the part of the MinIO client the mirror needs.
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Service copies stored uploads into an object bucket.
type Service struct {
	client     objectPutter
	bucketName string
}

// NewService connects to MinIO and makes sure the bucket exists
func NewService(ctx context.Context, cfg *config.MinIO) (*Service, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	if err := ensureBucket(ctx, client, cfg.BucketName); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return &Service{client: client, bucketName: cfg.BucketName}, nil
}

// ensureBucket creates the bucket if it doesn't exist
func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// ObjectKey returns the key a stored file is mirrored under.
func ObjectKey(fileName string) string {
	return objectPrefix + path.Base("/"+fileName)
}

// Observe mirrors the file behind a stored outcome. Other outcomes are ignored.
func (s *Service) Observe(ctx context.Context, attempt *upload.Attempt, outcome *upload.Outcome) error {
	if outcome.Kind != upload.OutcomeStored {
		return nil
	}

	f, err := os.Open(outcome.Path)
	if err != nil {
		return fmt.Errorf("failed to open stored file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat stored file: %w", err)
	}

	key := ObjectKey(attempt.OriginalFileName)
	_, err = s.client.PutObject(ctx, s.bucketName, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: attempt.DeclaredMediaType,
		UserMetadata: map[string]string{
			"request-id":  attempt.Origin.RequestID,
			"client-addr": attempt.Origin.ClientAddr,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to mirror %s: %w", key, err)
	}

	slog.Info("Mirrored upload", slog.String("bucket", s.bucketName), slog.String("key", key))
	return nil
}
