package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"dir-syncer/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIO struct {
	MinIOClient *minio.Client
}

func NewMinIOConnection(s3Config config.S3Config) (*MinIO, error) {
	minioClient, err := minio.New(s3Config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s3Config.AccessKey, s3Config.SecretKey, ""),
		Secure: s3Config.SSL,
		Region: s3Config.Region,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("MinIO-Client erfolgreich initialisiert", "endpoint", s3Config.Endpoint)
	return &MinIO{MinIOClient: minioClient}, nil
}

func (m *MinIO) EnsureBucket(ctx context.Context, bucketName, region string) error {
	if m.MinIOClient == nil {
		return errors.New("MinIO client is not initialized")
	}

	exists, err := m.MinIOClient.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}

	if !exists {
		err = m.MinIOClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: region})
		if err != nil {
			return err
		}
		slog.Info("Bucket erfolgreich erstellt", "bucket", bucketName)
	}

	return nil
}

func (m *MinIO) UploadFile(ctx context.Context, filePath, bucketName, objectKey string) error {
	if m.MinIOClient == nil {
		return errors.New("MinIO client is not initialized")
	}

	info, err := m.MinIOClient.FPutObject(ctx, bucketName, objectKey, filePath,
		minio.PutObjectOptions{ContentType: contentTypeFor(objectKey)})
	if err != nil {
		return err
	}

	slog.Debug("Objekt hochgeladen", "key", objectKey, "größe", info.Size)
	return nil
}

func (m *MinIO) DownloadFile(ctx context.Context, bucketName, objectKey, filePath string) error {
	if m.MinIOClient == nil {
		return errors.New("MinIO client is not initialized")
	}
	return m.MinIOClient.FGetObject(ctx, bucketName, objectKey, filePath, minio.GetObjectOptions{})
}

// contentTypeFor bestimmt den Content-Type anhand der Dateierweiterung
func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// SanitizeBucketName normalises the first remote_dir segment to a valid bucket name
func SanitizeBucketName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, " ", "-")
	var result strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// objectKey joins the prefix and a manifest path; S3 keys always use "/".
func objectKey(prefix, file string) string {
	rel := strings.TrimPrefix(file, "./")
	if prefix == "" {
		return rel
	}
	return path.Join(prefix, rel)
}

// localPathForKey maps an object key below prefix to a path inside localDir.
// Keys that would escape localDir are rejected.
func localPathForKey(localDir, prefix, key string) (string, error) {
	rel := strings.TrimPrefix(key, prefix)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || strings.HasSuffix(key, "/") {
		return "", nil
	}
	target := filepath.Join(localDir, filepath.FromSlash(rel))
	within, err := filepath.Rel(localDir, target)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("objekt %s liegt außerhalb des Zielverzeichnisses", key)
	}
	return target, nil
}

// uploadS3 lädt alle Dateien aus localDir unter bucket/prefix hoch
func uploadS3(ctx context.Context, store *MinIO, s3Config config.S3Config, localDir string) error {
	bucket := SanitizeBucketName(s3Config.Bucket)
	if err := store.EnsureBucket(ctx, bucket, s3Config.Region); err != nil {
		return fmt.Errorf("fehler beim Sicherstellen des Buckets: %w", err)
	}

	manifest, err := BuildManifest(localDir)
	if err != nil {
		return err
	}

	for _, file := range manifest.Files {
		key := objectKey(s3Config.Prefix, file)
		src := filepath.Join(localDir, filepath.FromSlash(strings.TrimPrefix(file, "./")))
		if err := store.UploadFile(ctx, src, bucket, key); err != nil {
			return fmt.Errorf("fehler beim S3-Upload von %s: %w", file, err)
		}
		slog.Info("Datei hochgeladen", "datei", file, "bucket", bucket, "key", key)
	}

	return nil
}

// downloadS3 lädt alle Objekte unter bucket/prefix nach localDir
func downloadS3(ctx context.Context, store *MinIO, s3Config config.S3Config, localDir string) error {
	bucket := SanitizeBucketName(s3Config.Bucket)
	listPrefix := s3Config.Prefix
	if listPrefix != "" && !strings.HasSuffix(listPrefix, "/") {
		listPrefix += "/"
	}

	// Stops the listing goroutine when the loop returns early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := store.MinIOClient.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    listPrefix,
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return fmt.Errorf("fehler beim Auflisten von %s: %w", bucket, object.Err)
		}

		target, err := localPathForKey(localDir, listPrefix, object.Key)
		if err != nil {
			return err
		}
		if target == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("fehler beim Erstellen des Zielverzeichnisses: %w", err)
		}
		if err := store.DownloadFile(ctx, bucket, object.Key, target); err != nil {
			return fmt.Errorf("fehler beim S3-Download von %s: %w", object.Key, err)
		}
		slog.Info("Datei heruntergeladen", "bucket", bucket, "key", object.Key)
	}

	return nil
}
