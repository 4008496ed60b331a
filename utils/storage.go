package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/edoctorat/backend/config"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

func NewGCSClient(ctx context.Context, cfg config.Config) (*storage.Client, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return storage.NewClient(ctx,
		option.WithAuthCredentialsFile(option.ServiceAccount, filepath.Join(wd, cfg.CredentialsFile)))
}

// UploadProfilePhoto stores a profile photo under profils/<ownerSlug>/ and
// returns its public URL.
func UploadProfilePhoto(
	ctx context.Context,
	client *storage.Client,
	bucketName string,
	ownerSlug string,
	fileHeader *multipart.FileHeader,
	contentType string,
) (string, error) {

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".bin"
	}

	objectName := fmt.Sprintf(
		"profils/%s/%d-%s%s",
		ownerSlug,
		time.Now().UTC().Unix(),
		uuid.New().String(),
		ext,
	)

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "no-cache"

	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("upload copy: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("upload close: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName), nil
}

// DeleteGCSObject removes a stored object, used when a photo is replaced.
func DeleteGCSObject(ctx context.Context, client *storage.Client, bucket string, objectName string) error {
	if objectName == "" {
		return nil
	}
	if err := client.Bucket(bucket).Object(objectName).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", objectName, err)
	}
	return nil
}
