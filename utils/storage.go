package utils

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// BlobStorage wraps the document/photo blob store (GCS). Objects live
// under folder prefixes resolved once at startup; see config.InitStorage.
type BlobStorage struct {
	bucket string
}

const uploadTimeout = 30 * time.Second

func NewBlobStorage() (*BlobStorage, error) {
	bucket := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}
	return &BlobStorage{bucket: bucket}, nil
}

// getGoogleClient initializes a Google Cloud Storage client.
// Prefer ADC (service account / GOOGLE_APPLICATION_CREDENTIALS); explicit
// JSON may be supplied via GCS_CREDENTIALS_JSON for local runs.
func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

// CreateOrGetFolder makes sure the named folder prefix exists and
// returns its identifier. GCS has no real folders, so the marker object
// "<name>/.keep" stands in for one.
func (b *BlobStorage) CreateOrGetFolder(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	client, err := getGoogleClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	marker := client.Bucket(b.bucket).Object(name + "/.keep")
	if _, err := marker.Attrs(ctx); err == nil {
		return name, nil
	}
	wc := marker.NewWriter(ctx)
	wc.ContentType = "application/octet-stream"
	if _, err := wc.Write([]byte{}); err != nil {
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// Upload stores the content under the folder prefix and returns its
// public access URL. Transient failures get one retry.
func (b *BlobStorage) Upload(ctx context.Context, folderID, fileName string, content []byte, contentType string) (string, error) {
	objectKey := folderID + "/" + GenerateUniqueFilename() + "_" + fileName

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Second)
		}
		lastErr = b.writeObject(ctx, objectKey, content, contentType)
		if lastErr == nil {
			return BuildObjectAccessURL(objectKey), nil
		}
	}
	return "", fmt.Errorf("upload %s: %w", objectKey, lastErr)
}

func (b *BlobStorage) writeObject(ctx context.Context, objectKey string, content []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	client, err := getGoogleClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	wc := client.Bucket(b.bucket).Object(objectKey).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(content); err != nil {
		return err
	}
	return wc.Close()
}

// Delete removes the object behind a previously returned public URL.
// Unknown URLs are ignored rather than failed.
func (b *BlobStorage) Delete(ctx context.Context, publicURL string) error {
	objectKey := ExtractObjectKeyFromURL(publicURL)
	if objectKey == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	client, err := getGoogleClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	err = client.Bucket(b.bucket).Object(objectKey).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func BuildObjectAccessURL(objectKey string) string {
	base := strings.TrimSpace(os.Getenv("STORAGE_ACCESS_BASE_URL"))
	if base != "" {
		if strings.Contains(base, "{objectKey}") {
			escaped := objectKey
			if strings.Contains(base, "?") {
				escaped = url.QueryEscape(objectKey)
			}
			return strings.ReplaceAll(base, "{objectKey}", escaped)
		}
		return strings.TrimRight(base, "/") + "/" + objectKey
	}

	gcsBucket := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
	if gcsBucket != "" {
		return "https://storage.googleapis.com/" + gcsBucket + "/" + objectKey
	}

	return objectKey
}

func ExtractObjectKeyFromURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	// Raw object keys pass through untouched, path traversal excluded.
	if !strings.Contains(rawURL, "://") && !strings.HasPrefix(rawURL, "/") && strings.Contains(rawURL, "/") {
		if strings.Contains(rawURL, "..") {
			return ""
		}
		return rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(parsed.Path, "/")
	bucket := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
	if bucket != "" && strings.HasPrefix(path, bucket+"/") {
		return strings.TrimPrefix(path, bucket+"/")
	}
	return path
}
