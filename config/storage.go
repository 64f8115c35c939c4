package config

import (
	"context"

	"github.com/mmautosoft/dealership_backend/utils"
)

// StorageConfig carries the folder identifiers the upload handlers
// need. It is resolved once at startup and injected explicitly instead
// of living in module-level mutable variables.
type StorageConfig struct {
	Blob            *utils.BlobStorage
	DocumentsFolder string
	PhotosFolder    string
}

// InitStorage resolves the documents and photos folders. A missing
// GCS_BUCKET is not fatal: the API still serves record traffic and
// upload endpoints report the storage as unconfigured.
func InitStorage(ctx context.Context) (*StorageConfig, error) {
	blob, err := utils.NewBlobStorage()
	if err != nil {
		return nil, err
	}

	docs, err := blob.CreateOrGetFolder(ctx, "documents")
	if err != nil {
		return nil, err
	}
	photos, err := blob.CreateOrGetFolder(ctx, "photos")
	if err != nil {
		return nil, err
	}

	return &StorageConfig{
		Blob:            blob,
		DocumentsFolder: docs,
		PhotosFolder:    photos,
	}, nil
}
