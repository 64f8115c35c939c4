package main

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/mmautosoft/dealership_backend/config"
	"github.com/mmautosoft/dealership_backend/utils"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

const thumbnailWidth = 320

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

var documentMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
	"image/jpeg": true,
	"image/png":  true,
}

// saveUploadedFiles pushes the multipart "documents" and "photos" parts
// to blob storage and returns their public URLs. Photos additionally get
// a thumbnail rendered next to the original.
func saveUploadedFiles(c *gin.Context, storage *config.StorageConfig) (documents, photos []string, err error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, utils.ValidationErrorf("invalid multipart form")
	}
	if len(form.File["documents"]) == 0 && len(form.File["photos"]) == 0 {
		return nil, nil, nil
	}
	if storage == nil {
		return nil, nil, utils.ValidationErrorf("file storage is not configured")
	}

	for _, header := range form.File["documents"] {
		content, contentType, err := readUpload(header)
		if err != nil {
			return nil, nil, err
		}
		if !documentMimeTypes[contentType] {
			return nil, nil, utils.ValidationErrorf("unsupported document type %s", contentType)
		}
		url, err := storage.Blob.Upload(c.Request.Context(), storage.DocumentsFolder, header.Filename, content, contentType)
		if err != nil {
			return nil, nil, err
		}
		documents = append(documents, url)
	}

	for _, header := range form.File["photos"] {
		content, contentType, err := readUpload(header)
		if err != nil {
			return nil, nil, err
		}
		if !imageMimeTypes[contentType] {
			return nil, nil, utils.ValidationErrorf("unsupported image type %s", contentType)
		}
		url, err := storage.Blob.Upload(c.Request.Context(), storage.PhotosFolder, header.Filename, content, contentType)
		if err != nil {
			return nil, nil, err
		}
		// Thumbnail failures only cost the preview, not the upload.
		if thumb, terr := renderThumbnail(content); terr == nil {
			name := thumbnailName(header.Filename)
			if _, terr = storage.Blob.Upload(c.Request.Context(), storage.PhotosFolder, name, thumb, "image/jpeg"); terr != nil {
				config.LogError(config.GetLogger(), "uploads.go", "saveUploadedFiles", "thumbnail", nil, terr)
			}
		}
		photos = append(photos, url)
	}

	return documents, photos, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, string, error) {
	if header.Size > maxUploadSizeBytes {
		return nil, "", utils.ValidationErrorf("file %s exceeds the 5MB limit", header.Filename)
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSizeBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(content)) > maxUploadSizeBytes {
		return nil, "", utils.ValidationErrorf("file %s exceeds the 5MB limit", header.Filename)
	}
	return content, http.DetectContentType(content), nil
}

func renderThumbnail(content []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func thumbnailName(fileName string) string {
	ext := filepath.Ext(fileName)
	return strings.TrimSuffix(fileName, ext) + "_thumb.jpg"
}
