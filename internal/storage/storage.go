package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage is the object store behind user-uploaded images.
type FileStorage interface {
	// GeneratePresignedUploadURL returns a URL accepting a single PUT of objectKey.
	// The uploader must send the same Content-Type header.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
	// PublicURL is the permanent address of objectKey, stored in image fields.
	PublicURL(objectKey string) string
}

// ImageKey builds a unique object key under the owner's prefix, keeping the file extension.
func ImageKey(ownerID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return path.Join("images", ownerID, fmt.Sprintf("%s%s", uuid.NewString(), ext))
}

func joinURL(base, objectKey string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(objectKey, "/")
}
