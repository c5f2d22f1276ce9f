package domain

import "time"

// Upload stores metadata about an image a user pushed to object storage.
// The file itself lives in S3; ObjectKey is its path inside the bucket.
type Upload struct {
	ID          UploadID  `bson:"_id" json:"id"`
	OwnerID     UserID    `bson:"ownerId" json:"ownerId"`
	ObjectKey   string    `bson:"objectKey" json:"objectKey"`
	FileName    string    `bson:"fileName" json:"fileName"`
	ContentType string    `bson:"contentType" json:"contentType"`
	Size        int64     `bson:"size" json:"size"`
	UploadedAt  time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

func NewUpload(ownerID UserID, objectKey, fileName, contentType string, size int64) *Upload {
	return &Upload{
		ID:          NewID[UploadKind](),
		OwnerID:     ownerID,
		ObjectKey:   objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		UploadedAt:  time.Now().UTC(),
	}
}
