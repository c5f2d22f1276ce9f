package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/repository"
	"spartanfitness/api/internal/storage"
	"spartanfitness/api/internal/validation"
)

var (
	ErrUploadURLError   = errors.New("failed to generate upload URL")
	ErrDownloadURLError = errors.New("failed to generate download URL")
)

type ImageUploadCommand struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png image/webp image/gif"`
	Size        int64  `json:"size" validate:"gte=0,max=10485760"`
}

// UploadTicket tells the client where to PUT the file and which URL to store afterwards.
type UploadTicket struct {
	UploadID  domain.UploadID `json:"uploadId"`
	ObjectKey string          `json:"objectKey"`
	UploadURL string          `json:"uploadUrl"`
	PublicURL string          `json:"publicUrl"`
}

type UploadService interface {
	RequestImageUpload(ctx context.Context, caller Principal, cmd ImageUploadCommand) (*UploadTicket, error)
	ListMine(ctx context.Context, caller Principal) ([]domain.Upload, error)
	// DownloadURL returns a short-lived GET URL for one of the caller's uploads.
	DownloadURL(ctx context.Context, caller Principal, id domain.UploadID) (string, error)
	// Delete removes the object from storage, then its metadata.
	Delete(ctx context.Context, caller Principal, id domain.UploadID) error
}

type uploadService struct {
	uploadRepo  repository.UploadRepository
	fileStorage storage.FileStorage
	log         logrus.FieldLogger
}

func NewUploadService(uploadRepo repository.UploadRepository, fileStorage storage.FileStorage, log logrus.FieldLogger) UploadService {
	return &uploadService{uploadRepo: uploadRepo, fileStorage: fileStorage, log: log}
}

func (s *uploadService) RequestImageUpload(ctx context.Context, caller Principal, cmd ImageUploadCommand) (*UploadTicket, error) {
	if err := validation.Struct(cmd); err != nil {
		return nil, err
	}

	objectKey := storage.ImageKey(caller.UserID.String(), cmd.FileName)
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, cmd.ContentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		s.log.WithError(err).WithField("user_id", caller.UserID).Error("presign image upload")
		return nil, ErrUploadURLError
	}

	upload := domain.NewUpload(caller.UserID, objectKey, cmd.FileName, cmd.ContentType, cmd.Size)
	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		return nil, err
	}

	return &UploadTicket{
		UploadID:  upload.ID,
		ObjectKey: objectKey,
		UploadURL: uploadURL,
		PublicURL: s.fileStorage.PublicURL(objectKey),
	}, nil
}

func (s *uploadService) ListMine(ctx context.Context, caller Principal) ([]domain.Upload, error) {
	return s.uploadRepo.GetByOwnerID(ctx, caller.UserID)
}

// owned loads an upload, hiding other users' uploads behind not found.
func (s *uploadService) owned(ctx context.Context, caller Principal, id domain.UploadID) (*domain.Upload, error) {
	upload, err := s.uploadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrUploadNotFound)
	}
	if upload.OwnerID != caller.UserID && !caller.IsAdministrator() {
		return nil, domain.ErrUploadNotFound
	}
	return upload, nil
}

func (s *uploadService) DownloadURL(ctx context.Context, caller Principal, id domain.UploadID) (string, error) {
	upload, err := s.owned(ctx, caller, id)
	if err != nil {
		return "", err
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, upload.ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		s.log.WithError(err).WithField("upload_id", id).Error("presign image download")
		return "", ErrDownloadURLError
	}
	return url, nil
}

func (s *uploadService) Delete(ctx context.Context, caller Principal, id domain.UploadID) error {
	upload, err := s.owned(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.fileStorage.DeleteObject(ctx, upload.ObjectKey); err != nil {
		return fmt.Errorf("delete object %s: %w", upload.ObjectKey, err)
	}
	if err := s.uploadRepo.Delete(ctx, id); err != nil {
		return notFound(err, domain.ErrUploadNotFound)
	}
	s.log.WithFields(logrus.Fields{"upload_id": id, "owner_id": upload.OwnerID}).Info("upload deleted")
	return nil
}
