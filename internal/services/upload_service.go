package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"markethub_backend/internal/config"
	"markethub_backend/internal/logger"
	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/services/dto"
	"markethub_backend/internal/storage"
	"markethub_backend/pkg/apperrors"
)

const uploadDomain = "upload"

// UploadInput carries one file from a multipart request.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type UploadService interface {
	Upload(ctx context.Context, db *gorm.DB, actorID, entityType string, input UploadInput) (*dto.UploadedImage, error)
	UploadBatch(ctx context.Context, db *gorm.DB, actorID, entityType string, inputs []UploadInput) (*dto.BatchUploadResponse, error)
	// ListOrphans returns pending images older than the retention window.
	ListOrphans(db *gorm.DB) ([]models.PendingImage, error)
}

type uploadService struct {
	uploadRepo repositories.UploadRepository
	store      storage.Storage
	cfg        *config.Config
}

func NewUploadService(uploadRepo repositories.UploadRepository, store storage.Storage, cfg *config.Config) UploadService {
	return &uploadService{
		uploadRepo: uploadRepo,
		store:      store,
		cfg:        cfg,
	}
}

var extensionByType = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
}

func (s *uploadService) validate(entityType string, input UploadInput) error {
	if entityType == "" {
		return apperrors.ErrBadRequest(uploadDomain, "entity_type is required")
	}
	if input.Size > s.cfg.Upload.MaxSize {
		return apperrors.ErrBadRequest(uploadDomain,
			fmt.Sprintf("file exceeds the maximum size of %d bytes", s.cfg.Upload.MaxSize))
	}
	contentType := strings.ToLower(input.ContentType)
	for _, allowed := range s.cfg.Upload.AllowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return apperrors.ErrBadRequest(uploadDomain,
		fmt.Sprintf("unsupported content type %q", input.ContentType))
}

func (s *uploadService) objectKey(entityType, contentType, filename string) string {
	ext := extensionByType[strings.ToLower(contentType)]
	if ext == "" {
		ext = strings.TrimPrefix(filepath.Ext(filename), ".")
	}
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%s.%s", entityType, uuid.NewString(), ext)
}

func (s *uploadService) Upload(ctx context.Context, db *gorm.DB, actorID, entityType string, input UploadInput) (*dto.UploadedImage, error) {
	if err := s.validate(entityType, input); err != nil {
		return nil, err
	}

	key := s.objectKey(entityType, input.ContentType, input.Filename)
	if err := s.store.Save(ctx, key, input.Reader, input.ContentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.store.GetURL(ctx, key)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	pending := &models.PendingImage{
		UserID:   actorID,
		ImageURL: url,
		S3Key:    key,
	}
	if err := s.uploadRepo.CreatePending(db, pending); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "image uploaded", "key", key, "entity_type", entityType)

	return &dto.UploadedImage{URL: url, Key: key}, nil
}

func (s *uploadService) UploadBatch(ctx context.Context, db *gorm.DB, actorID, entityType string, inputs []UploadInput) (*dto.BatchUploadResponse, error) {
	if len(inputs) == 0 {
		return nil, apperrors.ErrBadRequest(uploadDomain, "no files provided")
	}
	if len(inputs) > s.cfg.Upload.MaxBatch {
		return nil, apperrors.ErrBadRequest(uploadDomain,
			fmt.Sprintf("at most %d files per batch", s.cfg.Upload.MaxBatch))
	}
	for _, input := range inputs {
		if err := s.validate(entityType, input); err != nil {
			return nil, err
		}
	}

	resp := &dto.BatchUploadResponse{Images: make([]dto.UploadedImage, 0, len(inputs))}
	for _, input := range inputs {
		uploaded, err := s.Upload(ctx, db, actorID, entityType, input)
		if err != nil {
			return nil, err
		}
		resp.Images = append(resp.Images, *uploaded)
	}
	return resp, nil
}

func (s *uploadService) ListOrphans(db *gorm.DB) ([]models.PendingImage, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(s.cfg.Upload.RetentionH) * time.Hour)
	return s.uploadRepo.FindOrphaned(db, cutoff)
}
