package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "configly/internal/errors"
	"configly/internal/models"
	"configly/internal/pagination"
	"configly/internal/storage"
)

const maxUploadSize = 10 << 20 // 10 MiB

// fileService handles client file uploads backed by blob storage.
type fileService struct {
	db    *gorm.DB
	store storage.Store
}

// NewFileService creates a new FileServicer.
func NewFileService(db *gorm.DB, store storage.Store) FileServicer {
	return &fileService{db: db, store: store}
}

// Upload stores the body under a client-scoped object key and records
// the file. The key embeds a UUID so uploads never collide on name.
func (s *fileService) Upload(ctx context.Context, clientID uint, fileName, contentType string, size int64, body io.Reader) (*models.File, error) {
	if fileName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "file name is required")
	}
	if size <= 0 || size > maxUploadSize {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "file size must be between 1 byte and 10 MiB")
	}

	objectKey := fmt.Sprintf("clients/%d/%s-%s", clientID, uuid.NewString(), sanitizeFileName(fileName))
	if err := s.store.Upload(ctx, objectKey, body, contentType); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	file := &models.File{
		ClientID:    clientID,
		FileName:    fileName,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Size:        size,
	}
	if err := s.db.Create(file).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return file, nil
}

// List returns the client's files, newest first.
func (s *fileService) List(clientID uint, page pagination.PageRequest) (*pagination.PageResponse[models.File], error) {
	page.Defaults()

	base := s.db.Model(&models.File{}).Where("client_id = ?", clientID)
	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var files []models.File
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(files, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// PresignedURL returns a time-limited download URL for a client's file.
func (s *fileService) PresignedURL(ctx context.Context, clientID, fileID uint) (string, error) {
	file, err := s.getOwned(clientID, fileID)
	if err != nil {
		return "", err
	}

	url, err := s.store.PresignGet(ctx, file.ObjectKey)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return url, nil
}

// Delete removes the object from storage and the record. The record is
// kept when the storage delete fails so the object stays discoverable.
func (s *fileService) Delete(ctx context.Context, clientID, fileID uint) error {
	file, err := s.getOwned(clientID, fileID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, file.ObjectKey); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(file).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *fileService) getOwned(clientID, fileID uint) (*models.File, error) {
	var file models.File
	err := s.db.Where("id = ? AND client_id = ?", fileID, clientID).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &file, nil
}

// sanitizeFileName keeps object keys flat and shell-safe.
func sanitizeFileName(name string) string {
	base := filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
}
