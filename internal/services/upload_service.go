package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/internal/storage"
	"jobportal_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// UploadService сохраняет и отдает файлы резюме
type UploadService interface {
	SaveResume(ctx context.Context, file *multipart.FileHeader) (*dto.StoredFile, error)
	OpenFile(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, key string) error
}

type UploadConfig struct {
	MaxFileSize int64
	// расширение -> допустимые MIME по содержимому
	AllowedResumeTypes map[string][]string
}

func GetDefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize: 5 * 1024 * 1024,
		AllowedResumeTypes: map[string][]string{
			".pdf": {"application/pdf"},
			// старый .doc - OLE-контейнер; не всегда распознается как msword
			".doc": {"application/msword", "application/x-ole-storage"},
			// .docx - zip; без [Content_Types].xml в начале определяется как zip
			".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
		},
	}
}

type uploadService struct {
	storage storage.Storage
	config  *UploadConfig
}

func NewUploadService(storage storage.Storage, config *UploadConfig) UploadService {
	if config == nil {
		config = GetDefaultUploadConfig()
	}
	if config.AllowedResumeTypes == nil {
		config.AllowedResumeTypes = GetDefaultUploadConfig().AllowedResumeTypes
	}
	return &uploadService{
		storage: storage,
		config:  config,
	}
}

func (s *uploadService) SaveResume(ctx context.Context, file *multipart.FileHeader) (*dto.StoredFile, error) {
	if file == nil {
		return nil, apperrors.NewBadRequestError("resume file is required")
	}
	if s.config.MaxFileSize > 0 && file.Size > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge.WithDetails(map[string]int64{"maxSize": s.config.MaxFileSize})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed, ok := s.config.AllowedResumeTypes[ext]
	if !ok {
		return nil, apperrors.ErrInvalidFileType
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	// Расширению не верим: проверяем сигнатуру содержимого
	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to detect file type: %w", err))
	}
	if !mimeAllowed(detected, allowed) {
		logger.CtxWarn(ctx, "Resume rejected by content type", "filename", file.Filename, "detected", detected.String())
		return nil, apperrors.ErrInvalidFileType
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperrors.InternalError(err)
	}

	key := fmt.Sprintf("resumes/%s%s", uuid.NewString(), ext)
	if err := s.storage.Save(ctx, key, src, detected.String()); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to save file to storage: %w", err))
	}

	logger.CtxInfo(ctx, "Resume stored", "key", key, "size", file.Size)
	return &dto.StoredFile{
		Key:         key,
		ContentType: detected.String(),
		Size:        file.Size,
	}, nil
}

func (s *uploadService) OpenFile(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, handleUploadError(err)
	}
	return rc, nil
}

func (s *uploadService) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return handleUploadError(err)
	}
	return nil
}

func mimeAllowed(detected *mimetype.MIME, allowed []string) bool {
	for _, m := range allowed {
		if detected.Is(m) {
			return true
		}
	}
	return false
}

func handleUploadError(err error) error {
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
		return apperrors.ErrResumeNotFound.WithError(err)
	}
	return apperrors.InternalError(err)
}
