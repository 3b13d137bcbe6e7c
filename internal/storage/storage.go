package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNotFound возвращается, когда объекта по ключу нет в хранилище
var ErrNotFound = errors.New("storage: object not found")

// ErrInvalidKey - ключ пустой или выходит за пределы хранилища (../)
var ErrInvalidKey = errors.New("storage: invalid object key")

// Storage - хранилище файлов резюме. Ключи имеют вид "resumes/<uuid>.<ext>".
type Storage interface {
	// Save сохраняет содержимое reader по ключу key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get открывает объект на чтение. Вызывающий обязан закрыть reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)
}

// Config holds storage configuration
type Config struct {
	Type      string // local, s3, cloudflare_r2
	BasePath  string // For local storage
	Bucket    string // For S3/R2
	Region    string // For S3
	AccessKey string // For S3/R2
	SecretKey string // For S3/R2
	Endpoint  string // For R2 or custom S3
	UseSSL    bool   // For custom S3 endpoints
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// cleanKey нормализует ключ и запрещает выход за корень хранилища
func cleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}
