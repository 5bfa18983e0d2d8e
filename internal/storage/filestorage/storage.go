package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"travkings/internal/storage"
)

const MaxImageSize = 5 * 1024 * 1024 // 5MB

// ImageKind определяет категорию загрузки: у каждой свой каталог и префикс имени
type ImageKind string

const (
	KindPackage ImageKind = "packages"
	KindBlog    ImageKind = "blogs"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// ImageStore интерфейс для работы с загруженными изображениями
type ImageStore interface {
	Save(ctx context.Context, file *multipart.FileHeader, kind ImageKind) (filename string, err error)
	Replace(ctx context.Context, file *multipart.FileHeader, kind ImageKind, oldFilename string) (string, error)
	Delete(ctx context.Context, kind ImageKind, filename string) error
	GetFullPath(kind ImageKind, filename string) string
	BaseDir() string
}

// LocalImageStore реализация для локальной файловой системы
type LocalImageStore struct {
	baseDir string // Базовый каталог для хранения (например: "./public")
	maxSize int64
}

func NewLocalImageStore(baseDir string, maxSize int64) (*LocalImageStore, error) {
	if maxSize <= 0 {
		maxSize = MaxImageSize
	}

	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalImageStore{
		baseDir: baseDir,
		maxSize: maxSize,
	}, nil
}

// ValidateImage проверяет размер, расширение и MIME-тип; все три проверки обязательны
func (s *LocalImageStore) ValidateImage(file *multipart.FileHeader) error {
	if file.Size > s.maxSize {
		return fmt.Errorf("%w: maximum allowed size is %dMB", storage.ErrFileTooLarge, s.maxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: allowed types: jpg, jpeg, png, webp", storage.ErrInvalidFileType)
	}

	if !allowedMimeTypes[file.Header.Get("Content-Type")] {
		return fmt.Errorf("%w: invalid mime type", storage.ErrInvalidFileType)
	}

	return nil
}

// generateFilename строит имя из префикса категории и метки времени высокого разрешения
func generateFilename(kind ImageKind, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}

	prefix := "thumbnail"
	if kind == KindBlog {
		prefix = "blog"
	}

	return fmt.Sprintf("%s_%d%s", prefix, time.Now().UnixNano(), ext)
}

func (s *LocalImageStore) Save(ctx context.Context, file *multipart.FileHeader, kind ImageKind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := s.ValidateImage(file); err != nil {
		return "", err
	}

	dir := filepath.Join(s.baseDir, string(kind))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	filename := generateFilename(kind, file.Filename)
	filePath := filepath.Join(dir, filename)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var copyErr error

	go func() {
		_, copyErr = io.Copy(dst, src)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return "", fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(filePath)
		return "", ctx.Err()
	}

	return filename, nil
}

// Replace сначала записывает новый файл, затем удаляет старый —
// только если сгенерированное имя отличается.
func (s *LocalImageStore) Replace(ctx context.Context, file *multipart.FileHeader, kind ImageKind, oldFilename string) (string, error) {
	filename, err := s.Save(ctx, file, kind)
	if err != nil {
		return "", err
	}

	if oldFilename != "" && oldFilename != filename {
		_ = s.Delete(ctx, kind, oldFilename)
	}

	return filename, nil
}

// Delete удаляет файл; отсутствие файла не является ошибкой
func (s *LocalImageStore) Delete(_ context.Context, kind ImageKind, filename string) error {
	if filename == "" {
		return nil
	}

	fullPath := filepath.Join(s.baseDir, string(kind), filename)

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// GetFullPath возвращает полный путь к файлу на диске
func (s *LocalImageStore) GetFullPath(kind ImageKind, filename string) string {
	return filepath.Join(s.baseDir, string(kind), filename)
}

func (s *LocalImageStore) BaseDir() string {
	return s.baseDir
}
