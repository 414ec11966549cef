package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"coursepanel/internal/config"
	"coursepanel/internal/domain"
	"coursepanel/internal/domain/models"
	"coursepanel/internal/domain/services"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// uploadURLPrefix is where the server exposes the upload directory
const uploadURLPrefix = "/uploads/"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// uploadService implements the UploadService interface on the local filesystem
type uploadService struct {
	dir      string
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadService creates an upload service storing files under dir.
// maxBytes <= 0 falls back to config.MaxUploadSize.
func NewUploadService(dir string, maxBytes int64, logger *slog.Logger) (services.UploadService, error) {
	if maxBytes <= 0 {
		maxBytes = config.MaxUploadSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &uploadService{
		dir:      dir,
		maxBytes: maxBytes,
		logger:   logger,
	}, nil
}

// pendingImage is a validated image not yet written to disk
type pendingImage struct {
	meta models.UploadedFile
	data []byte
}

// SaveImage validates and stores one image
func (s *uploadService) SaveImage(ctx context.Context, file services.UploadedFile) (*models.UploadedFile, error) {
	saved, err := s.SaveImages(ctx, []services.UploadedFile{file})
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

// SaveImages validates every file before writing any of them.
// If a write fails, files already written by this call are removed.
func (s *uploadService) SaveImages(ctx context.Context, files []services.UploadedFile) ([]models.UploadedFile, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files uploaded", domain.ErrValidation)
	}
	if len(files) > config.MaxUploadFiles {
		return nil, fmt.Errorf("%w: at most %d files per upload", domain.ErrValidation, config.MaxUploadFiles)
	}

	pending := make([]pendingImage, 0, len(files))
	for _, file := range files {
		img, err := s.prepare(file)
		if err != nil {
			return nil, err
		}
		pending = append(pending, img)
	}

	saved := make([]models.UploadedFile, 0, len(pending))
	for _, img := range pending {
		if err := ctx.Err(); err != nil {
			s.removeAll(saved)
			return nil, err
		}
		path := filepath.Join(s.dir, img.meta.Filename)
		if err := os.WriteFile(path, img.data, 0o644); err != nil {
			s.removeAll(saved)
			return nil, fmt.Errorf("write upload: %w", err)
		}
		saved = append(saved, img.meta)
	}

	for _, f := range saved {
		s.logger.Info("image uploaded",
			"id", f.ID,
			"original_name", f.OriginalName,
			"mimetype", f.Mimetype,
			"size", f.Size,
		)
	}

	return saved, nil
}

// DeleteImage removes the stored file with the given ID
func (s *uploadService) DeleteImage(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return fmt.Errorf("image %s: %w", id, domain.ErrNotFound)
	}

	matches, err := filepath.Glob(filepath.Join(s.dir, id+".*"))
	if err != nil {
		return fmt.Errorf("find upload: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("image %s: %w", id, domain.ErrNotFound)
	}

	for _, path := range matches {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove upload: %w", err)
		}
	}

	s.logger.Info("image deleted", "id", id)
	return nil
}

// prepare reads one file, enforcing the size limit and sniffing its content type
func (s *uploadService) prepare(file services.UploadedFile) (pendingImage, error) {
	if file.Size > s.maxBytes {
		return pendingImage{}, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrValidation, file.Filename, s.maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(file.Content, s.maxBytes+1))
	if err != nil {
		return pendingImage{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return pendingImage{}, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrValidation, file.Filename, s.maxBytes)
	}
	if len(data) == 0 {
		return pendingImage{}, fmt.Errorf("%w: %s is empty", domain.ErrValidation, file.Filename)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return pendingImage{}, fmt.Errorf("%w: unsupported file type %s", domain.ErrValidation, mtype.String())
	}

	id := uuid.New().String()
	filename := id + mtype.Extension()

	return pendingImage{
		meta: models.UploadedFile{
			ID:           id,
			OriginalName: filepath.Base(file.Filename),
			Filename:     filename,
			Mimetype:     mtype.String(),
			Size:         int64(len(data)),
			URL:          uploadURLPrefix + filename,
			CreatedAt:    time.Now().UTC(),
		},
		data: data,
	}, nil
}

func (s *uploadService) removeAll(files []models.UploadedFile) {
	for _, f := range files {
		if err := os.Remove(filepath.Join(s.dir, f.Filename)); err != nil {
			s.logger.Warn("failed to remove partial upload", "filename", f.Filename, "error", err)
		}
	}
}
