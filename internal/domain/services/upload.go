package services

import (
	"context"
	"io"

	"coursepanel/internal/domain/models"
)

// UploadedFile represents a file received from a multipart request
type UploadedFile struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// UploadService stores and removes uploaded images
type UploadService interface {
	// SaveImage validates and stores one image
	SaveImage(ctx context.Context, file UploadedFile) (*models.UploadedFile, error)

	// SaveImages stores several images; nothing is kept if any file is rejected
	SaveImages(ctx context.Context, files []UploadedFile) ([]models.UploadedFile, error)

	// DeleteImage removes a stored image by ID.
	// Returns domain.ErrNotFound if no file has that ID.
	DeleteImage(ctx context.Context, id string) error
}
