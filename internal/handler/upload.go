package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"coursepanel/internal/config"
	"coursepanel/internal/domain"
	"coursepanel/internal/domain/services"
	"coursepanel/internal/httputil"
)

// multipartMemory is how much of a multipart body is held in memory before spilling to disk
const multipartMemory = 8 << 20

// UploadHandler handles image uploads
type UploadHandler struct {
	uploadService services.UploadService
	maxBytes      int64
	logger        *slog.Logger
}

// NewUploadHandler creates a new upload handler. maxBytes is the per-file limit.
func NewUploadHandler(uploadService services.UploadService, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxBytes:      maxBytes,
		logger:        logger,
	}
}

type uploadResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type deleteUploadResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// UploadImage stores a single image from the "file" form field
// POST /api/upload/image
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r, 1); err != nil {
		handleError(w, err)
		return
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		handleError(w, fmt.Errorf("%w: no file uploaded", domain.ErrValidation))
		return
	}

	files, closeAll, err := openParts(headers[:1])
	if err != nil {
		handleError(w, err)
		return
	}
	defer closeAll()

	saved, err := h.uploadService.SaveImage(r.Context(), files[0])
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, uploadResponse{Message: "file uploaded", Data: saved})
}

// UploadImages stores up to MaxUploadFiles images from the "files" form field
// POST /api/upload/images
func (h *UploadHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r, config.MaxUploadFiles); err != nil {
		handleError(w, err)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		handleError(w, fmt.Errorf("%w: no files uploaded", domain.ErrValidation))
		return
	}

	files, closeAll, err := openParts(headers)
	if err != nil {
		handleError(w, err)
		return
	}
	defer closeAll()

	saved, err := h.uploadService.SaveImages(r.Context(), files)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, uploadResponse{Message: "files uploaded", Data: saved})
}

// DeleteImage removes a stored image
// DELETE /api/upload/images/:id
func (h *UploadHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.uploadService.DeleteImage(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, deleteUploadResponse{Message: "file deleted", ID: id})
}

// parseForm bounds the body to maxFiles files plus form overhead and parses it
func (h *UploadHandler) parseForm(w http.ResponseWriter, r *http.Request, maxFiles int) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxFiles)*h.maxBytes+(1<<20))

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: upload exceeds %d bytes", domain.ErrValidation, tooLarge.Limit)
		}
		return fmt.Errorf("%w: invalid multipart form: %v", domain.ErrValidation, err)
	}
	return nil
}

// openParts opens every part. The returned func closes whatever was opened.
func openParts(headers []*multipart.FileHeader) ([]services.UploadedFile, func(), error) {
	files := make([]services.UploadedFile, 0, len(headers))
	closers := make([]io.Closer, 0, len(headers))
	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		closers = append(closers, f)
		files = append(files, services.UploadedFile{
			Filename: fh.Filename,
			Size:     fh.Size,
			Content:  f,
		})
	}
	return files, closeAll, nil
}
