package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursepanel/internal/domain"
	"coursepanel/internal/domain/services"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

func upload(name string, data []byte) services.UploadedFile {
	return services.UploadedFile{Filename: name, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func newTestUploadService(t *testing.T, maxBytes int64) (services.UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	svc, err := NewUploadService(dir, maxBytes, testLogger())
	if err != nil {
		t.Fatalf("NewUploadService failed: %v", err)
	}
	return svc, dir
}

func TestUploadService_SaveImage(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantType string
		wantExt  string
	}{
		{name: "png", data: pngBytes, wantType: "image/png", wantExt: ".png"},
		{name: "gif", data: gifBytes, wantType: "image/gif", wantExt: ".gif"},
		{name: "jpeg", data: jpegBytes, wantType: "image/jpeg", wantExt: ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, dir := newTestUploadService(t, 0)

			// The client-supplied name never decides the stored extension
			saved, err := svc.SaveImage(context.Background(), upload("../cover.txt", tt.data))
			if err != nil {
				t.Fatalf("SaveImage failed: %v", err)
			}
			if saved.Mimetype != tt.wantType {
				t.Errorf("expected %s, got %s", tt.wantType, saved.Mimetype)
			}
			if saved.Filename != saved.ID+tt.wantExt {
				t.Errorf("expected filename %s%s, got %s", saved.ID, tt.wantExt, saved.Filename)
			}
			if saved.URL != "/uploads/"+saved.Filename || saved.OriginalName != "cover.txt" {
				t.Errorf("unexpected metadata: %+v", saved)
			}
			if _, err := os.Stat(filepath.Join(dir, saved.Filename)); err != nil {
				t.Errorf("expected stored file: %v", err)
			}
		})
	}
}

func TestUploadService_Rejects(t *testing.T) {
	svc, dir := newTestUploadService(t, 64)

	tests := []struct {
		name  string
		files []services.UploadedFile
	}{
		{name: "no files", files: nil},
		{name: "text file", files: []services.UploadedFile{upload("a.png", []byte("just some text"))}},
		{name: "too large", files: []services.UploadedFile{upload("big.png", append(pngBytes, make([]byte, 100)...))}},
		{name: "empty", files: []services.UploadedFile{upload("empty.png", nil)}},
		{name: "one bad file rejects batch", files: []services.UploadedFile{upload("ok.png", pngBytes), upload("bad.txt", []byte("text"))}},
		{name: "too many files", files: func() []services.UploadedFile {
			files := make([]services.UploadedFile, 11)
			for i := range files {
				files[i] = upload("x.gif", gifBytes)
			}
			return files
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SaveImages(context.Background(), tt.files); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no files written, found %d", len(entries))
	}
}

func TestUploadService_DeleteImage(t *testing.T) {
	ctx := context.Background()
	svc, dir := newTestUploadService(t, 0)

	saved, err := svc.SaveImages(ctx, []services.UploadedFile{upload("a.png", pngBytes), upload("b.gif", gifBytes)})
	if err != nil {
		t.Fatalf("SaveImages failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 files, got %d", len(saved))
	}

	if err := svc.DeleteImage(ctx, saved[0].ID); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, saved[0].Filename)); !os.IsNotExist(err) {
		t.Errorf("expected file removed, stat err=%v", err)
	}

	for _, id := range []string{saved[0].ID, "../../etc/passwd", strings.Repeat("a", 36)} {
		if err := svc.DeleteImage(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("DeleteImage(%q): expected ErrNotFound, got %v", id, err)
		}
	}
}
