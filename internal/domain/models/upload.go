package models

import "time"

// UploadedFile describes an image stored under the upload directory
type UploadedFile struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	Filename     string    `json:"filename"`
	Mimetype     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"createdAt"`
}
