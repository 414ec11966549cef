package services

import "context"

// DatabaseStatus reports what the active store holds
type DatabaseStatus struct {
	Backend  string `json:"backend"`
	Users    int    `json:"users"`
	Courses  int    `json:"courses"`
	Chapters int    `json:"chapters"`
	Lessons  int    `json:"lessons"`
}

// DatabaseService runs administrative operations on the active store
type DatabaseService interface {
	// Reset wipes every entity and loads the seed fixtures
	Reset(ctx context.Context) (*DatabaseStatus, error)

	// Status reports entity counts
	Status(ctx context.Context) (*DatabaseStatus, error)
}
