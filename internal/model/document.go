package model

import "time"

// Document is the metadata record for a stored file. It is a pure domain
// model with no persistence tags, so it can cross layer boundaries (HTTP,
// service, storage) without coupling any of them to the database.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
