package models

import "time"

// ExportArtifact is the downloadable result of an account data export.
type ExportArtifact struct {
	Name        string
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}
