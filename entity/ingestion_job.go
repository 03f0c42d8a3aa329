package entity

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of an ingestion job
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// IngestionJob represents one asynchronous ingestion attempt against a document
type IngestionJob struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	DocumentID  uuid.UUID  `json:"document_id" gorm:"type:uuid;not null;index"`
	StartedByID uuid.UUID  `json:"started_by_id" gorm:"type:uuid;not null;index"`
	Status      JobStatus  `json:"status" gorm:"type:varchar(16);not null;index"`
	StartedAt   time.Time  `json:"started_at" gorm:"not null;index"`
	CompletedAt *time.Time `json:"completed_at"`
	Output      *string    `json:"output" gorm:"type:text"`

	Document  *Document `json:"document,omitempty" gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
	StartedBy *User     `json:"started_by,omitempty" gorm:"foreignKey:StartedByID"`
}
