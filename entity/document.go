package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Document struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string         `json:"title" gorm:"type:varchar(512);not null"`
	Description string         `json:"description" gorm:"type:text"`
	ContentType string         `json:"content_type" gorm:"type:varchar(255)"`
	Size        int64          `json:"size" gorm:"not null"`
	StorageKey  string         `json:"storage_key" gorm:"type:varchar(1024);not null"` // object key in MinIO, <uuid><ext>
	Metadata    datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedByID uuid.UUID      `json:"created_by_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	CreatedBy *User `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
}
