package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type File struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"` // tên file gốc khi upload
	StorageKey   string    `gorm:"size:500;not null" json:"storage_key"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	Size         int64     `gorm:"not null" json:"size"` // bytes
	MimeType     string    `gorm:"size:100" json:"mime_type"`
	ResourceType string    `gorm:"size:20;default:'raw'" json:"resource_type"` // image|video|raw
	UploadedBy   uuid.UUID `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	Uploader     User      `gorm:"foreignKey:UploadedBy;constraint:OnDelete:CASCADE;" json:"uploader,omitempty"`
	FolderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"folder_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// ResourceTypeFromMime suy ra loại tài nguyên lưu trữ từ MIME type
func ResourceTypeFromMime(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case strings.HasPrefix(mimeType, "video/"):
		return "video"
	default:
		return "raw"
	}
}
