package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationFileUpload   = "file_upload"
	NotificationFileDelete   = "file_delete"
	NotificationFolderCreate = "folder_create"
	NotificationFolderDelete = "folder_delete"
)

type Notification struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"` // người nhận
	Message string    `gorm:"type:text;not null" json:"message"`
	Type    string    `gorm:"size:50;not null" json:"type"`
	IsRead  bool      `gorm:"default:false" json:"is_read"`

	FolderID *uuid.UUID `gorm:"type:uuid" json:"folder_id,omitempty"` // folder liên quan (nếu có)
	FileID   *uuid.UUID `gorm:"type:uuid" json:"file_id,omitempty"`   // file liên quan (nếu có)

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`

	User User `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
