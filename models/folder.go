package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Folder struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:255;not null;uniqueIndex:idx_folder_identity" json:"name"`
	Course    string     `gorm:"size:20;not null;uniqueIndex:idx_folder_identity" json:"course"`
	Branch    string     `gorm:"size:20;not null;uniqueIndex:idx_folder_identity" json:"branch"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_folder_identity" json:"created_by"`
	Creator   User       `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE;" json:"creator,omitempty"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_folder_identity" json:"parent_folder_id,omitempty"` // null => folder gốc
	Path      string     `gorm:"type:text;not null;index" json:"path"`                                              // parent.path + "/" + name
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *Folder) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
