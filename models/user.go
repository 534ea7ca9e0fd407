package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Danh mục khóa học và các ngành hợp lệ theo từng khóa
var BranchesPerCourse = map[string][]string{
	"B.Tech": {"CSE", "IT", "ECE", "EEE", "MAE", "ICE", "MPAE", "BT"},
	"M.Tech": {"CSE", "IT", "ECE", "EEE", "MAE"},
	"MBA":    {"General", "Finance", "Marketing"},
	"BBA":    {"General", "Finance", "Marketing"},
	"Ph.D":   {"CSE", "IT", "ECE", "EEE", "MAE"},
}

// Chỉ chấp nhận email sinh viên của trường
var institutionalEmailRegex = regexp.MustCompile(`@nsut\.ac\.in$`)

func IsInstitutionalEmail(email string) bool {
	return institutionalEmailRegex.MatchString(email)
}

func IsValidCourse(course string) bool {
	_, ok := BranchesPerCourse[course]
	return ok
}

// IsValidBranch kiểm tra ngành có thuộc khóa học đã chọn không
func IsValidBranch(course, branch string) bool {
	for _, b := range BranchesPerCourse[course] {
		if b == branch {
			return true
		}
	}
	return false
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Course    string    `gorm:"size:20;not null" json:"course"`
	Branch    string    `gorm:"size:20;not null" json:"branch"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Quan hệ
	Folders []Folder `gorm:"foreignKey:CreatedBy" json:"folders,omitempty"`
	Files   []File   `gorm:"foreignKey:UploadedBy" json:"files,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
