package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInstitutionalEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"sinhvien@nsut.ac.in", true},
		{"a.b_c123@nsut.ac.in", true},
		{"someone@gmail.com", false},
		{"someone@nsut.ac.in.evil.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsInstitutionalEmail(tt.email), tt.email)
	}
}

func TestIsValidCourse(t *testing.T) {
	assert.True(t, IsValidCourse("B.Tech"))
	assert.True(t, IsValidCourse("Ph.D"))
	assert.False(t, IsValidCourse("B.Sc"))
	assert.False(t, IsValidCourse(""))
}

func TestIsValidBranch(t *testing.T) {
	tests := []struct {
		course string
		branch string
		want   bool
	}{
		{"B.Tech", "CSE", true},
		{"B.Tech", "MPAE", true},
		{"M.Tech", "CSE", true},
		{"M.Tech", "MPAE", false}, // chỉ có ở B.Tech
		{"MBA", "Finance", true},
		{"MBA", "CSE", false},
		{"Ph.D", "IT", true},
		{"B.Sc", "CSE", false}, // khóa không tồn tại
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidBranch(tt.course, tt.branch), tt.course+"/"+tt.branch)
	}
}

func TestResourceTypeFromMime(t *testing.T) {
	assert.Equal(t, "image", ResourceTypeFromMime("image/png"))
	assert.Equal(t, "video", ResourceTypeFromMime("video/mp4"))
	assert.Equal(t, "raw", ResourceTypeFromMime("application/pdf"))
	assert.Equal(t, "raw", ResourceTypeFromMime(""))
}
