package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/campus-share-backend/models"
)

// currentUser load user đang đăng nhập từ context; đã trả JSON lỗi nếu thất bại
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
		return nil, false
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

// canAccess: chủ sở hữu hoặc cùng (course, branch) thì được đọc/tạo bên trong.
// Dùng chung cho folder và file để tránh lặp điều kiện ở từng handler.
func canAccess(ownerID uuid.UUID, course, branch string, user *models.User) bool {
	if ownerID == user.ID {
		return true
	}
	return course == user.Course && branch == user.Branch
}
