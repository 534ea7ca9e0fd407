package controllers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnkhanh/campus-share-backend/models"
	"github.com/vnkhanh/campus-share-backend/utils"
)

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Course   string `json:"course" binding:"required"`
	Branch   string `json:"branch" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ====== HANDLERS ======
func Register(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Chỉ nhận email của trường
	if !models.IsInstitutionalEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Email must be a valid NSUT email address (@nsut.ac.in)",
		})
		return
	}

	// Khóa học / ngành phải nằm trong danh mục
	if !models.IsValidCourse(input.Course) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid course selection"})
		return
	}
	if !models.IsValidBranch(input.Course, input.Branch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch for the selected course"})
		return
	}

	// Check email tồn tại
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A user with this email address already exists"})
		return
	}

	// Hash password
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể mã hoá mật khẩu"})
		return
	}

	newUser := models.User{
		Email:    email,
		Password: string(hashed),
		Course:   input.Course,
		Branch:   input.Branch,
	}

	if err := db.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tạo người dùng"})
		return
	}

	token, err := utils.GenerateToken(newUser.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":     newUser.ID,
			"email":  newUser.Email,
			"course": newUser.Course,
			"branch": newUser.Branch,
		},
	})
}

func Login(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Không phân biệt "sai email" và "sai mật khẩu" khi trả lỗi
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":     user.ID,
			"email":  user.Email,
			"course": user.Course,
			"branch": user.Branch,
		},
	})
}

// GetMe trả về profile của user đang đăng nhập
func GetMe(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	user, ok := currentUser(c, db)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteAccount xóa tài khoản: cascade toàn bộ subtree dưới folder user sở
// hữu (kể cả subfolder người khác tạo trong đó, kèm file bên trong), file
// user đã upload ở nơi khác, notification, rồi mới xóa user.
// Xóa blob chỉ best-effort, lỗi storage không chặn việc dọn metadata.
func DeleteAccount(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	// Folder user sở hữu (mọi cấp, vì subfolder cũng có created_by)
	var folders []models.Folder
	if err := db.Where("created_by = ?", user.ID).Find(&folders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
		return
	}

	// Gom cả subtree dưới mỗi folder sở hữu: subfolder do người cùng cohort
	// tạo bên trong cũng đi theo, không để lại parent_id treo lơ lửng
	idSet := map[uuid.UUID]bool{}
	for _, folder := range folders {
		ids, err := descendantFolderIDs(db, folder.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
			return
		}
		for _, id := range ids {
			idSet[id] = true
		}
	}

	if len(idSet) > 0 {
		ids := make([]uuid.UUID, 0, len(idSet))
		for id := range idSet {
			ids = append(ids, id)
		}

		var files []models.File
		if err := db.Where("folder_id IN ?", ids).Find(&files).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
			return
		}
		for _, f := range files {
			if err := utils.DeleteFileFromSupabase(f.URL); err != nil {
				log.Printf("Không xóa được blob %s: %v", f.StorageKey, err)
			}
		}
		if len(files) > 0 {
			if err := db.Where("folder_id IN ?", ids).Delete(&models.File{}).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
				return
			}
		}
		if err := db.Where("id IN ?", ids).Delete(&models.Folder{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
			return
		}
	}

	// File user upload vào folder của người khác
	var uploaded []models.File
	if err := db.Where("uploaded_by = ?", user.ID).Find(&uploaded).Error; err == nil {
		for _, f := range uploaded {
			if err := utils.DeleteFileFromSupabase(f.URL); err != nil {
				log.Printf("Không xóa được blob %s: %v", f.StorageKey, err)
			}
		}
	}
	if err := db.Where("uploaded_by = ?", user.ID).Delete(&models.File{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
		return
	}

	// Notification của user
	if err := db.Where("user_id = ?", user.ID).Delete(&models.Notification{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
		return
	}

	if err := db.Delete(&models.User{}, "id = ?", user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
		return
	}

	log.Printf("Đã xóa tài khoản %s cùng %d folder", user.Email, len(folders))
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
