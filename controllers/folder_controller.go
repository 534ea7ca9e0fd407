package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/campus-share-backend/models"
	"github.com/vnkhanh/campus-share-backend/services"
	"github.com/vnkhanh/campus-share-backend/utils"
	"github.com/vnkhanh/campus-share-backend/ws"
)

type CreateFolderInput struct {
	Name           string  `json:"name" binding:"required"`
	ParentFolderID *string `json:"parent_folder_id"`
}

// CreateFolder tạo folder gốc hoặc subfolder.
// Thành viên cùng cohort được tạo subfolder trong folder của nhau,
// nhưng folder tạo ra vẫn thuộc về người tạo.
func CreateFolder(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	var input CreateFolderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path := input.Name
	var parentID *uuid.UUID

	if input.ParentFolderID != nil && *input.ParentFolderID != "" {
		pid, err := uuid.Parse(*input.ParentFolderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent folder ID"})
			return
		}

		var parent models.Folder
		if err := db.First(&parent, "id = ?", pid).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parent folder not found"})
			return
		}

		if !canAccess(parent.CreatedBy, parent.Course, parent.Branch, user) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to create folder here"})
			return
		}

		path = parent.Path + "/" + input.Name
		parentID = &pid
	}

	// Check trùng (name, course, branch, owner, parent) trước khi ghi
	dupQuery := db.Where("name = ? AND course = ? AND branch = ? AND created_by = ?",
		input.Name, user.Course, user.Branch, user.ID)
	if parentID == nil {
		dupQuery = dupQuery.Where("parent_id IS NULL")
	} else {
		dupQuery = dupQuery.Where("parent_id = ?", *parentID)
	}
	var existing models.Folder
	if err := dupQuery.First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Folder already exists"})
		return
	}

	folder := models.Folder{
		Name:      input.Name,
		Course:    user.Course,
		Branch:    user.Branch,
		CreatedBy: user.ID,
		ParentID:  parentID,
		Path:      path,
	}

	if err := db.Create(&folder).Error; err != nil {
		// Unique index xử lý race: người commit sau nhận Conflict
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Folder already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating folder"})
		return
	}

	// Báo cho cohort
	message := fmt.Sprintf("New folder \"%s\" created in %s - %s", folder.Name, folder.Course, folder.Branch)
	services.NotifyCohort(db, folder.Course, folder.Branch, user.ID,
		message, models.NotificationFolderCreate, &folder.ID, nil)
	ws.BroadcastFolderCreated(folder.Course, folder.Branch, folder)

	c.JSON(http.StatusCreated, folder)
}

// GetFolders liệt kê folder gốc: của mình hoặc cùng cohort, mới nhất trước
func GetFolders(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	var folders []models.Folder
	err := db.Where("parent_id IS NULL").
		Where("created_by = ? OR (course = ? AND branch = ?)", user.ID, user.Course, user.Branch).
		Order("created_at DESC").
		Preload("Creator").
		Find(&folders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting folders"})
		return
	}

	c.JSON(http.StatusOK, folders)
}

// GetFolderContents trả về folder, subfolder trực tiếp và file trực tiếp
func GetFolderContents(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}

	var folder models.Folder
	if err := db.Preload("Creator").First(&folder, "id = ?", folderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}

	if !canAccess(folder.CreatedBy, folder.Course, folder.Branch, user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to access this folder"})
		return
	}

	var subfolders []models.Folder
	if err := db.Where("parent_id = ?", folder.ID).
		Preload("Creator").
		Order("name ASC").
		Find(&subfolders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting folder contents"})
		return
	}

	var files []models.File
	if err := db.Where("folder_id = ?", folder.ID).
		Preload("Uploader").
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error getting folder contents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"current_folder": folder,
		"subfolders":     subfolders,
		"files":          files,
	})
}

// descendantFolderIDs tính closure con cháu bằng duyệt BFS theo parent_id.
// Duyệt bằng queue thay vì đệ quy để cây sâu không ăn call stack;
// visited chặn lặp vô hạn nếu dữ liệu parent bị hỏng thành vòng.
func descendantFolderIDs(db *gorm.DB, rootID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{rootID}
	visited := map[uuid.UUID]bool{rootID: true}
	queue := []uuid.UUID{rootID}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		var children []models.Folder
		if err := db.Select("id").Where("parent_id = ?", cur).Find(&children).Error; err != nil {
			return nil, err
		}
		for _, child := range children {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			ids = append(ids, child.ID)
			queue = append(queue, child.ID)
		}
	}
	return ids, nil
}

// DeleteFolder xóa folder và toàn bộ nội dung bên trong.
// Chỉ chủ sở hữu được xóa; cùng cohort chỉ có quyền đọc.
// Blob xóa best-effort: lỗi storage được log lại nhưng không chặn việc
// dọn metadata, user không phải chờ storage ổn định.
func DeleteFolder(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}

	var folder models.Folder
	if err := db.First(&folder, "id = ?", folderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}

	if folder.CreatedBy != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can delete this folder"})
		return
	}

	ids, err := descendantFolderIDs(db, folder.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting folder"})
		return
	}

	// Xóa file trong toàn bộ closure
	var files []models.File
	if err := db.Where("folder_id IN ?", ids).Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting folder"})
		return
	}
	for _, f := range files {
		if err := utils.DeleteFileFromSupabase(f.URL); err != nil {
			log.Printf("Không xóa được blob %s: %v", f.StorageKey, err)
		}
	}
	if len(files) > 0 {
		if err := db.Where("folder_id IN ?", ids).Delete(&models.File{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting folder"})
			return
		}
	}

	// Xóa toàn bộ folder trong closure một lượt
	if err := db.Where("id IN ?", ids).Delete(&models.Folder{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting folder"})
		return
	}

	message := fmt.Sprintf("Folder \"%s\" was deleted from %s - %s", folder.Name, folder.Course, folder.Branch)
	services.NotifyCohort(db, folder.Course, folder.Branch, user.ID,
		message, models.NotificationFolderDelete, nil, nil)
	ws.BroadcastFolderDeleted(folder.Course, folder.Branch, folder.ID.String())

	c.JSON(http.StatusOK, gin.H{"message": "Folder and contents deleted successfully"})
}
