package controllers

import (
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

// UploadFile nhận multipart "file", đẩy lên Supabase rồi lưu metadata.
// Nếu ghi DB thất bại sau khi blob đã lên, xóa blob best-effort rồi mới báo lỗi.
func UploadFile(c *gin.Context) {
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

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Chặn file quá giới hạn trước khi đẩy lên storage
	maxSize := utils.MaxUploadSize()
	if fileHeader.Size > maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("File size too large. Maximum size is %dMB.", maxSize/(1024*1024)),
		})
		return
	}

	objectKey := utils.BuildObjectKey(fileHeader.Filename)

	publicURL, err := utils.UploadFileToSupabase(fileHeader, objectKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading file", "details": err.Error()})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	file := models.File{
		Name:         fileHeader.Filename,
		StorageKey:   objectKey,
		URL:          publicURL,
		Size:         fileHeader.Size,
		MimeType:     mimeType,
		ResourceType: models.ResourceTypeFromMime(mimeType),
		UploadedBy:   user.ID,
		FolderID:     folder.ID,
	}

	if err := db.Create(&file).Error; err != nil {
		// Blob đã lên rồi, dọn lại cho sạch; dọn lỗi thì chỉ log
		if delErr := utils.DeleteFileFromSupabase(publicURL); delErr != nil {
			log.Printf("Không dọn được blob sau khi lưu metadata thất bại %s: %v", objectKey, delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving file"})
		return
	}

	message := fmt.Sprintf("New file \"%s\" uploaded in %s - %s", file.Name, folder.Course, folder.Branch)
	services.NotifyCohort(db, folder.Course, folder.Branch, user.ID,
		message, models.NotificationFileUpload, &folder.ID, &file.ID)
	ws.BroadcastFileUploaded(folder.Course, folder.Branch, folder.ID.String())

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file": gin.H{
			"id":        file.ID,
			"name":      file.Name,
			"url":       file.URL,
			"size":      file.Size,
			"mime_type": file.MimeType,
		},
	})
}

// DownloadFile redirect về URL blob đã lưu.
// Chủ ý không check cohort: file trong folder chia sẻ ai có id đều tải được.
func DownloadFile(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	var file models.File
	if err := db.First(&file, "id = ?", fileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.Redirect(http.StatusFound, file.URL)
}

// DeleteFile xóa file: chỉ người upload được xóa.
// Blob xóa best-effort, lỗi storage không chặn việc xóa metadata.
func DeleteFile(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	user, ok := currentUser(c, db)
	if !ok {
		return
	}

	fileID, err := uuid.Parse(c.Param("fileId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	var file models.File
	if err := db.First(&file, "id = ?", fileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if file.UploadedBy != user.ID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized to delete this file"})
		return
	}

	if err := utils.DeleteFileFromSupabase(file.URL); err != nil {
		log.Printf("Không xóa được blob %s: %v", file.StorageKey, err)
	}

	if err := db.Delete(&models.File{}, "id = ?", file.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
