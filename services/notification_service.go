package services

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/campus-share-backend/models"
	"github.com/vnkhanh/campus-share-backend/ws"
)

// CreateNotification lưu notification rồi đẩy realtime cho user.
// Lưu thất bại thì trả lỗi; đẩy realtime chỉ best-effort, không rollback.
func CreateNotification(db *gorm.DB, userID uuid.UUID, message, notifType string, folderID, fileID *uuid.UUID) (*models.Notification, error) {
	notif := models.Notification{
		UserID:   userID,
		Message:  message,
		Type:     notifType,
		FolderID: folderID,
		FileID:   fileID,
	}
	if err := db.Create(&notif).Error; err != nil {
		return nil, err
	}

	ws.SendNotification(userID.String(), notif)
	return &notif, nil
}

// NotifyCohort tạo notification cho mọi user cùng (course, branch), trừ người thực hiện
func NotifyCohort(db *gorm.DB, course, branch string, actorID uuid.UUID, message, notifType string, folderID, fileID *uuid.UUID) {
	var users []models.User
	if err := db.Where("course = ? AND branch = ? AND id <> ?", course, branch, actorID).Find(&users).Error; err != nil {
		log.Printf("Không lấy được danh sách cohort %s-%s: %v", course, branch, err)
		return
	}

	for _, u := range users {
		if _, err := CreateNotification(db, u.ID, message, notifType, folderID, fileID); err != nil {
			log.Printf("Không tạo được notification cho user %s: %v", u.ID, err)
		}
	}
}
