package models

import "gorm.io/gorm"

// Migrate chạy AutoMigrate cho toàn bộ models rồi tạo thêm các index
// mà struct tag không khai báo được.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Folder{},
		&File{},
		&Notification{},
	); err != nil {
		return err
	}

	// Index idx_folder_identity chứa parent_id nên không chặn được hai folder
	// gốc trùng nhau: NULL không so bằng NULL nên mỗi dòng parent_id NULL là
	// một giá trị riêng. Folder gốc cần partial index không có parent_id.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_folder_identity_root
		ON folders (name, course, branch, created_by)
		WHERE parent_id IS NULL`).Error
}
