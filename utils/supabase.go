package utils

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	storage "github.com/supabase-community/storage-go"
)

// MaxUploadSize đọc giới hạn dung lượng upload từ ENV (bytes), mặc định 100MB
func MaxUploadSize() int64 {
	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return 100 * 1024 * 1024
}

// storageTimeout đọc giới hạn thời gian cho một lần gọi storage từ ENV
// (giây), mặc định 10 phút. Áp cho cả upload lẫn delete.
func storageTimeout() time.Duration {
	if v := os.Getenv("STORAGE_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return 10 * time.Minute
}

// BuildObjectKey sinh key duy nhất cho object: <unix-ms>-<tên đã slug><ext>.
// Dùng mili giây + tên gốc nên trùng key chỉ xảy ra khi upload cùng tên
// trong cùng một mili giây.
func BuildObjectKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	s := slug.Make(base)
	if s == "" {
		s = "file"
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), s, ext)
}

// UploadFileToSupabase đẩy file lên Supabase Storage
// Path: uploads/files/<objectKey>
func UploadFileToSupabase(fileHeader *multipart.FileHeader, objectKey string) (string, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")

	storageClient := storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	objectPath := fmt.Sprintf("files/%s", objectKey) // Path dưới bucket uploads

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	// Public URL: uploads/files/<objectKey>
	publicURL := fmt.Sprintf("%s/storage/v1/object/public/uploads/%s", supabaseURL, objectPath)

	// Client của storage-go không nhận timeout nên phải tự giới hạn ở đây.
	// Quá hạn thì trả lỗi ngay; nếu upload rốt cuộc vẫn lên được thì object
	// đó thành rác, dọn lại best-effort.
	timeout := storageTimeout()
	done := make(chan error, 1)
	go func() {
		_, upErr := storageClient.UploadFile("uploads", objectPath, &buf, options)
		done <- upErr
	}()

	select {
	case err := <-done:
		if err != nil {
			return "", err
		}
	case <-time.After(timeout):
		go func() {
			if upErr := <-done; upErr == nil {
				if delErr := DeleteFileFromSupabase(publicURL); delErr != nil {
					log.Printf("Không dọn được object %s sau khi upload quá hạn: %v", objectPath, delErr)
				}
			}
		}()
		return "", fmt.Errorf("upload %s quá thời gian cho phép (%s)", objectPath, timeout)
	}

	return publicURL, nil
}

// DeleteFileFromSupabase nhận public URL hoặc đường dẫn chứa "/storage/v1/object/"
// và gọi API Supabase Storage để xóa object.
// Yêu cầu: SUPABASE_URL và SUPABASE_KEY (service role / anon key có quyền xóa) đã set trong ENV.
func DeleteFileFromSupabase(publicURL string) error {
	if publicURL == "" {
		return nil
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("SUPABASE_URL hoặc SUPABASE_KEY chưa cấu hình")
	}

	// Tìm phần "/storage/v1/object/" trong URL
	idx := strings.Index(publicURL, "/storage/v1/object/")
	if idx == -1 {
		return fmt.Errorf("không xác định được đường dẫn object trong URL: %s", publicURL)
	}

	rest := publicURL[idx+len("/storage/v1/object/"):]
	// Luôn bỏ prefix "public/" nếu có
	rest = strings.TrimPrefix(rest, "public/")

	// rest => "<bucket>/<path/to/object...>"
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 {
		return fmt.Errorf("không parse được bucket/object từ URL: %s", publicURL)
	}
	bucket := parts[0]
	object := parts[1]
	// bỏ query params nếu có
	if qIdx := strings.Index(object, "?"); qIdx != -1 {
		object = object[:qIdx]
	}
	// unescape path
	if u, err := url.PathUnescape(object); err == nil {
		object = u
	}

	deleteURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", strings.TrimRight(supabaseURL, "/"), bucket, object)

	req, err := http.NewRequest("DELETE", deleteURL, nil)
	if err != nil {
		return err
	}
	// Supabase expects Authorization: Bearer <SERVICE_KEY> and apikey header
	req.Header.Set("Authorization", "Bearer "+supabaseKey)
	req.Header.Set("apikey", supabaseKey)

	client := &http.Client{Timeout: storageTimeout()}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	// Supabase trả 200 hoặc 204 khi xóa thành công; 404 coi như đã xóa rồi
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("xóa file Supabase thất bại: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
