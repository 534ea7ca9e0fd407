package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/campus-share-backend/models"
	"github.com/vnkhanh/campus-share-backend/routes"
	"github.com/vnkhanh/campus-share-backend/utils"
)

// newTestEnv dựng router thật trên SQLite in-memory
func newTestEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// sqlite in-memory: mỗi connection là một DB riêng nên phải khóa về 1
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))

	r := routes.SetupRouter(gin.New(), db)
	return r, db
}

func createUser(t *testing.T, db *gorm.DB, email, course, branch string) (*models.User, string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Email:    email,
		Password: string(hashed),
		Course:   course,
		Branch:   branch,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID.String())
	require.NoError(t, err)
	return &user, token
}

func doJSON(r http.Handler, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			panic(err)
		}
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// createFolderReq gọi POST /api/folders và trả về body đã decode
func createFolderReq(t *testing.T, r http.Handler, token, name string, parentID *string) (*httptest.ResponseRecorder, map[string]interface{}) {
	payload := map[string]interface{}{"name": name}
	if parentID != nil {
		payload["parent_folder_id"] = *parentID
	}
	w := doJSON(r, http.MethodPost, "/api/folders", token, payload)
	return w, decodeBody(t, w)
}

func multipartFile(t *testing.T, field, filename string, content []byte) (io.Reader, string) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func doUpload(r http.Handler, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newXAuthRequest(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Auth-Token", token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// seedFile chèn thẳng một File record; URL rỗng nên xóa blob là no-op
func seedFile(t *testing.T, db *gorm.DB, uploaderID uuid.UUID, folderID, name string) *models.File {
	fid, err := uuid.Parse(folderID)
	require.NoError(t, err)
	f := models.File{
		Name:         name,
		StorageKey:   "files/test-" + name,
		URL:          "",
		Size:         1024,
		MimeType:     "application/pdf",
		ResourceType: "raw",
		UploadedBy:   uploaderID,
		FolderID:     fid,
	}
	require.NoError(t, db.Create(&f).Error)
	return &f
}

// fakeSupabase giả lập endpoint storage: nhận upload và delete
func fakeSupabase(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"Key":"uploads/files/fake"}`))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("SUPABASE_URL", srv.URL)
	t.Setenv("SUPABASE_KEY", "test-key")
	return srv
}
