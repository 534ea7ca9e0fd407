package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/campus-share-backend/models"
)

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestEnv(t)

	base := map[string]interface{}{
		"email":    "sv@nsut.ac.in",
		"password": "password123",
		"course":   "B.Tech",
		"branch":   "CSE",
	}

	tests := []struct {
		name  string
		patch map[string]interface{}
	}{
		{"email ngoài trường", map[string]interface{}{"email": "sv@gmail.com"}},
		{"khóa học không tồn tại", map[string]interface{}{"course": "B.Sc"}},
		{"ngành không thuộc khóa", map[string]interface{}{"course": "MBA", "branch": "CSE"}},
		{"mật khẩu quá ngắn", map[string]interface{}{"password": "123"}},
		{"thiếu email", map[string]interface{}{"email": ""}},
	}

	for _, tt := range tests {
		payload := map[string]interface{}{}
		for k, v := range base {
			payload[k] = v
		}
		for k, v := range tt.patch {
			payload[k] = v
		}
		w := doJSON(r, http.MethodPost, "/api/auth/register", "", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.name)
	}
}

func TestRegisterLoginMeFlow(t *testing.T) {
	r, _ := newTestEnv(t)

	payload := map[string]interface{}{
		"email":    "SV@nsut.ac.in",
		"password": "password123",
		"course":   "B.Tech",
		"branch":   "CSE",
	}

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	require.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "sv@nsut.ac.in", user["email"]) // email chuẩn hóa lowercase
	assert.Equal(t, "B.Tech", user["course"])

	// đăng ký trùng email
	w = doJSON(r, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// login đúng
	w = doJSON(r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "sv@nsut.ac.in",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeBody(t, w)["token"].(string)
	require.NotEmpty(t, token)

	// login sai mật khẩu: cùng lỗi với sai email
	w = doJSON(r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "sv@nsut.ac.in",
		"password": "sai-mat-khau",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	// /me với token
	w = doJSON(r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeBody(t, w)
	assert.Equal(t, "sv@nsut.ac.in", me["email"])
	assert.NotContains(t, w.Body.String(), "password")

	// /me không token
	w = doJSON(r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestXAuthTokenHeaderAccepted(t *testing.T) {
	r, db := newTestEnv(t)
	_, token := createUser(t, db, "legacy@nsut.ac.in", "B.Tech", "CSE")

	req := doJSON(r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, req.Code)

	// client cũ gửi token trần qua X-Auth-Token
	w := newXAuthRequest(r, "/api/auth/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteAccountCascades(t *testing.T) {
	r, db := newTestEnv(t)
	userA, tokenA := createUser(t, db, "a@nsut.ac.in", "B.Tech", "CSE")
	userB, _ := createUser(t, db, "b@nsut.ac.in", "B.Tech", "CSE")

	// A tạo folder gốc + subfolder, mỗi cái một file
	w, root := createFolderReq(t, r, tokenA, "Notes", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	rootID := root["id"].(string)
	w, _ = createFolderReq(t, r, tokenA, "Sem1", &rootID)
	require.Equal(t, http.StatusCreated, w.Code)

	// URL rỗng để blob cleanup thành no-op trong test
	seedFile(t, db, userA.ID, rootID, "notes.pdf")

	w = doJSON(r, http.MethodDelete, "/api/auth/account", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var folderCount, fileCount, notifCount, userCount int64
	db.Model(&models.Folder{}).Where("created_by = ?", userA.ID).Count(&folderCount)
	db.Model(&models.File{}).Where("uploaded_by = ?", userA.ID).Count(&fileCount)
	db.Model(&models.Notification{}).Where("user_id = ?", userA.ID).Count(&notifCount)
	db.Model(&models.User{}).Where("id = ?", userA.ID).Count(&userCount)
	assert.Zero(t, folderCount)
	assert.Zero(t, fileCount)
	assert.Zero(t, notifCount)
	assert.Zero(t, userCount)

	// user khác không bị ảnh hưởng
	var otherUsers int64
	db.Model(&models.User{}).Where("id = ?", userB.ID).Count(&otherUsers)
	assert.Equal(t, int64(1), otherUsers)
}

func TestDeleteAccountTakesNestedCohortSubfolders(t *testing.T) {
	r, db := newTestEnv(t)
	_, tokenA := createUser(t, db, "a@nsut.ac.in", "B.Tech", "CSE")
	userB, tokenB := createUser(t, db, "b@nsut.ac.in", "B.Tech", "CSE")

	// B tạo subfolder (kèm file) trong folder gốc của A, và một folder gốc riêng
	w, root := createFolderReq(t, r, tokenA, "Notes", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	rootID := root["id"].(string)

	w, sub := createFolderReq(t, r, tokenB, "DSA", &rootID)
	require.Equal(t, http.StatusCreated, w.Code)
	subID := sub["id"].(string)
	seedFile(t, db, userB.ID, subID, "dsa.pdf")

	w, own := createFolderReq(t, r, tokenB, "Riêng", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/auth/account", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// subfolder của B nằm trong cây của A phải đi theo, không để parent_id treo
	var subCount, subFileCount int64
	db.Model(&models.Folder{}).Where("id = ?", subID).Count(&subCount)
	db.Model(&models.File{}).Where("folder_id = ?", subID).Count(&subFileCount)
	assert.Zero(t, subCount)
	assert.Zero(t, subFileCount)

	// folder gốc riêng của B vẫn còn
	var ownCount int64
	db.Model(&models.Folder{}).Where("id = ?", own["id"].(string)).Count(&ownCount)
	assert.Equal(t, int64(1), ownCount)
}
