package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients map[*websocket.Conn]*Client            // mọi kết nối đã xác thực
	Rooms   map[string]map[*websocket.Conn]*Client // kết nối theo từng room (user / course / cohort)
	Joined  map[*websocket.Conn]map[string]bool    // các room mà mỗi kết nối đã join
	Mutex   sync.RWMutex
}

var H = Hub{
	Clients: make(map[*websocket.Conn]*Client),
	Rooms:   make(map[string]map[*websocket.Conn]*Client),
	Joined:  make(map[*websocket.Conn]map[string]bool),
}

// Tên room theo scope
func UserRoom(userID string) string           { return "user:" + userID }
func CourseRoom(course string) string         { return "course:" + course }
func CohortRoom(course, branch string) string { return "cohort:" + course + "-" + branch }

// Struct đẩy notification trực tiếp cho user
type NotificationPush struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Struct broadcast sự kiện folder/file cho cohort
type FolderEvent struct {
	Type     string      `json:"type"`
	Course   string      `json:"course"`
	Branch   string      `json:"branch"`
	FolderID string      `json:"folder_id,omitempty"`
	Folder   interface{} `json:"folder,omitempty"`
}

type BadgeUpdate struct {
	Type        string `json:"type"`
	UnreadCount int64  `json:"unread_count"`
}

// Register tạo client cho kết nối mới và chạy write pump
func (h *Hub) Register(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.Clients[conn] = client
	h.Joined[conn] = make(map[string]bool)

	go h.writePump(client)
}

// Join đưa kết nối vào room theo scope
func (h *Hub) Join(room string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client, ok := h.Clients[conn]
	if !ok {
		return // chưa Register
	}

	if _, ok := h.Rooms[room]; !ok {
		h.Rooms[room] = make(map[*websocket.Conn]*Client)
	}
	h.Rooms[room][conn] = client
	h.Joined[conn][room] = true
}

// Unregister gỡ kết nối khỏi mọi room đã join và đóng kênh gửi
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	for room := range h.Joined[conn] {
		if clients, ok := h.Rooms[room]; ok {
			delete(clients, conn)
			if len(clients) == 0 {
				delete(h.Rooms, room)
			}
		}
	}
	if client, ok := h.Clients[conn]; ok {
		close(client.Send)
		delete(h.Clients, conn)
	}
	delete(h.Joined, conn)
}

// Broadcast gửi data cho mọi kết nối trong room
func (h *Hub) Broadcast(room string, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Rooms[room]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// GetStats trả về số liệu cho health check
func (h *Hub) GetStats() map[string]interface{} {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	return map[string]interface{}{
		"connections": len(h.Clients),
		"rooms":       len(h.Rooms),
	}
}

// Write pump cho từng kết nối
func (h *Hub) writePump(client *Client) {
	defer func() {
		client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
		client.Conn.Close()
	}()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// SendNotification đẩy notification vừa tạo cho mọi phiên của user
func SendNotification(userID string, notif interface{}) {
	data, err := json.Marshal(NotificationPush{Type: "notification", Data: notif})
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.Broadcast(UserRoom(userID), data)
}

// SendBadgeUpdate cập nhật số thông báo chưa đọc realtime
func SendBadgeUpdate(userID string, unread int64) {
	data, err := json.Marshal(BadgeUpdate{Type: "badge_update", UnreadCount: unread})
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.Broadcast(UserRoom(userID), data)
}

// BroadcastFolderCreated báo cho cohort có folder mới
func BroadcastFolderCreated(course, branch string, folder interface{}) {
	broadcastCohort(course, branch, FolderEvent{
		Type:   "folder_created",
		Course: course,
		Branch: branch,
		Folder: folder,
	})
}

// BroadcastFolderDeleted báo cho cohort folder đã bị xóa
func BroadcastFolderDeleted(course, branch, folderID string) {
	broadcastCohort(course, branch, FolderEvent{
		Type:     "folder_deleted",
		Course:   course,
		Branch:   branch,
		FolderID: folderID,
	})
}

// BroadcastFileUploaded báo cho cohort có file mới trong folder
func BroadcastFileUploaded(course, branch, folderID string) {
	broadcastCohort(course, branch, FolderEvent{
		Type:     "file_uploaded",
		Course:   course,
		Branch:   branch,
		FolderID: folderID,
	})
}

func broadcastCohort(course, branch string, event FolderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.Broadcast(CohortRoom(course, branch), data)
}
