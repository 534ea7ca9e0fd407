package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/vnkhanh/campus-share-backend/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // chỉ để phát triển, nên giới hạn ở production
	},
}

// Message client gửi lên để xin vào room cohort
type clientMessage struct {
	Type   string `json:"type"`
	Course string `json:"course"`
	Branch string `json:"branch"`
}

// gửi message dạng JSON qua WebSocket
func sendJSON(conn *websocket.Conn, data interface{}) {
	msg, err := json.Marshal(data)
	if err != nil {
		log.Println("Lỗi JSON marshal:", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Println("Lỗi gửi message:", err)
	}
}

// HandleWebSocket xác thực token trong handshake rồi đưa kết nối vào
// room của user; client có thể gửi join_room để nhận broadcast cohort.
// Không có token hợp lệ thì từ chối luôn, không cho kết nối ẩn danh.
func HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Thiếu token"})
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
		return
	}

	userID := claims.UserID
	log.Printf("WS connected: userID=%s\n", userID)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade thất bại:", err)
		return
	}
	H.Register(conn)
	H.Join(UserRoom(userID), conn)
	defer H.Unregister(conn)

	sendJSON(conn, gin.H{"type": "connected", "message": "Connected as user " + userID})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue // bỏ qua message không phải JSON
		}
		if msg.Type == "join_room" && msg.Course != "" {
			H.Join(CourseRoom(msg.Course), conn)
			if msg.Branch != "" {
				H.Join(CohortRoom(msg.Course, msg.Branch), conn)
			}
			sendJSON(conn, gin.H{"type": "joined_room", "course": msg.Course, "branch": msg.Branch})
		}
	}

	log.Printf("WS disconnected: userID=%s\n", userID)
	conn.Close()
}
