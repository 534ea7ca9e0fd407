package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/campus-share-backend/config"
	"github.com/vnkhanh/campus-share-backend/ws"
)

// HealthCheck báo tình trạng service chia sẻ tài liệu:
// DB còn ping được không và hub realtime đang giữ bao nhiêu kết nối.
func HealthCheck(c *gin.Context) {
	overall := "ok"
	database := "up"
	httpStatus := http.StatusOK

	switch {
	case config.DB == nil:
		database = "down: chưa khởi tạo"
	default:
		sqlDB, err := config.DB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			database = "down: " + err.Error()
		}
	}

	if database != "up" {
		overall = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"service":   "campus-share",
		"status":    overall,
		"timestamp": time.Now().Unix(),
		"database":  database,
		"realtime":  ws.H.GetStats(),
	})
}
