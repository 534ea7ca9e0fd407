package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vnkhanh/campus-share-backend/controllers"
	"github.com/vnkhanh/campus-share-backend/middleware"
	"github.com/vnkhanh/campus-share-backend/ws"
	"gorm.io/gorm"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.DBMiddleware(db), controllers.Register)
		auth.POST("/login", middleware.DBMiddleware(db), controllers.Login)
		auth.GET("/me", middleware.AuthMiddleware(), middleware.DBMiddleware(db), controllers.GetMe)
		auth.DELETE("/account", middleware.AuthMiddleware(), middleware.DBMiddleware(db), controllers.DeleteAccount)
	}

	folders := api.Group("/folders")
	{
		folders.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))
		folders.POST("", controllers.CreateFolder)
		folders.GET("", controllers.GetFolders)
		folders.GET("/:id/contents", controllers.GetFolderContents)
		folders.DELETE("/:id", controllers.DeleteFolder)
	}

	files := api.Group("/files")
	{
		files.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))
		files.POST("/:id", controllers.UploadFile)           // :id = folder chứa file
		files.GET("/:id/download", controllers.DownloadFile) // :id = file
		files.DELETE("/:id/:fileId", controllers.DeleteFile) // :id = folder, :fileId = file
	}

	notifications := api.Group("/notifications")
	{
		notifications.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))
		notifications.GET("", controllers.GetNotifications)
		notifications.GET("/unread-count", controllers.GetUnreadCount)
		notifications.PUT("/:id/read", controllers.MarkNotificationAsRead)
		notifications.PUT("/read-all", controllers.MarkAllAsRead)
	}

	r.GET("/ws", ws.HandleWebSocket)

	return r
}
