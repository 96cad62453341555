package routes

import (
	"myvoice-be/controllers"
	"myvoice-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ChatRoutes sets up the assistant routes
func ChatRoutes(r *gin.Engine, chatController *controllers.ChatController) {
	r.POST("/api/chat", middlewares.AuthMiddleware(), chatController.SendMessage)
	r.GET("/api/chat/history", middlewares.AuthMiddleware(), chatController.GetHistory)
}
