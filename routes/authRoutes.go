package routes

import (
	"myvoice-be/controllers"
	"myvoice-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, authController *controllers.AuthController) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authController.Login)
		auth.GET("/me", middlewares.AuthMiddleware(), authController.GetMe)
		auth.POST("/logout", middlewares.AuthMiddleware(), authController.Logout)
	}
}
