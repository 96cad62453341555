package routes

import (
	"myvoice-be/controllers"
	"myvoice-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ReportRoutes sets up the report submission route. The rate limiter runs
// after auth so the per-user counter key is available.
func ReportRoutes(r *gin.Engine, reportController *controllers.ReportController, limiter gin.HandlerFunc) {
	r.POST("/api/report", middlewares.AuthMiddleware(), limiter, reportController.SubmitReport)
}
