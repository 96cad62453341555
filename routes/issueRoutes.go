package routes

import (
	"myvoice-be/controllers"
	"myvoice-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, issueController *controllers.IssueController) {
	issue := r.Group("/api/issue")
	{
		issue.GET("/", middlewares.AuthMiddleware(), issueController.GetAllIssues)
		issue.GET("/recent", middlewares.AuthMiddleware(), issueController.RecentIssues)
		issue.GET("/:id", middlewares.AuthMiddleware(), issueController.GetIssue)
		issue.POST("/:id/upvote", middlewares.AuthMiddleware(), issueController.UpvoteIssue)
		issue.POST("/:id/comments", middlewares.AuthMiddleware(), issueController.AddComment)
		issue.PUT("/:id/assign", middlewares.AuthMiddleware(), issueController.AssignIssue)
		issue.PUT("/:id/status", middlewares.AuthMiddleware(), issueController.UpdateStatus)
		issue.POST("/:id/duplicates", middlewares.AuthMiddleware(), issueController.ScanDuplicates)
		issue.POST("/:id/merge", middlewares.AuthMiddleware(), issueController.MergeIssue)
	}

	r.GET("/api/analytics", middlewares.AuthMiddleware(), issueController.GetIssueAnalytics)
}
