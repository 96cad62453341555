package controllers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"myvoice-be/models"
	"myvoice-be/pipeline"
	"myvoice-be/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IssueController exposes the issue collection and the duplicate workflow.
type IssueController struct {
	Issues  *store.IssueStore
	Users   *store.UserStore
	Scanner *pipeline.Scanner
}

func NewIssueController(issues *store.IssueStore, users *store.UserStore, scanner *pipeline.Scanner) *IssueController {
	return &IssueController{Issues: issues, Users: users, Scanner: scanner}
}

// GetAllIssues handles retrieving all issues with filtering and pagination
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	// Parse query parameters
	category := c.Query("category")
	status := c.Query("status")
	search := strings.ToLower(c.Query("search"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	all := ic.Issues.List()
	filtered := make([]models.Issue, 0, len(all))
	for _, issue := range all {
		if category != "" && category != "all" && issue.Category != category {
			continue
		}
		if status != "" && status != "all" && string(issue.Status) != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(issue.Title), search) &&
			!strings.Contains(strings.ToLower(issue.Description), search) {
			continue
		}
		filtered = append(filtered, issue)
	}

	totalCount := len(filtered)
	totalPages := (totalCount + limit - 1) / limit

	// Slice out the requested page; the list is already most-recent-first
	start := (page - 1) * limit
	if start > totalCount {
		start = totalCount
	}
	end := start + limit
	if end > totalCount {
		end = totalCount
	}

	c.JSON(http.StatusOK, gin.H{
		"issues":      filtered[start:end],
		"totalIssues": totalCount,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// GetIssue retrieves an issue by its ID
func (ic *IssueController) GetIssue(c *gin.Context) {
	issue, ok := ic.Issues.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}
	c.JSON(http.StatusOK, issue)
}

// UpvoteIssue increments the issue's upvote count
func (ic *IssueController) UpvoteIssue(c *gin.Context) {
	id := c.Param("id")
	if _, ok := ic.Issues.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	if err := ic.Issues.Upvote(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upvote issue"})
		return
	}

	issue, _ := ic.Issues.Get(id)
	c.JSON(http.StatusOK, issue)
}

// AddComment appends a comment from the current user to the issue
func (ic *IssueController) AddComment(c *gin.Context) {
	id := c.Param("id")
	if _, ok := ic.Issues.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	var input struct {
		Text string `json:"text" binding:"required,max=500"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ic.Users.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	comment := models.Comment{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserName:  user.Name,
		Text:      input.Text,
		Timestamp: time.Now(),
	}

	if err := ic.Issues.AddComment(c.Request.Context(), id, comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// AssignIssue routes the issue to a worker. Authorities only.
func (ic *IssueController) AssignIssue(c *gin.Context) {
	if role, _ := c.Get("role"); role != string(models.RoleAuthority) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only authorities can assign issues"})
		return
	}

	id := c.Param("id")
	if _, ok := ic.Issues.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	var input struct {
		AssignedTo string `json:"assignedTo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.Assigned
	patch := store.IssuePatch{AssignedTo: &input.AssignedTo, Status: &status}
	if err := ic.Issues.Update(c.Request.Context(), id, patch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign issue"})
		return
	}

	issue, _ := ic.Issues.Get(id)
	c.JSON(http.StatusOK, issue)
}

// UpdateStatus moves the issue to a new status
func (ic *IssueController) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if _, ok := ic.Issues.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.IssueStatus(input.Status)
	switch status {
	case models.Pending, models.Assigned, models.InProgress, models.Resolved, models.Rejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if err := ic.Issues.Update(c.Request.Context(), id, store.IssuePatch{Status: &status}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	issue, _ := ic.Issues.Get(id)
	c.JSON(http.StatusOK, issue)
}

// ScanDuplicates compares the issue's photo against the other open issues
// and returns the first confirmed earlier report, or null
func (ic *IssueController) ScanDuplicates(c *gin.Context) {
	match, err := ic.Scanner.Scan(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": match})
}

// MergeIssue folds the issue into an earlier report of the same problem
func (ic *IssueController) MergeIssue(c *gin.Context) {
	var input struct {
		OriginalID string `json:"originalId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ic.Scanner.Merge(c.Request.Context(), c.Param("id"), input.OriginalID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	duplicate, _ := ic.Issues.Get(c.Param("id"))
	original, _ := ic.Issues.Get(input.OriginalID)
	c.JSON(http.StatusOK, gin.H{
		"message":   "Issue merged successfully",
		"duplicate": duplicate,
		"original":  original,
	})
}

// GetIssueAnalytics returns analytical data about issues
func (ic *IssueController) GetIssueAnalytics(c *gin.Context) {
	issues := ic.Issues.List()

	// Issues by category
	categoryCounts := map[string]int{}
	for _, issue := range issues {
		categoryCounts[issue.Category]++
	}
	issuesByCategory := make([]gin.H, 0, len(categoryCounts))
	for name, value := range categoryCounts {
		issuesByCategory = append(issuesByCategory, gin.H{"name": name, "value": value})
	}
	sort.Slice(issuesByCategory, func(i, j int) bool {
		return issuesByCategory[i]["name"].(string) < issuesByCategory[j]["name"].(string)
	})

	// Get last 7 days data
	var last7Days []gin.H
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		nextDate := date.AddDate(0, 0, 1)

		count := 0
		for _, issue := range issues {
			if !issue.ReportedAt.Before(date) && issue.ReportedAt.Before(nextDate) {
				count++
			}
		}

		last7Days = append(last7Days, gin.H{
			"date":  date.Format("2006-01-02"),
			"count": count,
		})
	}

	// Top upvoted issues
	type issueWithVotes struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Category string `json:"category"`
		Upvotes  int    `json:"upvotes"`
	}
	topVoted := make([]issueWithVotes, 0, len(issues))
	for _, issue := range issues {
		topVoted = append(topVoted, issueWithVotes{
			ID:       issue.ID,
			Title:    issue.Title,
			Category: issue.Category,
			Upvotes:  issue.Upvotes,
		})
	}
	sort.Slice(topVoted, func(i, j int) bool {
		return topVoted[i].Upvotes > topVoted[j].Upvotes
	})
	if len(topVoted) > 5 {
		topVoted = topVoted[:5]
	}

	totalUpvotes := 0
	openIssues := 0
	for _, issue := range issues {
		totalUpvotes += issue.Upvotes
		if !issue.Status.IsTerminal() {
			openIssues++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"issuesByCategory": issuesByCategory,
		"last7Days":        last7Days,
		"topVotedIssues":   topVoted,
		"totalIssues":      len(issues),
		"totalUpvotes":     totalUpvotes,
		"openIssues":       openIssues,
	})
}

// RecentIssues returns the most recent issues that have map coordinates
func (ic *IssueController) RecentIssues(c *gin.Context) {
	limit := 19

	type issueResponse struct {
		ID         string    `json:"id"`
		Title      string    `json:"title"`
		Lat        float64   `json:"lat"`
		Lng        float64   `json:"lng"`
		Address    string    `json:"address"`
		Category   string    `json:"category,omitempty"`
		ReportedAt time.Time `json:"reportedAt,omitempty"`
	}

	response := make([]issueResponse, 0, limit)
	for _, issue := range ic.Issues.List() {
		if issue.Location.Lat == 0 && issue.Location.Lng == 0 {
			continue
		}
		response = append(response, issueResponse{
			ID:         issue.ID,
			Title:      issue.Title,
			Lat:        issue.Location.Lat,
			Lng:        issue.Location.Lng,
			Address:    issue.Location.Address,
			Category:   issue.Category,
			ReportedAt: issue.ReportedAt,
		})
		if len(response) == limit {
			break
		}
	}

	c.JSON(http.StatusOK, response)
}
