package controllers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"myvoice-be/pipeline"
	"myvoice-be/store"

	"github.com/gin-gonic/gin"
)

// ReportController runs the submission pipeline for captured reports.
type ReportController struct {
	Classifier pipeline.Classifier
	Locator    pipeline.Locator
	Issues     *store.IssueStore
	Users      *store.UserStore
}

func NewReportController(classifier pipeline.Classifier, locator pipeline.Locator, issues *store.IssueStore, users *store.UserStore) *ReportController {
	return &ReportController{Classifier: classifier, Locator: locator, Issues: issues, Users: users}
}

// SubmitReport takes a captured photo plus optional description, runs
// location resolution and AI validation, and files the issue. A photo the
// model rejects never reaches the store; the caller gets the reason and
// must retake.
func (rc *ReportController) SubmitReport(c *gin.Context) {
	var input struct {
		Image       string `json:"image" binding:"required"`
		Description string `json:"description" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageJPEG, err := decodeImage(input.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image encoding"})
		return
	}

	user, err := rc.Users.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	report := pipeline.NewReport(rc.Classifier, rc.Locator, rc.Issues, user)
	report.SetDescription(input.Description)

	if err := report.AttachImage(c.Request.Context(), imageJPEG); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if report.State() == pipeline.StateRejected {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":           "Not a civic issue",
			"rejectionReason": report.RejectionReason(),
		})
		return
	}

	issue, err := report.Submit(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// decodeImage accepts a raw base64 payload or a full data URI.
func decodeImage(image string) ([]byte, error) {
	if strings.HasPrefix(image, "data:") {
		if comma := strings.IndexByte(image, ','); comma >= 0 {
			image = image[comma+1:]
		}
	}
	return base64.StdEncoding.DecodeString(image)
}
