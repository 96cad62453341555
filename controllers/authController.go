package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"myvoice-be/models"
	"myvoice-be/store"
	authUtils "myvoice-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthController handles the demo login flow. There are no credentials:
// picking a role mints a demo user and a session cookie.
type AuthController struct {
	Users *store.UserStore
}

func NewAuthController(users *store.UserStore) *AuthController {
	return &AuthController{Users: users}
}

// Login mints a demo user for the requested role and stores it as the
// current user. Workers always get the fixed WORKER_01 identity so they see
// the seeded assignments.
func (a *AuthController) Login(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"max=50"`
		Role string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.UserRole(strings.ToUpper(input.Role))
	if !models.ValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	id := uuid.NewString()
	if role == models.RoleWorker {
		// Fixed ID so workers see the seeded assigned tasks
		id = "WORKER_01"
	}

	name := input.Name
	if name == "" {
		name = "Demo " + string(role[0]) + strings.ToLower(string(role[1:]))
	}

	points := 0
	if role == models.RoleCitizen {
		points = 120
	}

	user := models.User{
		ID:     id,
		Name:   name,
		Role:   role,
		Points: points,
		Avatar: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", role),
	}

	if err := a.Users.Save(c.Request.Context(), user); err != nil {
		log.Println("Error saving user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	token, err := authUtils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	authUtils.SetAuthCookie(c, token)

	c.JSON(http.StatusOK, user)
}

// GetMe retrieves the authenticated user's information
func (a *AuthController) GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := a.Users.Load(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.ID != userID.(string) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session no longer valid"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout clears the stored user and expires the auth_token cookie
func (a *AuthController) Logout(c *gin.Context) {
	if err := a.Users.Clear(c.Request.Context()); err != nil {
		log.Println("Error clearing user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	authUtils.ClearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}
