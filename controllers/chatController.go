package controllers

import (
	"net/http"
	"sync"

	"myvoice-be/ai"

	"github.com/gin-gonic/gin"
)

// ChatController hands each user their own assistant conversation. Sessions
// live in memory and reset on restart, like the client-side chat they mirror.
type ChatController struct {
	mu       sync.Mutex
	client   *ai.Client
	sessions map[string]*ai.Assistant
}

func NewChatController(client *ai.Client) *ChatController {
	return &ChatController{
		client:   client,
		sessions: make(map[string]*ai.Assistant),
	}
}

func (cc *ChatController) session(userID string) *ai.Assistant {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	assistant, ok := cc.sessions[userID]
	if !ok {
		assistant = ai.NewAssistant(cc.client)
		cc.sessions[userID] = assistant
	}
	return assistant
}

// SendMessage forwards the user's message to the assistant and returns the
// reply with the full conversation so far
func (cc *ChatController) SendMessage(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Message string `json:"message" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assistant := cc.session(userID.(string))
	reply := assistant.Send(c.Request.Context(), input.Message)

	c.JSON(http.StatusOK, gin.H{
		"reply":   reply,
		"history": assistant.History(),
	})
}

// GetHistory returns the user's conversation so far
func (cc *ChatController) GetHistory(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	assistant := cc.session(userID.(string))
	c.JSON(http.StatusOK, gin.H{"history": assistant.History()})
}
