package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

type MessageHandler struct {
	messageService *service.MessageService
	authService    service.IAuthService
}

func NewMessageHandler(messageService *service.MessageService, authService service.IAuthService) *MessageHandler {
	return &MessageHandler{messageService: messageService, authService: authService}
}

func (h *MessageHandler) RegisterRoutes(router *gin.RouterGroup) {
	messages := router.Group("/messages", middleware.AuthMiddleware(h.authService))
	{
		messages.POST("", h.SendMessage)
		messages.GET("/:user_id", h.Conversation)
		messages.POST("/:user_id/read", h.MarkRead)
	}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient_id"})
		return
	}

	message, err := h.messageService.SendMessage(c.Request.Context(), userID, recipientID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		}
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) Conversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	peerID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	messages, err := h.messageService.Conversation(c.Request.Context(), userID, peerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	peerID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.messageService.MarkConversationRead(c.Request.Context(), userID, peerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark conversation read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation marked read"})
}
