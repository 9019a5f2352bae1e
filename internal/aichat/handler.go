package aichat

import (
	"net/http"

	"github.com/appdotbuilder/ai-dev-assistant/internal/errors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type ChatRequest struct {
	ProjectID      *string  `json:"project_id"`
	Message        string   `json:"message" binding:"required"`
	Model          *string  `json:"model"`
	ContextFileIDs []string `json:"context_files"`
}

func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	sessionID, _ := c.Get("session_id")

	chat, err := h.service.Chat(c.Request.Context(), ChatInput{
		SessionID:      sessionID.(string),
		ProjectID:      req.ProjectID,
		Message:        req.Message,
		Model:          req.Model,
		ContextFileIDs: req.ContextFileIDs,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, chat)
}

func (h *Handler) History(c *gin.Context) {
	sessionID, _ := c.Get("session_id")

	chats, err := h.service.History(c.Request.Context(), sessionID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, chats)
}
