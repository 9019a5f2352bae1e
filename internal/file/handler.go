package file

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

type CreateFileRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Path    string `json:"path" binding:"required,projectpath"`
	Content string `json:"content"`
	Type    string `json:"type" binding:"required"`
}

func (h *Handler) Create(c *gin.Context) {
	projectID := c.Param("id")

	var req CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	file, err := h.service.CreateFile(c.Request.Context(), CreateFileInput{
		ProjectID: projectID,
		Name:      req.Name,
		Path:      req.Path,
		Content:   req.Content,
		Type:      req.Type,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, file)
}

type UpdateFileRequest struct {
	Content *string `json:"content"`
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	Path    *string `json:"path" binding:"omitempty,projectpath"`
}

func (h *Handler) Update(c *gin.Context) {
	fileID := c.Param("id")

	var req UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	file, err := h.service.UpdateFile(c.Request.Context(), fileID, UpdateFileInput{
		Content: req.Content,
		Name:    req.Name,
		Path:    req.Path,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, file)
}

func (h *Handler) List(c *gin.Context) {
	projectID := c.Param("id")

	files, err := h.service.ListFiles(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, files)
}

func (h *Handler) Delete(c *gin.Context) {
	fileID := c.Param("id")
	sessionID, _ := c.Get("session_id")

	ok, err := h.service.DeleteFile(c.Request.Context(), fileID, sessionID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": ok})
}
