package version

import (
	"net/http"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/appdotbuilder/ai-dev-assistant/internal/errors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type FileChangeRequest struct {
	FileID        string  `json:"file_id" binding:"required"`
	Action        string  `json:"action" binding:"required,oneof=created modified deleted"`
	ContentBefore *string `json:"content_before"`
	ContentAfter  *string `json:"content_after"`
	FileName      *string `json:"file_name"`
	FilePath      *string `json:"file_path"`
	FileType      *string `json:"file_type"`
}

type CreateVersionRequest struct {
	Message     string              `json:"message" binding:"required"`
	Author      string              `json:"author" binding:"required"`
	FileChanges []FileChangeRequest `json:"file_changes" binding:"required,dive"`
}

func (h *Handler) Create(c *gin.Context) {
	projectID := c.Param("id")

	var req CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	changes := make([]domain.FileChange, 0, len(req.FileChanges))
	for _, fc := range req.FileChanges {
		changes = append(changes, domain.FileChange{
			FileID:        fc.FileID,
			Action:        fc.Action,
			ContentBefore: fc.ContentBefore,
			ContentAfter:  fc.ContentAfter,
			FileName:      fc.FileName,
			FilePath:      fc.FilePath,
			FileType:      fc.FileType,
		})
	}

	version, err := h.service.CreateVersion(c.Request.Context(), CreateVersionInput{
		ProjectID:   projectID,
		Message:     req.Message,
		Author:      req.Author,
		FileChanges: changes,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, version)
}

func (h *Handler) List(c *gin.Context) {
	projectID := c.Param("id")

	versions, err := h.service.ListVersions(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, versions)
}

func (h *Handler) Rollback(c *gin.Context) {
	projectID := c.Param("id")
	versionID := c.Param("versionId")
	sessionID, _ := c.Get("session_id")

	ok, err := h.service.RollbackVersion(c.Request.Context(), projectID, versionID, sessionID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": ok})
}
