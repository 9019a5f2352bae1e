package project

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

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description"`
	Type        string  `json:"type" binding:"required,oneof=react vanilla vue angular node"`
	TemplateID  *string `json:"template_id"`
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	sessionID, _ := c.Get("session_id")

	project, err := h.service.CreateProject(c.Request.Context(), CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		TemplateID:  req.TemplateID,
		SessionID:   sessionID.(string),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

func (h *Handler) Update(c *gin.Context) {
	projectID := c.Param("id")

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	project, err := h.service.UpdateProject(c.Request.Context(), projectID, UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *Handler) List(c *gin.Context) {
	sessionID, _ := c.Get("session_id")

	projects, err := h.service.ListProjects(c.Request.Context(), sessionID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *Handler) Delete(c *gin.Context) {
	projectID := c.Param("id")
	sessionID, _ := c.Get("session_id")

	ok, err := h.service.DeleteProject(c.Request.Context(), projectID, sessionID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": ok})
}

type ShareProjectRequest struct {
	SessionID   string   `json:"session_id" binding:"required"`
	Role        string   `json:"role" binding:"required,oneof=owner editor viewer"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) Share(c *gin.Context) {
	projectID := c.Param("id")

	var req ShareProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	collab, err := h.service.ShareProject(c.Request.Context(), ShareProjectInput{
		ProjectID:   projectID,
		SessionID:   req.SessionID,
		Role:        req.Role,
		Permissions: req.Permissions,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, collab)
}

func (h *Handler) ListCollaborators(c *gin.Context) {
	projectID := c.Param("id")

	collabs, err := h.service.ListCollaborations(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, collabs)
}
