package template

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

func (h *Handler) List(c *gin.Context) {
	templates, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, templates)
}

type CreateFromProjectRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=255"`
	Description string   `json:"description" binding:"required"`
	Tags        []string `json:"tags"`
}

func (h *Handler) CreateFromProject(c *gin.Context) {
	projectID := c.Param("id")

	var req CreateFromProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	template, err := h.service.CreateFromProject(c.Request.Context(), CreateFromProjectInput{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, template)
}
