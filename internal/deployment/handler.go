package deployment

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

type CreateDeploymentRequest struct {
	VersionID string                 `json:"version_id" binding:"required"`
	Config    map[string]interface{} `json:"config"`
}

func (h *Handler) Create(c *gin.Context) {
	projectID := c.Param("id")

	var req CreateDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	deployment, err := h.service.CreateDeployment(c.Request.Context(), CreateDeploymentInput{
		ProjectID: projectID,
		VersionID: req.VersionID,
		Config:    req.Config,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, deployment)
}

func (h *Handler) List(c *gin.Context) {
	projectID := c.Param("id")

	deployments, err := h.service.ListDeployments(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, deployments)
}
