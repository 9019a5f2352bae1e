package session

import (
	"net/http"

	"github.com/appdotbuilder/ai-dev-assistant/internal/errors"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for sessions
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateSessionRequest struct {
	BrowserFingerprint string                 `json:"browser_fingerprint"`
	IPAddress          string                 `json:"ip_address"`
	UserAgent          string                 `json:"user_agent"`
	Metadata           map[string]interface{} `json:"metadata"`
}

// Create issues a new anonymous session. IP and user agent fall back to the
// request's own values when the client doesn't supply them.
func (h *Handler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	if req.IPAddress == "" {
		req.IPAddress = c.ClientIP()
	}
	if req.UserAgent == "" {
		req.UserAgent = c.Request.UserAgent()
	}

	session, err := h.service.CreateSession(c.Request.Context(), CreateSessionInput{
		BrowserFingerprint: req.BrowserFingerprint,
		IPAddress:          req.IPAddress,
		UserAgent:          req.UserAgent,
		Metadata:           req.Metadata,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// Show returns the calling session (resolved by the session middleware,
// which already refreshed last_activity).
func (h *Handler) Show(c *gin.Context) {
	sessionID, _ := c.Get("session_id")

	session, err := h.service.GetSession(c.Request.Context(), sessionID.(string))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, session)
}
