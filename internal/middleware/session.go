package middleware

import (
	"context"

	"github.com/appdotbuilder/ai-dev-assistant/internal/domain"
	"github.com/appdotbuilder/ai-dev-assistant/internal/errors"
	"github.com/gin-gonic/gin"
)

// SessionProvider resolves a session id to a session, refreshing its
// last_activity as a side effect.
type SessionProvider interface {
	GetSession(ctx context.Context, id string) (*domain.Session, error)
}

type Auth struct {
	Sessions SessionProvider
}

// SessionMiddleware resolves the caller's session from the X-Session-Id
// header (query fallback) and stores it in the request context. There is no
// further authentication; the opaque session id is the whole identity model.
func (m *Auth) SessionMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sessionID := ctx.GetHeader("X-Session-Id")
		if sessionID == "" {
			sessionID = ctx.Query("session_id")
		}
		if sessionID == "" {
			ctx.Error(errors.Unauthorized("Session id is required", nil))
			ctx.Abort()
			return
		}

		session, err := m.Sessions.GetSession(ctx.Request.Context(), sessionID)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid session", err))
			ctx.Abort()
			return
		}

		if session.Status == domain.SessionExpired {
			ctx.Error(errors.Unauthorized("Session expired", nil))
			ctx.Abort()
			return
		}

		ctx.Set("session_id", session.ID)
		ctx.Set("session", session)
		ctx.Next()
	}
}
