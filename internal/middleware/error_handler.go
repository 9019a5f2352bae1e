package middleware

import (
	"errors"

	apiError "github.com/appdotbuilder/ai-dev-assistant/internal/errors"
	"github.com/appdotbuilder/ai-dev-assistant/internal/logger"
	"github.com/gin-gonic/gin"
)

func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		// detect any errors
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			var apiErr *apiError.APIError

			// if it's a raw error we didn't wrap, treat as Internal
			if !errors.As(err, &apiErr) {
				apiErr = apiError.Internal(err)
			}

			if apiErr.Status >= 500 {
				log.Error("request failed", "err", apiErr.Internal, "path", c.FullPath())
			} else {
				log.Info("request rejected", "msg", apiErr.Message, "err", apiErr.Internal, "path", c.FullPath())
			}

			c.AbortWithStatusJSON(apiErr.Status, apiErr)
		}
	}
}
