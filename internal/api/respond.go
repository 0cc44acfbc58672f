package api

import (
	"net/http"

	"agahi-backend/internal/apperr"
	"agahi-backend/internal/messaging"
	"agahi-backend/internal/middleware"
	"agahi-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const msgServerError = "خطای سرور"

// respondError writes err as {success: false, message, error} with the
// status of its kind. Unclassified and storage errors are logged and hidden.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	message := apperr.ReasonOf(err, msgServerError)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("kind", string(kind)).
			Msg("request failed")
		message = msgServerError
	}

	c.JSON(status, gin.H{
		"success": false,
		"message": message,
		"error":   kind,
	})
}

func viewerFrom(c *gin.Context) messaging.Viewer {
	return messaging.Viewer{
		ID:    c.GetString(middleware.ContextUserID),
		Phone: c.GetString(middleware.ContextPhone),
	}
}
