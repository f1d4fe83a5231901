package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lyceetalmest/rdv-backend/internal/apperr"
)

// ok writes a success envelope. Extra fields are merged beside success=true.
func ok(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// fail maps a service error to its HTTP status and a sanitized message.
// Internal detail goes to the log only.
func fail(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.JSON(status, gin.H{
		"success": false,
		"message": apperr.Message(err),
	})
}

// failMessage writes an explicit client error without going through the
// error taxonomy.
func failMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}
