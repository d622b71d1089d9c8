package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ArmaanM08/WikiDoCollab/pkg/apperr"
	"github.com/ArmaanM08/WikiDoCollab/pkg/logger"
)

// fail maps an error to its HTTP status and a client-safe message. Plain
// errors surface as a generic 500; their detail goes to the log only.
func fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status >= 500 {
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}
