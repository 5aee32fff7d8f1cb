package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wisefood/internal/apperr"
	"wisefood/internal/logger"
)

// fail renders a typed error as JSON. Internal causes are logged but
// never leak storage details to the caller.
func fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)

	var e *apperr.Error
	if errors.As(err, &e) && e.Kind != apperr.Internal {
		c.JSON(status, gin.H{"error": e.Code, "detail": e.Detail})
		return
	}

	logger.Error("request failed", "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":  "server/internal",
		"detail": "internal server error",
	})
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "request/invalid", "detail": detail})
}
