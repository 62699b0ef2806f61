package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "library-service/pkg/errors"
)

// writeError maps a usecase error onto the plain-text error contract: the
// status comes from the error taxonomy, the body is the error message.
// Anything outside the taxonomy is reported as an opaque 500.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	status := apperrors.Status(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.String(status, err.Error())
}
