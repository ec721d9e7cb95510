package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/employee-directory/internal/api/http/response"
	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/logger"
)

// handleError writes err as a JSON failure. Unexpected errors are logged and
// hidden behind a generic 500.
func handleError(c *gin.Context, logger *logger.Logger, msg string, err error) {
	if !response.Error(c, err) {
		if _, ok := apierror.As(err); !ok {
			logger.Error(msg,
				"path", c.Request.URL.Path,
				"error", err.Error())
		}
	}
	_ = c.Error(err)
}

// NotFound answers unmatched routes.
func NotFound(c *gin.Context) {
	response.Abort(c, apierror.NewErrRouteNotFound())
}
