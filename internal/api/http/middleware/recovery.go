package middleware

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/employee-directory/internal/api/http/response"
	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/logger"
)

// Recovery turns panics into a 500 response.
type Recovery struct {
	logger *logger.Logger
}

// NewRecovery creates a Recovery middleware.
func NewRecovery(logger *logger.Logger) *Recovery {
	return &Recovery{logger: logger}
}

// Handle returns the gin handler.
func (r *Recovery) Handle() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		r.logger.Error("HTTP handler panicked",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(recovered))
		response.Abort(c, apierror.NewErrInternal())
	})
}
