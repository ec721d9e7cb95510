// Package response writes the JSON envelopes shared by handlers and
// middleware.
package response

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/employee-directory/internal/apierror"
)

// Failure is the body of every error response.
type Failure struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// Abort stops the chain and writes apiErr.
func Abort(c *gin.Context, apiErr *apierror.APIError) {
	c.AbortWithStatusJSON(apiErr.Status, Failure{Status: false, Message: apiErr.Message})
}

// Error writes err if it is an *apierror.APIError and a generic 500
// otherwise. It reports whether err was a client error.
func Error(c *gin.Context, err error) bool {
	if apiErr, ok := apierror.As(err); ok {
		Abort(c, apiErr)
		return apiErr.Status < 500
	}
	Abort(c, apierror.NewErrInternal())
	return false
}
