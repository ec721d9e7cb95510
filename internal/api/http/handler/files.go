package handler

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/logger"
	"github.com/dtroode/employee-directory/internal/model"
)

// Files serves stored profile pictures.
type Files struct {
	uploads UploadManager
	logger  *logger.Logger
}

// NewFiles creates a Files handler.
func NewFiles(uploads UploadManager, logger *logger.Logger) *Files {
	return &Files{
		uploads: uploads,
		logger:  logger,
	}
}

// Serve handles GET /uploads/:name.
func (h *Files) Serve(c *gin.Context) {
	name := c.Param("name")

	rc, err := h.uploads.Open(c.Request.Context(), name)
	if errors.Is(err, model.ErrNotFound) {
		handleError(c, h.logger, "", apierror.NewErrFileNotFound())
		return
	}
	if err != nil {
		handleError(c, h.logger, "Files handler: failed to open file", err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Cache-Control": "public, max-age=86400",
	})
}

type healthResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Health handles GET /.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Message: "Employee Directory API",
		Status:  "Running",
	})
}
