package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/employee-directory/internal/mocks"
	"github.com/dtroode/employee-directory/internal/model"
	"github.com/dtroode/employee-directory/internal/testutil"
)

func newFilesEngine(uploads *mocks.UploadManager) *gin.Engine {
	h := NewFiles(uploads, testutil.MakeNoopLogger())
	r := gin.New()
	r.GET("/", Health)
	r.GET("/uploads/:name", h.Serve)
	r.NoRoute(NotFound)
	return r
}

func TestFiles_Serve(t *testing.T) {
	t.Run("stored file", func(t *testing.T) {
		uploads := &mocks.UploadManager{}
		uploads.On("Open", mock.Anything, "profile-1.png").
			Return(io.NopCloser(strings.NewReader("png-bytes")), nil)

		rec := serve(newFilesEngine(uploads), httptest.NewRequest(http.MethodGet, "/uploads/profile-1.png", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "png-bytes", rec.Body.String())
	})

	t.Run("unknown file", func(t *testing.T) {
		uploads := &mocks.UploadManager{}
		uploads.On("Open", mock.Anything, "missing.png").
			Return(nil, fmt.Errorf("open: %w", model.ErrNotFound))

		rec := serve(newFilesEngine(uploads), httptest.NewRequest(http.MethodGet, "/uploads/missing.png", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "File not found", decodeFailure(t, rec).Message)
	})

	t.Run("storage failure", func(t *testing.T) {
		uploads := &mocks.UploadManager{}
		uploads.On("Open", mock.Anything, "profile-2.png").Return(nil, errors.New("bucket offline"))

		rec := serve(newFilesEngine(uploads), httptest.NewRequest(http.MethodGet, "/uploads/profile-2.png", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", decodeFailure(t, rec).Message)
	})
}

func TestHealth(t *testing.T) {
	rec := serve(newFilesEngine(&mocks.UploadManager{}), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Employee Directory API","status":"Running"}`, rec.Body.String())
}

func TestNotFound(t *testing.T) {
	rec := serve(newFilesEngine(&mocks.UploadManager{}), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeFailure(t, rec).Message)
}
