package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/upload"
)

func contextFor(req *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestReadFields_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		`{"first_name":"Ada","salary":1200.50,"active":true,"department":null,"tags":["a"]}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	fields, fh, err := readFields(contextFor(req), maxUpload)

	require.NoError(t, err)
	assert.Nil(t, fh)
	assert.Equal(t, "Ada", fields["first_name"])
	assert.Equal(t, "1200.50", fields["salary"])
	assert.Equal(t, "true", fields["active"])
	assert.Equal(t, `["a"]`, fields["tags"])
	v, ok := fields.Get("department")
	assert.True(t, ok)
	assert.Empty(t, v)
	assert.False(t, fields.Has("email"))
}

func TestReadFields_EmptyJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("  "))
	req.Header.Set("Content-Type", "application/json")

	fields, _, err := readFields(contextFor(req), maxUpload)

	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestReadFields_URLEncoded(t *testing.T) {
	req := formRequest(http.MethodPost, "/", map[string]string{"position": "Engineer"})

	fields, fh, err := readFields(contextFor(req), maxUpload)

	require.NoError(t, err)
	assert.Nil(t, fh)
	assert.Equal(t, "Engineer", fields["position"])
}

func TestReadFields_Multipart(t *testing.T) {
	t.Run("fields and picture", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/", map[string]string{"department": "R&D"},
			filePart{field: upload.FieldName, filename: "me.png", content: pngBytes})

		fields, fh, err := readFields(contextFor(req), maxUpload)

		require.NoError(t, err)
		require.NotNil(t, fh)
		assert.Equal(t, "me.png", fh.Filename)
		assert.Equal(t, int64(len(pngBytes)), fh.Size)
		assert.Equal(t, "R&D", fields["department"])
	})

	t.Run("file under another field", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/", nil,
			filePart{field: "avatar", filename: "me.png", content: pngBytes})

		_, _, err := readFields(contextFor(req), maxUpload)

		apiErr, ok := apierror.As(err)
		require.True(t, ok)
		assert.Equal(t, "Unexpected field", apiErr.Message)
	})
}

func TestReadFields_LimitHitInPartHeaders(t *testing.T) {
	req := multipartRequest(t, http.MethodPost, "/", map[string]string{"department": "R&D"})
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 80)
	c, _ := gin.CreateTestContext(rec)
	c.Request = req

	_, _, err := readFields(c, maxUpload)

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, "File size too large. Maximum size is 5MB", apiErr.Message)
}

func TestReadFields_InvalidMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		"--xyz\r\nbroken header line\r\n\r\nvalue\r\n--xyz--\r\n"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

	_, _, err := readFields(contextFor(req), maxUpload)

	apiErr, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid request body", apiErr.Message)
}

func TestReadFields_UnknownContentType(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello"))
	req.Header.Set("Content-Type", "text/plain")

	fields, fh, err := readFields(contextFor(req), maxUpload)

	require.NoError(t, err)
	assert.Nil(t, fh)
	assert.Empty(t, fields)
}
