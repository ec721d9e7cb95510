package upload_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/metrics"
	"github.com/dtroode/employee-directory/internal/mocks"
	"github.com/dtroode/employee-directory/internal/model"
	"github.com/dtroode/employee-directory/internal/storage/local"
	"github.com/dtroode/employee-directory/internal/testutil"
	"github.com/dtroode/employee-directory/internal/upload"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// fileHeader builds a multipart.FileHeader the way net/http does when
// parsing a request.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(upload.FieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File[upload.FieldName]
	require.Len(t, files, 1)
	return files[0]
}

func newLocalManager(t *testing.T, maxSize int64, opts ...upload.Option) (*upload.Manager, *local.Provider) {
	t.Helper()
	p, err := local.NewProvider(t.TempDir())
	require.NoError(t, err)
	return upload.NewManager(p, maxSize, testutil.MakeNoopLogger(), opts...), p
}

func TestManager_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("stores image under generated name", func(t *testing.T) {
		m, p := newLocalManager(t, 1<<20)
		fh := fileHeader(t, "Me.PNG", pngHeader)

		name, err := m.Save(ctx, fh)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(name, "profile-"))
		assert.True(t, strings.HasSuffix(name, ".png"))
		assert.NotEqual(t, fh.Filename, name)
		assert.True(t, upload.IsStoredName(name))

		rc, err := p.Download(ctx, name)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)
	})

	t.Run("names are unique", func(t *testing.T) {
		m, _ := newLocalManager(t, 1<<20)
		first, err := m.Save(ctx, fileHeader(t, "a.gif", []byte("GIF89a....")))
		require.NoError(t, err)
		second, err := m.Save(ctx, fileHeader(t, "a.gif", []byte("GIF89a....")))
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("custom name func", func(t *testing.T) {
		m, _ := newLocalManager(t, 1<<20, upload.WithNameFunc(func(ext string) string {
			return "profile-fixed" + ext
		}))
		name, err := m.Save(ctx, fileHeader(t, "x.jpeg", append([]byte{0xFF, 0xD8, 0xFF}, make([]byte, 8)...)))
		require.NoError(t, err)
		assert.Equal(t, "profile-fixed.jpeg", name)
	})

	rejections := []struct {
		name     string
		maxSize  int64
		filename string
		content  []byte
		message  string
	}{
		{
			name:     "too large",
			maxSize:  5 << 20,
			filename: "big.png",
			content:  append(append([]byte{}, pngHeader...), make([]byte, 5<<20)...),
			message:  "File size too large. Maximum size is 5MB",
		},
		{
			name:     "unsupported extension",
			maxSize:  1 << 20,
			filename: "notes.txt",
			content:  pngHeader,
			message:  "Only image files are allowed (jpeg, jpg, png, gif, webp)",
		},
		{
			name:     "content is not an image",
			maxSize:  1 << 20,
			filename: "fake.png",
			content:  []byte("plain text pretending to be a picture"),
			message:  "Only image files are allowed (jpeg, jpg, png, gif, webp)",
		},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			storage := &mocks.Storage{}
			recorder := &mocks.Recorder{}
			recorder.On("ObserveUpload", metrics.UploadRejected).Once()
			m := upload.NewManager(storage, tt.maxSize, testutil.MakeNoopLogger(), upload.WithRecorder(recorder))

			name, err := m.Save(ctx, fileHeader(t, tt.filename, tt.content))
			assert.Empty(t, name)
			apiErr, ok := apierror.As(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)

			storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			recorder.AssertExpectations(t)
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		storage := &mocks.Storage{}
		storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, int64(len(pngHeader)), "image/png").
			Return(errors.New("disk full"))
		m := upload.NewManager(storage, 1<<20, testutil.MakeNoopLogger())

		name, err := m.Save(ctx, fileHeader(t, "a.png", pngHeader))
		assert.Empty(t, name)
		require.Error(t, err)
		_, isAPI := apierror.As(err)
		assert.False(t, isAPI)
		storage.AssertExpectations(t)
	})
}

func TestManager_Open(t *testing.T) {
	ctx := context.Background()
	m, _ := newLocalManager(t, 1<<20)

	name, err := m.Save(ctx, fileHeader(t, "a.png", pngHeader))
	require.NoError(t, err)

	rc, err := m.Open(ctx, name)
	require.NoError(t, err)
	_ = rc.Close()

	_, err = m.Open(ctx, "profile-missing.png")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = m.Open(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestManager_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		storageErr  error
		wantDeleted bool
		wantErr     bool
		outcome     string
	}{
		{name: "deleted", storageErr: nil, wantDeleted: true, outcome: metrics.CleanupDeleted},
		{name: "already gone", storageErr: model.ErrNotFound, outcome: metrics.CleanupNotFound},
		{name: "storage failure", storageErr: errors.New("permission denied"), wantErr: true, outcome: metrics.CleanupFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := &mocks.Storage{}
			storage.On("Delete", mock.Anything, "profile-1.png").Return(tt.storageErr).Once()
			recorder := &mocks.Recorder{}
			recorder.On("ObserveCleanup", tt.outcome).Once()
			m := upload.NewManager(storage, 1<<20, testutil.MakeNoopLogger(), upload.WithRecorder(recorder))

			res := m.Delete(ctx, "profile-1.png")
			assert.Equal(t, "profile-1.png", res.Name)
			assert.Equal(t, tt.wantDeleted, res.Deleted)
			if tt.wantErr {
				assert.Error(t, res.Err)
			} else {
				assert.NoError(t, res.Err)
			}
			storage.AssertExpectations(t)
			recorder.AssertExpectations(t)
		})
	}

	t.Run("empty name is a no-op", func(t *testing.T) {
		storage := &mocks.Storage{}
		m := upload.NewManager(storage, 1<<20, testutil.MakeNoopLogger())
		res := m.Delete(ctx, "")
		assert.False(t, res.Deleted)
		assert.NoError(t, res.Err)
		storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestIsStoredName(t *testing.T) {
	assert.True(t, upload.IsStoredName("profile-01hx.webp"))
	assert.False(t, upload.IsStoredName("avatar.png"))
	assert.False(t, upload.IsStoredName("profile-1.exe"))
	assert.False(t, upload.IsStoredName("profile-../x.png"))
}

func TestManager_MaxSize(t *testing.T) {
	m := upload.NewManager(&mocks.Storage{}, 42, testutil.MakeNoopLogger())
	assert.Equal(t, int64(42), m.MaxSize())
}
