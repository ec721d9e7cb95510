package mocks

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/employee-directory/internal/upload"
)

type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Storage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// UploadManager mocks the upload.Manager surface used by services and handlers.
type UploadManager struct {
	mock.Mock
}

func (m *UploadManager) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	args := m.Called(ctx, fh)
	return args.String(0), args.Error(1)
}

func (m *UploadManager) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, name)
	if v := args.Get(0); v != nil {
		return v.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UploadManager) Delete(ctx context.Context, name string) upload.DeleteResult {
	args := m.Called(ctx, name)
	return args.Get(0).(upload.DeleteResult)
}

func (m *UploadManager) MaxSize() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

type Recorder struct {
	mock.Mock
}

func (m *Recorder) ObserveUpload(outcome string) {
	m.Called(outcome)
}

func (m *Recorder) ObserveCleanup(outcome string) {
	m.Called(outcome)
}
