// Package upload validates and stores profile pictures and removes them
// again when the request that brought them in fails.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/logger"
	"github.com/dtroode/employee-directory/internal/metrics"
	"github.com/dtroode/employee-directory/internal/model"
)

// FieldName is the multipart field carrying the picture.
const FieldName = "profile_picture"

const (
	namePrefix = "profile-"
	sniffLen   = 512
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Recorder receives upload and cleanup outcomes.
type Recorder interface {
	ObserveUpload(outcome string)
	ObserveCleanup(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveUpload(string)  {}
func (nopRecorder) ObserveCleanup(string) {}

// DeleteResult describes a best-effort deletion. Deleted is false with a nil
// Err when there was nothing to delete.
type DeleteResult struct {
	Name    string
	Deleted bool
	Err     error
}

// Manager stores profile pictures in a model.Storage.
type Manager struct {
	storage  model.Storage
	maxSize  int64
	recorder Recorder
	logger   *logger.Logger
	newName  func(ext string) string
}

// Option configures a Manager.
type Option func(*Manager)

// WithRecorder reports outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.recorder = r
		}
	}
}

// WithNameFunc overrides stored name generation.
func WithNameFunc(f func(ext string) string) Option {
	return func(m *Manager) {
		m.newName = f
	}
}

// NewManager creates a Manager accepting files up to maxSize bytes.
func NewManager(storage model.Storage, maxSize int64, logger *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		storage:  storage,
		maxSize:  maxSize,
		recorder: nopRecorder{},
		logger:   logger,
		newName:  newStoredName,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MaxSize returns the per-file limit in bytes.
func (m *Manager) MaxSize() int64 {
	return m.maxSize
}

// Save checks the size and type of the file and stores it under a fresh
// name, which is returned. Rejections are *apierror.APIError values.
func (m *Manager) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh.Size > m.maxSize {
		m.recorder.ObserveUpload(metrics.UploadRejected)
		return "", apierror.NewErrFileTooLarge(m.maxSize)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		m.recorder.ObserveUpload(metrics.UploadRejected)
		return "", apierror.NewErrUnsupportedFileType()
	}

	src, err := fh.Open()
	if err != nil {
		m.recorder.ObserveUpload(metrics.UploadFailed)
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		m.recorder.ObserveUpload(metrics.UploadFailed)
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		m.recorder.ObserveUpload(metrics.UploadRejected)
		return "", apierror.NewErrUnsupportedFileType()
	}

	name := m.newName(ext)
	body := io.MultiReader(bytes.NewReader(head), src)
	if err := m.storage.Upload(ctx, name, body, fh.Size, contentType); err != nil {
		m.recorder.ObserveUpload(metrics.UploadFailed)
		return "", fmt.Errorf("failed to store uploaded file: %w", err)
	}

	m.recorder.ObserveUpload(metrics.UploadStored)
	m.logger.Debug("Upload manager: file stored", "name", name, "size", fh.Size, "content_type", contentType)
	return name, nil
}

// Open returns the stored file. Unknown names yield model.ErrNotFound.
func (m *Manager) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !IsStoredName(name) {
		return nil, fmt.Errorf("file %q: %w", name, model.ErrNotFound)
	}
	return m.storage.Download(ctx, name)
}

// Delete removes the stored file. It never fails the caller; the outcome is
// reported in the result.
func (m *Manager) Delete(ctx context.Context, name string) DeleteResult {
	res := DeleteResult{Name: name}
	if name == "" {
		return res
	}

	err := m.storage.Delete(ctx, name)
	switch {
	case err == nil:
		res.Deleted = true
		m.recorder.ObserveCleanup(metrics.CleanupDeleted)
	case errors.Is(err, model.ErrNotFound):
		m.recorder.ObserveCleanup(metrics.CleanupNotFound)
	default:
		res.Err = err
		m.recorder.ObserveCleanup(metrics.CleanupFailed)
	}
	return res
}

// IsStoredName reports whether name looks like a name produced by Save.
func IsStoredName(name string) bool {
	if !strings.HasPrefix(name, namePrefix) || strings.ContainsAny(name, `/\`) {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

func newStoredName(ext string) string {
	return namePrefix + strings.ToLower(ulid.Make().String()) + ext
}
