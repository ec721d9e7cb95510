package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtroode/employee-directory/internal/model"
)

var _ model.Storage = (*Provider)(nil)

// ErrInvalidKey is returned for keys that would resolve outside the root.
var ErrInvalidKey = errors.New("invalid storage key")

// Provider keeps files in a flat directory on disk.
type Provider struct {
	root string
}

// NewProvider creates the root directory if needed.
func NewProvider(root string) (*Provider, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Provider{root: root}, nil
}

// Root returns the directory files are written to.
func (p *Provider) Root() string {
	return p.root
}

// Upload writes to a temp file in the root and renames it into place, so
// readers never observe a partial file.
func (p *Provider) Upload(ctx context.Context, key string, reader io.Reader, _ int64, _ string) error {
	path, err := p.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(p.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: reader}); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// Download opens the file stored under key.
func (p *Provider) Download(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := p.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, mapError("failed to open file", key, err)
	}
	return f, nil
}

// Delete removes the file stored under key.
func (p *Provider) Delete(_ context.Context, key string) error {
	path, err := p.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return mapError("failed to delete file", key, err)
	}
	return nil
}

// Exists reports whether a file is stored under key.
func (p *Provider) Exists(_ context.Context, key string) (bool, error) {
	path, err := p.path(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// path resolves key inside the root. Keys are flat names: separators,
// dot entries and hidden names are rejected.
func (p *Provider) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(p.root, key), nil
}

func mapError(msg, key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s %q: %w", msg, key, model.ErrNotFound)
	}
	return fmt.Errorf("%s %q: %w", msg, key, err)
}

// ctxReader stops a copy once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
