package filestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pizzastore/pizzastore/application/port/outbound"
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

// ImageStore writes uploads to dir as <sha256 hex><ext>. Identical uploads
// share one file, and an existing file is never rewritten.
type ImageStore struct {
	dir          string
	publicPrefix string
}

func NewImageStore(dir, publicPrefix string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image dir: %w", err)
	}
	return &ImageStore{
		dir:          dir,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
	}, nil
}

func (s *ImageStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", outbound.ErrUnsupportedImageType, ext)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	hash := sha256.New()
	written, err := io.Copy(io.MultiWriter(tmp, hash), content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("failed to buffer upload: %w", err)
	}
	if written == 0 {
		return "", outbound.ErrEmptyImage
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := hex.EncodeToString(hash.Sum(nil)) + ext
	target := filepath.Join(s.dir, name)
	if _, err := os.Stat(target); err == nil {
		return s.publicPath(name), nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat image: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return s.publicPath(name), nil
}

func (s *ImageStore) publicPath(name string) string {
	return path.Join(s.publicPrefix, name)
}
