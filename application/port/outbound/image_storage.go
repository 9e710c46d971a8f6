package outbound

import (
	"context"
	"errors"
	"io"
)

var (
	ErrUnsupportedImageType = errors.New("unsupported image type")
	ErrEmptyImage           = errors.New("image is empty")
)

type ImageStorage interface {
	// Save stores content under a name derived from its SHA-256 digest and the
	// extension of filename, and returns the public path.
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
}
