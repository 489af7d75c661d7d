// Package storage holds the blob store used for uploaded pictures.
package storage

import (
	"chat-hub/errors"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// DefaultMaxImageBytes bounds a decoded upload.
const DefaultMaxImageBytes = 5 << 20

var allowedImages = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// DiskImageStore keeps uploaded images in a local directory served under publicPrefix.
type DiskImageStore struct {
	log          *slog.Logger
	dir          string
	publicPrefix string
	maxBytes     int
}

func NewDiskImageStore(log *slog.Logger, dir, publicPrefix string, maxBytes int) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &DiskImageStore{
		log:          log,
		dir:          dir,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
		maxBytes:     maxBytes,
	}, nil
}

// Upload stores a base64 picture, optionally given as a data URL, and returns
// its public reference. The content is sniffed: the declared type is ignored.
func (s *DiskImageStore) Upload(ctx context.Context, data string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := decodeImage(data)
	if err != nil {
		return "", errors.ErrInvalidImage
	}
	if len(raw) == 0 || len(raw) > s.maxBytes {
		return "", errors.ErrInvalidImage
	}

	mime := mimetype.Detect(raw)
	if !mimetype.EqualsAny(mime.String(), allowedImages...) {
		s.log.Debug("Upload rejected", "mime", mime.String())
		return "", errors.ErrInvalidImage
	}

	name := uuid.NewString() + mime.Extension()
	if err = os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	s.log.Debug("Image stored", "name", name, "mime", mime.String(), "size", len(raw))
	return s.publicPrefix + "/" + name, nil
}

// decodeImage accepts "data:<type>;base64,<payload>" or a bare base64 payload.
func decodeImage(data string) ([]byte, error) {
	payload := strings.TrimSpace(data)
	if strings.HasPrefix(payload, "data:") {
		_, after, found := strings.Cut(payload, ",")
		if !found {
			return nil, fmt.Errorf("malformed data url")
		}
		payload = after
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	}
	return raw, nil
}
