package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

// allowed image extensions mapped from sniffed content types
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type ImageStorage interface {
	// Save stores the image under dir and returns its slash separated path relative to the root.
	Save(dir, slug string, contentType string, r io.Reader) (string, error)
	Remove(relPath string) error
}

type localStorage struct {
	root string
	log  *zap.Logger
}

func NewLocalStorage(root string, log *zap.Logger) ImageStorage {
	return &localStorage{
		root: root,
		log:  log.With(zap.String("storage", "local")),
	}
}

func ExtensionFor(contentType string) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}
	return ext, nil
}

func (s *localStorage) Save(dir, slug, contentType string, r io.Reader) (string, error) {
	ext, err := ExtensionFor(contentType)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s%s", slugify(slug), uuid.NewString(), ext)
	relPath := path.Join(dir, name)
	fullPath := filepath.Join(s.root, filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		s.log.Error("Failed to create media directory", zap.Error(err), zap.String("path", fullPath))
		return "", fmt.Errorf("create media dir: %w", err)
	}

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		_ = os.Remove(fullPath)
		s.log.Error("Failed to write image", zap.Error(err), zap.String("path", fullPath))
		return "", fmt.Errorf("write image: %w", err)
	}

	s.log.Info("Image stored", zap.String("path", relPath))
	return relPath, nil
}

func (s *localStorage) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	clean := path.Clean("/" + relPath)
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func slugify(value string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
