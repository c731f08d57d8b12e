// Package imaging produces small JPEG thumbnails of recipe images and keeps
// them in a directory so each image is fetched once.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/nfnt/resize"
)

// DefaultWidth is the thumbnail width used by the likes panel.
const DefaultWidth = 100

// maxImageBytes bounds the size of a downloaded source image.
const maxImageBytes = 10 << 20

// ErrInvalidKey is returned for cache keys that are not safe file names.
var ErrInvalidKey = errors.New("invalid thumbnail key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Thumbnailer fetches images, scales them down and caches the result.
type Thumbnailer struct {
	httpClient *http.Client
	dir        string
	width      uint
}

// NewThumbnailer creates a Thumbnailer that caches into dir.
func NewThumbnailer(dir string, width uint, timeout time.Duration) *Thumbnailer {
	if width == 0 {
		width = DefaultWidth
	}
	return &Thumbnailer{
		httpClient: &http.Client{Timeout: timeout},
		dir:        dir,
		width:      width,
	}
}

// Thumbnail returns the JPEG thumbnail for key, generating it from imageURL
// on the first request.
func (t *Thumbnailer) Thumbnail(ctx context.Context, key, imageURL string) ([]byte, error) {
	if !keyPattern.MatchString(key) {
		return nil, fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	path := filepath.Join(t.dir, key+".jpg")
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}

	src, err := t.fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	data, err := t.scale(src)
	if err != nil {
		return nil, err
	}

	// Create the cache directory if it doesn't exist
	if err := os.MkdirAll(t.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail directory: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return nil, fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return data, nil
}

// writeFileAtomic writes data next to path and renames it into place, so
// readers never see a partially written file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (t *Thumbnailer) fetch(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

func (t *Thumbnailer) scale(src []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img = resize.Resize(t.width, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
