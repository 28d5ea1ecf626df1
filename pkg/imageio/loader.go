package imageio

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	_ "image/gif"  // register the GIF decoder
	_ "image/jpeg" // register the JPEG decoder
	_ "image/png"  // register the PNG decoder
	"sync"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	_ "golang.org/x/image/bmp"  // register the BMP decoder
	_ "golang.org/x/image/tiff" // register the TIFF decoder
	_ "golang.org/x/image/webp" // register the WebP decoder
)

// Loader reads the images of Input stages. Relative names are resolved against its directory.
type Loader struct {
	fs        afs.Service
	dir       string
	maxPixels int
	mu        sync.RWMutex
}

type LoaderOption func(l *Loader)

// WithMaxPixels rejects images whose header declares more than maxPixels pixels. Zero disables the check.
func WithMaxPixels(maxPixels int) LoaderOption {
	return func(l *Loader) {
		l.maxPixels = maxPixels
	}
}

// NewLoader creates a loader reading from dir.
func NewLoader(dir string, fs afs.Service, opts ...LoaderOption) *Loader {
	if fs == nil {
		fs = afs.New()
	}

	l := &Loader{fs: fs, dir: dir}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// SetDir moves the directory relative names are resolved against.
func (l *Loader) SetDir(dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.dir = dir
}

// Dir returns the directory relative names are resolved against.
func (l *Loader) Dir() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.dir
}

// Load downloads and decodes an image. PNG, JPEG, GIF, BMP, TIFF and WebP are understood.
func (l *Loader) Load(ctx context.Context, name string) (*image.RGBA, error) {
	location, err := Join(l.Dir(), name)
	if err != nil {
		return nil, err
	}

	ok, err := l.fs.Exists(ctx, location)
	if err != nil || !ok {
		return nil, errors.Wrap(ErrFileNotFound, location)
	}

	data, err := l.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", location)
	}

	err = l.checkSize(data)
	if err != nil {
		return nil, errors.Wrap(err, location)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode %s", location)
	}

	return toRGBA(img), nil
}

// checkSize reads the header only, so oversized images are refused before their pixels are allocated.
func (l *Loader) checkSize(data []byte) error {
	if l.maxPixels <= 0 {
		return nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "unable to decode header")
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil
	}

	if cfg.Width > l.maxPixels/cfg.Height {
		return errors.Wrapf(ErrImageTooLarge, "%dx%d exceeds the limit of %d pixels", cfg.Width, cfg.Height, l.maxPixels)
	}

	return nil
}

func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return rgba
}
