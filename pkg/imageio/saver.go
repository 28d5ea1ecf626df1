package imageio

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/afs"

	"github.com/askiada/minimage/pkg/pipeline"
)

const DefaultQuality = 90

// Saver writes the images of a run as JPEG files.
type Saver struct {
	fs            afs.Service
	out           io.Writer
	defaultPrefix string
	quality       int
}

type SaverOption func(s *Saver)

// WithQuality sets the JPEG quality, from 1 to 100.
func WithQuality(quality int) SaverOption {
	return func(s *Saver) {
		if quality >= 1 && quality <= 100 {
			s.quality = quality
		}
	}
}

// WithDefaultPrefix names the files of images without an Output stage. Defaults to DefaultPrefix.
func WithDefaultPrefix(prefix string) SaverOption {
	return func(s *Saver) {
		s.defaultPrefix = prefix
	}
}

// WithOutput sets where the "Saved: ..." lines are written.
func WithOutput(w io.Writer) SaverOption {
	return func(s *Saver) {
		s.out = w
	}
}

// WithService sets the afs service. Defaults to afs.New().
func WithService(fs afs.Service) SaverOption {
	return func(s *Saver) {
		s.fs = fs
	}
}

// NewSaver creates a saver.
func NewSaver(opts ...SaverOption) *Saver {
	saver := &Saver{
		fs:            afs.New(),
		out:           io.Discard,
		defaultPrefix: DefaultPrefix,
		quality:       DefaultQuality,
	}

	for _, opt := range opts {
		opt(saver)
	}

	return saver
}

// Save writes every image into dir, creating it when needed, and returns the locations written. Images without pixels
// are skipped.
func (s *Saver) Save(ctx context.Context, dir string, images []*pipeline.ImageState) ([]string, error) {
	base, err := Resolve(dir)
	if err != nil {
		return nil, err
	}

	exists, err := s.fs.Exists(ctx, base)
	if err != nil || !exists {
		err = s.fs.Create(ctx, base, 0o755, true)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to create %s", base)
		}
	}

	saved := make([]string, 0, len(images))

	for _, state := range images {
		if state == nil || state.Image == nil {
			id := -1
			if state != nil {
				id = state.ID
			}

			fmt.Fprintf(s.out, "Skipping uninitialized image ID: %d\n", id)

			continue
		}

		prefix := state.Prefix
		if strings.TrimSpace(prefix) == "" {
			prefix = s.defaultPrefix
		}

		name := FileName(prefix, state.ID)

		location, err := Join(base, name)
		if err != nil {
			return saved, err
		}

		var buf bytes.Buffer

		err = jpeg.Encode(&buf, state.Image, &jpeg.Options{Quality: s.quality})
		if err != nil {
			return saved, errors.Wrapf(err, "unable to encode %s", name)
		}

		err = s.fs.Upload(ctx, location, 0o644, &buf)
		if err != nil {
			return saved, errors.Wrapf(err, "unable to write %s", location)
		}

		fmt.Fprintf(s.out, "Saved: %s\n", name)

		saved = append(saved, location)
	}

	return saved, nil
}
