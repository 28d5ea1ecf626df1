package imageio_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/askiada/minimage/pkg/imageio"
	"github.com/askiada/minimage/pkg/pipeline"
)

func TestFileName(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		prefix string
		want   string
		id     int
	}{
		"with prefix":  {prefix: "demo", id: 0, want: "demo_1.jpeg"},
		"no prefix":    {prefix: "", id: 0, want: "default_1.jpeg"},
		"blank prefix": {prefix: "  ", id: 2, want: "default_3.jpeg"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, imageio.FileName(tc.prefix, tc.id))
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	got, err := imageio.Join("mem://localhost/dir", "a.png")
	require.NoError(t, err)
	assert.Equal(t, "mem://localhost/dir/a.png", got)

	got, err = imageio.Join("mem://localhost/dir", "/abs/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/abs/a.png", got)

	got, err = imageio.Join("/tmp", "mem://localhost/b.png")
	require.NoError(t, err)
	assert.Equal(t, "mem://localhost/b.png", got)
}

func TestSave(t *testing.T) {
	t.Parallel()

	const dir = "mem://localhost/imageio/save"

	var out bytes.Buffer

	saver := imageio.NewSaver(imageio.WithOutput(&out), imageio.WithQuality(75))
	images := []*pipeline.ImageState{
		{ID: 0, Prefix: "demo", Image: image.NewRGBA(image.Rect(0, 0, 4, 3))},
		{ID: 1, Image: image.NewRGBA(image.Rect(0, 0, 2, 2))},
		{ID: 2},
	}

	saved, err := saver.Save(t.Context(), dir, images)
	require.NoError(t, err)
	assert.Equal(t, []string{dir + "/demo_1.jpeg", dir + "/default_2.jpeg"}, saved)

	fs := afs.New()
	data, err := fs.DownloadWithURL(t.Context(), dir+"/demo_1.jpeg")
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())

	assert.Equal(t, "Saved: demo_1.jpeg\nSaved: default_2.jpeg\nSkipping uninitialized image ID: 2\n", out.String())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	const dir = "mem://localhost/imageio/load"

	fs := afs.New()

	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	require.NoError(t, fs.Upload(t.Context(), dir+"/in.png", 0o644, &buf))
	require.NoError(t, fs.Upload(t.Context(), dir+"/broken.png", 0o644, strings.NewReader("not an image")))

	loader := imageio.NewLoader("mem://localhost/elsewhere", nil)
	loader.SetDir(dir)
	assert.Equal(t, dir, loader.Dir())

	img, err := loader.Load(t.Context(), "in.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, img.RGBAAt(2, 1))

	_, err = loader.Load(t.Context(), "missing.png")
	require.ErrorIs(t, err, imageio.ErrFileNotFound)

	_, err = loader.Load(t.Context(), "broken.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, imageio.ErrFileNotFound)
}

func TestDirExists(t *testing.T) {
	t.Parallel()

	const dir = "mem://localhost/imageio/dirs"

	fs := afs.New()
	require.NoError(t, fs.Create(t.Context(), dir+"/present", 0o755, true))
	require.NoError(t, fs.Upload(t.Context(), dir+"/file.txt", 0o644, strings.NewReader("x")))

	tcs := map[string]struct {
		location string
		want     bool
	}{
		"directory": {location: dir + "/present", want: true},
		"file":      {location: dir + "/file.txt", want: false},
		"missing":   {location: dir + "/absent", want: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := imageio.DirExists(t.Context(), fs, tc.location)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSaveDefaultPrefix(t *testing.T) {
	t.Parallel()

	const dir = "mem://localhost/imageio/prefix"

	saver := imageio.NewSaver(imageio.WithDefaultPrefix("batch"))

	saved, err := saver.Save(t.Context(), dir, []*pipeline.ImageState{
		{ID: 4, Image: image.NewRGBA(image.Rect(0, 0, 1, 1))},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{dir + "/batch_5.jpeg"}, saved)
}

func TestLoadFormats(t *testing.T) {
	t.Parallel()

	const dir = "mem://localhost/imageio/formats"

	src := image.NewRGBA(image.Rect(0, 0, 4, 3))
	src.SetRGBA(1, 2, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	tcs := map[string]struct {
		encode func(w io.Writer, img image.Image) error
	}{
		"png": {encode: png.Encode},
		"bmp": {encode: bmp.Encode},
		"tiff": {encode: func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, nil)
		}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, tc.encode(&buf, src))

			fs := afs.New()
			require.NoError(t, fs.Upload(t.Context(), dir+"/in."+name, 0o644, &buf))

			img, err := imageio.NewLoader(dir, fs).Load(t.Context(), "in."+name)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
			assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, img.RGBAAt(1, 2))
		})
	}
}

func TestLoadMaxPixels(t *testing.T) {
	t.Parallel()

	const dir = "mem://localhost/imageio/limits"

	fs := afs.New()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 5, 4))))
	require.NoError(t, fs.Upload(t.Context(), dir+"/big.png", 0o644, &buf))

	tcs := map[string]struct {
		maxPixels int
		wantErr   error
	}{
		"above limit": {maxPixels: 19, wantErr: imageio.ErrImageTooLarge},
		"at limit":    {maxPixels: 20},
		"unlimited":   {maxPixels: 0},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			loader := imageio.NewLoader(dir, fs, imageio.WithMaxPixels(tc.maxPixels))

			img, err := loader.Load(t.Context(), "big.png")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, img)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 5, 4), img.Bounds())
		})
	}
}
