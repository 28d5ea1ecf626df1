package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/minimage/internal/config"
	"github.com/askiada/minimage/internal/logging"
	"github.com/askiada/minimage/pkg/chain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "minimage.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		path string
	}{
		"no path":      {path: ""},
		"missing file": {path: filepath.Join(t.TempDir(), "absent.yaml")},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg, err := config.Load(tc.path)
			require.NoError(t, err)
			assert.Equal(t, config.Default(), cfg)
		})
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "save_dir: out\nbar_size: 20\nlog:\n  level: debug\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	want := config.Default()
	want.SaveDir = "out"
	want.BarSize = 20
	want.Log.Level = "debug"

	assert.Equal(t, want, cfg)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		content string
		wantErr error
	}{
		"bar size":   {content: "bar_size: 0\n", wantErr: config.ErrInvalidBarSize},
		"quality":    {content: "jpeg_quality: 101\n", wantErr: config.ErrInvalidQuality},
		"log level":  {content: "log:\n  level: loud\n", wantErr: logging.ErrUnknownLevel},
		"log format": {content: "log:\n  format: xml\n", wantErr: config.ErrInvalidFormat},
		"save dir":   {content: "save_dir: \"  \"\n", wantErr: config.ErrEmptySaveDir},
		"max images": {content: "max_images: 0\n", wantErr: config.ErrInvalidLimit},
		"max pixels": {content: "max_pixels: -1\n", wantErr: config.ErrInvalidLimit},
		"max batch":  {content: "max_batch_pixels: 0\n", wantErr: config.ErrInvalidLimit},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Load(writeFile(t, tc.content))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	_, err := config.Load(writeFile(t, "bar_size: [1, 2\n"))
	assert.Error(t, err)
}

func TestLimits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, chain.DefaultLimits, config.Default().Limits())

	cfg, err := config.Load(writeFile(t, "max_images: 4\nmax_pixels: 100\nmax_batch_pixels: 300\n"))
	require.NoError(t, err)

	limits := cfg.Limits()
	assert.Equal(t, chain.Limits{MaxImages: 4, MaxPixels: 100, MaxBatchPixels: 300}, limits)

	_, err = chain.ValidateWithLimits("Generate 1 20 20", limits)
	require.ErrorIs(t, err, chain.ErrInvalidArguments)
	assert.Contains(t, err.Error(), "limit of 100 pixels")
}
