package native_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/minimage/pkg/gateway"
	"github.com/askiada/minimage/pkg/gateway/native"
)

func always(float32) bool { return true }

func filled(width, height int, c gateway.Color) gateway.Texture {
	tex := make(gateway.Texture, width*height)
	for i := range tex {
		tex[i] = c
	}

	return tex
}

func TestGenerateImage(t *testing.T) {
	t.Parallel()

	const width, height = 4, 2

	tex := make(gateway.Texture, width*height)
	require.NoError(t, native.New().GenerateImage(tex, width, height, always))

	assert.Equal(t, gateway.Color{R: 0, G: 0, B: 0, A: 255}, tex[0])
	assert.Equal(t, gateway.Color{R: 191, G: 0, B: 0, A: 255}, tex[3])
	assert.Equal(t, gateway.Color{R: 0, G: 0, B: 127, A: 255}, tex[4])
	assert.Equal(t, gateway.Color{R: 191, G: 191 * 127 / 255, B: 127, A: 255}, tex[7])
}

func TestRoutinesReportProgress(t *testing.T) {
	t.Parallel()

	const width, height = 8, 5

	routine := native.New()
	tcs := map[string]struct {
		run func(tex gateway.Texture, cb gateway.ProgressFunc) error
	}{
		"generate": {run: func(tex gateway.Texture, cb gateway.ProgressFunc) error {
			return routine.GenerateImage(tex, width, height, cb)
		}},
		"blur": {run: func(tex gateway.Texture, cb gateway.ProgressFunc) error {
			return routine.Blur(tex, width, height, 3, 3, cb)
		}},
		"circles": {run: func(tex gateway.Texture, cb gateway.ProgressFunc) error {
			return routine.DrawCircles(tex, width, height, []gateway.Circle{{X: 0.5, Y: 0.5, Radius: 0.2}}, cb)
		}},
		"colour correction": {run: func(tex gateway.Texture, cb gateway.ProgressFunc) error {
			return routine.ColorCorrection(tex, width, height, 0.1, 0.1, 0.1, cb)
		}},
		"gamma": {run: func(tex gateway.Texture, cb gateway.ProgressFunc) error {
			return routine.GammaCorrection(tex, width, height, 2, cb)
		}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var got []float32

			err := tc.run(make(gateway.Texture, width*height), func(p float32) bool {
				got = append(got, p)

				return true
			})
			require.NoError(t, err)
			require.NotEmpty(t, got)
			assert.InDelta(t, 1, got[len(got)-1], 1e-6)

			for i := 1; i < len(got); i++ {
				assert.GreaterOrEqual(t, got[i], got[i-1])
			}
		})
	}
}

func TestGenerateImageStops(t *testing.T) {
	t.Parallel()

	const width, height = 3, 4

	calls := 0
	tex := make(gateway.Texture, width*height)

	err := native.New().GenerateImage(tex, width, height, func(float32) bool {
		calls++

		return false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint8(255), tex[0].A)
	assert.Equal(t, uint8(0), tex[width].A)
}

func TestBlur(t *testing.T) {
	t.Parallel()

	t.Run("uniform image is unchanged", func(t *testing.T) {
		t.Parallel()

		c := gateway.Color{R: 10, G: 20, B: 30, A: 255}
		tex := filled(5, 5, c)
		require.NoError(t, native.New().Blur(tex, 5, 5, 3, 3, always))

		for _, got := range tex {
			assert.Equal(t, c, got)
		}
	})

	t.Run("spreads a single pixel", func(t *testing.T) {
		t.Parallel()

		tex := filled(3, 3, gateway.Color{A: 255})
		tex[4] = gateway.Color{R: 90, G: 90, B: 90, A: 255}
		require.NoError(t, native.New().Blur(tex, 3, 3, 3, 3, always))

		assert.Equal(t, uint8(10), tex[4].R)
		assert.Equal(t, uint8(22), tex[0].R)
	})

	t.Run("rejects empty kernel", func(t *testing.T) {
		t.Parallel()

		err := native.New().Blur(make(gateway.Texture, 4), 2, 2, 0, 1, always)
		assert.ErrorIs(t, err, gateway.ErrInvalidBlur)
	})
}

func TestDrawCircles(t *testing.T) {
	t.Parallel()

	const size = 10

	red := gateway.Color{R: 255, A: 255}
	tex := filled(size, size, gateway.Color{})

	err := native.New().DrawCircles(tex, size, size, []gateway.Circle{{X: 0.5, Y: 0.5, Radius: 0.2, Color: red}}, always)
	require.NoError(t, err)

	assert.Equal(t, red, tex[5*size+5])
	assert.Equal(t, red, tex[4*size+4])
	assert.Equal(t, gateway.Color{}, tex[0])
	assert.Equal(t, gateway.Color{}, tex[size*size-1])
}

func TestColorCorrection(t *testing.T) {
	t.Parallel()

	tex := filled(2, 2, gateway.Color{R: 100, G: 100, B: 100, A: 7})
	require.NoError(t, native.New().ColorCorrection(tex, 2, 2, 1, -1, 0, always))

	for _, got := range tex {
		assert.Equal(t, gateway.Color{R: 255, G: 0, B: 100, A: 7}, got)
	}
}

func TestGammaCorrection(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		gamma float32
		in    uint8
		want  uint8
	}{
		"identity": {gamma: 1, in: 64, want: 64},
		"brighten": {gamma: 2, in: 64, want: 128},
		"darken":   {gamma: 0.5, in: 128, want: 64},
		"black":    {gamma: 2.2, in: 0, want: 0},
		"white":    {gamma: 2.2, in: 255, want: 255},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tex := filled(1, 1, gateway.Color{R: tc.in, G: tc.in, B: tc.in, A: 255})
			require.NoError(t, native.New().GammaCorrection(tex, 1, 1, tc.gamma, always))
			assert.Equal(t, gateway.Color{R: tc.want, G: tc.want, B: tc.want, A: 255}, tex[0])
		})
	}

	assert.ErrorIs(t, native.New().GammaCorrection(make(gateway.Texture, 1), 1, 1, 0, always), gateway.ErrInvalidGamma)
}

func TestProcessPixels(t *testing.T) {
	t.Parallel()

	const width, height = 3, 2

	type point struct{ x, y float32 }

	var got []point

	tex := make(gateway.Texture, width*height)
	err := native.New().ProcessPixels(tex, width, height, func(x, y float32, c gateway.Color) gateway.Color {
		got = append(got, point{x, y})
		c.A = 1

		return c
	}, always)
	require.NoError(t, err)

	assert.Equal(t, []point{{0, 0}, {0.5, 0}, {1, 0}, {0, 1}, {0.5, 1}, {1, 1}}, got)

	for _, c := range tex {
		assert.Equal(t, uint8(1), c.A)
	}
}

func TestSizeMismatch(t *testing.T) {
	t.Parallel()

	err := native.New().GenerateImage(make(gateway.Texture, 5), 2, 2, always)
	assert.ErrorIs(t, err, native.ErrTextureSize)

	err = native.New().GenerateImage(nil, 0, 2, always)
	assert.ErrorIs(t, err, gateway.ErrInvalidSize)
}
