// Package native is a pure Go implementation of the gateway routines. Every routine works row by row, reports its
// progress after each row, and returns as soon as the progress callback asks it to stop.
package native

import (
	"math"

	"github.com/pkg/errors"

	"github.com/askiada/minimage/pkg/gateway"
)

var ErrTextureSize = errors.New("texture does not match the image size")

// Routine implements gateway.Routine.
type Routine struct{}

// New creates the routine set.
func New() *Routine {
	return &Routine{}
}

// GenerateImage fills the texture with a gradient: red grows left to right, blue top to bottom and green is their
// product.
func (r *Routine) GenerateImage(tex gateway.Texture, width, height int, progress gateway.ProgressFunc) error {
	if err := checkSize(tex, width, height); err != nil {
		return err
	}

	for y := 0; y < height; y++ {
		blue := 255 * y / height

		for x := 0; x < width; x++ {
			red := 255 * x / width
			tex[y*width+x] = gateway.Color{
				R: uint8(red),              //nolint:gosec // 0..255
				G: uint8(red * blue / 255), //nolint:gosec // 0..255
				B: uint8(blue),             //nolint:gosec // 0..255
				A: 255,
			}
		}

		if !progress(rowProgress(y, height)) {
			return nil
		}
	}

	return nil
}

// Blur applies a separable box blur of blurWidth x blurHeight pixels. The horizontal pass accounts for the first half
// of the progress and the vertical pass for the second.
func (r *Routine) Blur(tex gateway.Texture, width, height, blurWidth, blurHeight int, progress gateway.ProgressFunc) error {
	if err := checkSize(tex, width, height); err != nil {
		return err
	}

	if blurWidth <= 0 || blurHeight <= 0 {
		return gateway.ErrInvalidBlur
	}

	tmp := make(gateway.Texture, len(tex))

	halfW, halfH := blurWidth/2, blurHeight/2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tmp[y*width+x] = average(tex, width, max(0, x-halfW), min(width-1, x-halfW+blurWidth-1), y, y)
		}

		if !progress(rowProgress(y, height) / 2) {
			return nil
		}
	}

	for y := 0; y < height; y++ {
		y0, y1 := max(0, y-halfH), min(height-1, y-halfH+blurHeight-1)
		for x := 0; x < width; x++ {
			tex[y*width+x] = average(tmp, width, x, x, y0, y1)
		}

		if !progress(0.5 + rowProgress(y, height)/2) {
			return nil
		}
	}

	return nil
}

// DrawCircles paints every circle as a filled disc.
func (r *Routine) DrawCircles(
	tex gateway.Texture,
	width, height int,
	circles []gateway.Circle,
	progress gateway.ProgressFunc,
) error {
	if err := checkSize(tex, width, height); err != nil {
		return err
	}

	scale := float32(max(width, height))

	for y := 0; y < height; y++ {
		for _, c := range circles {
			cx, cy, radius := c.X*float32(width), c.Y*float32(height), c.Radius*scale
			dy := float32(y) + 0.5 - cy

			if dy*dy > radius*radius {
				continue
			}

			span := float32(math.Sqrt(float64(radius*radius - dy*dy)))
			x0 := max(0, int(math.Ceil(float64(cx-span-0.5))))
			x1 := min(width-1, int(math.Floor(float64(cx+span-0.5))))

			for x := x0; x <= x1; x++ {
				tex[y*width+x] = c.Color
			}
		}

		if !progress(rowProgress(y, height)) {
			return nil
		}
	}

	return nil
}

// ColorCorrection adds red, green and blue, expressed as a fraction of the full channel range, to every pixel.
func (r *Routine) ColorCorrection(
	tex gateway.Texture,
	width, height int,
	red, green, blue float32,
	progress gateway.ProgressFunc,
) error {
	return r.ProcessPixels(tex, width, height, func(_, _ float32, c gateway.Color) gateway.Color {
		return gateway.Color{
			R: toChannel(fromChannel(c.R) + red),
			G: toChannel(fromChannel(c.G) + green),
			B: toChannel(fromChannel(c.B) + blue),
			A: c.A,
		}
	}, progress)
}

// GammaCorrection maps every channel through in^(1/gamma).
func (r *Routine) GammaCorrection(tex gateway.Texture, width, height int, gamma float32, progress gateway.ProgressFunc) error {
	if gamma <= 0 {
		return gateway.ErrInvalidGamma
	}

	var lut [256]uint8

	exponent := 1 / float64(gamma)
	for i := range lut {
		lut[i] = toChannel(float32(math.Pow(float64(i)/255, exponent)))
	}

	return r.ProcessPixels(tex, width, height, func(_, _ float32, c gateway.Color) gateway.Color {
		return gateway.Color{R: lut[c.R], G: lut[c.G], B: lut[c.B], A: c.A}
	}, progress)
}

// ProcessPixels replaces every pixel by modify(x, y, pixel) where x and y are the normalized pixel coordinates.
func (r *Routine) ProcessPixels(
	tex gateway.Texture,
	width, height int,
	modify gateway.ModifyFunc,
	progress gateway.ProgressFunc,
) error {
	if err := checkSize(tex, width, height); err != nil {
		return err
	}

	for y := 0; y < height; y++ {
		ny := normalize(y, height)

		for x := 0; x < width; x++ {
			i := y*width + x
			tex[i] = modify(normalize(x, width), ny, tex[i])
		}

		if !progress(rowProgress(y, height)) {
			return nil
		}
	}

	return nil
}

func checkSize(tex gateway.Texture, width, height int) error {
	if width <= 0 || height <= 0 {
		return gateway.ErrInvalidSize
	}

	if len(tex) != width*height {
		return errors.Wrapf(ErrTextureSize, "got %d pixels for %dx%d", len(tex), width, height)
	}

	return nil
}

func average(tex gateway.Texture, width, x0, x1, y0, y1 int) gateway.Color {
	var r, g, b, a, n int

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c := tex[y*width+x]
			r += int(c.R)
			g += int(c.G)
			b += int(c.B)
			a += int(c.A)
			n++
		}
	}

	return gateway.Color{
		R: uint8(r / n), //nolint:gosec // average of uint8
		G: uint8(g / n), //nolint:gosec // average of uint8
		B: uint8(b / n), //nolint:gosec // average of uint8
		A: uint8(a / n), //nolint:gosec // average of uint8
	}
}

func rowProgress(y, height int) float32 {
	return float32(y+1) / float32(height)
}

func normalize(v, size int) float32 {
	if size <= 1 {
		return 0
	}

	return float32(v) / float32(size-1)
}

func fromChannel(v uint8) float32 {
	return float32(v) / 255
}

func toChannel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(math.Round(float64(v) * 255))
	}
}

var _ gateway.Routine = (*Routine)(nil)
