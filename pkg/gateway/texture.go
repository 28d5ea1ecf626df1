package gateway

import "image"

// Color is a single RGBA pixel.
type Color struct {
	R, G, B, A uint8
}

// Texture is a row-major pixel buffer of width*height colours.
type Texture []Color

// ProgressFunc receives the completion of the running routine in [0,1]. A routine must stop as soon as it returns
// false.
type ProgressFunc func(progress float32) bool

// ModifyFunc maps a pixel to its new colour. x and y are normalized to [0,1].
type ModifyFunc func(x, y float32, existing Color) Color

// Circle is a filled disc. X, Y and Radius are normalized: the centre by the image width and height, the radius by
// the larger of the two.
type Circle struct {
	X, Y   float32
	Radius float32
	Color  Color
}

// Routine is the family of pixel routines the gateway drives. Implementations mutate the texture in place and
// return an error only for conditions that make the call meaningless.
type Routine interface {
	GenerateImage(tex Texture, width, height int, progress ProgressFunc) error
	Blur(tex Texture, width, height, blurWidth, blurHeight int, progress ProgressFunc) error
	DrawCircles(tex Texture, width, height int, circles []Circle, progress ProgressFunc) error
	ColorCorrection(tex Texture, width, height int, red, green, blue float32, progress ProgressFunc) error
	GammaCorrection(tex Texture, width, height int, gamma float32, progress ProgressFunc) error
	ProcessPixels(tex Texture, width, height int, modify ModifyFunc, progress ProgressFunc) error
}

func loadTexture(tex Texture, img *image.RGBA) {
	bounds := img.Bounds()
	width := bounds.Dx()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):]
		base := (y - bounds.Min.Y) * width

		for x := 0; x < width; x++ {
			tex[base+x] = Color{R: row[x*4], G: row[x*4+1], B: row[x*4+2], A: row[x*4+3]}
		}
	}
}

func storeTexture(tex Texture, img *image.RGBA) {
	bounds := img.Bounds()
	width := bounds.Dx()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):]
		base := (y - bounds.Min.Y) * width

		for x := 0; x < width; x++ {
			c := tex[base+x]
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = c.R, c.G, c.B, c.A
		}
	}
}
