package gateway

import (
	"context"
	"image"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Reporter receives the progress of a gateway call as a percentage.
type Reporter func(percent int)

// Gateway runs routines against images. It copies the image into a pooled texture, runs the routine with a progress
// callback bound to the context, and copies the result back.
type Gateway struct {
	routine   Routine
	pool      *BufferPool
	rnd       *rand.Rand
	maxPixels int
	mu        sync.Mutex
}

// DefaultMaxPixels is the largest image a gateway accepts unless WithMaxPixels says otherwise.
const DefaultMaxPixels = 1 << 26

type Option func(g *Gateway)

// WithRand sets the random source used to place circles.
func WithRand(rnd *rand.Rand) Option {
	return func(g *Gateway) {
		g.rnd = rnd
	}
}

// WithBufferPool shares a pool between gateways.
func WithBufferPool(pool *BufferPool) Option {
	return func(g *Gateway) {
		g.pool = pool
	}
}

// WithMaxPixels sets the largest width x height accepted. Values below 1 are ignored.
func WithMaxPixels(maxPixels int) Option {
	return func(g *Gateway) {
		if maxPixels > 0 {
			g.maxPixels = maxPixels
		}
	}
}

// New creates a gateway in front of routine.
func New(routine Routine, opts ...Option) (*Gateway, error) {
	if routine == nil {
		return nil, ErrRoutineMustBeSet
	}

	seed := uint64(time.Now().UnixNano())
	gw := &Gateway{
		routine:   routine,
		pool:      NewBufferPool(),
		rnd:       rand.New(rand.NewPCG(seed, seed>>1)), //nolint:gosec // not security sensitive
		maxPixels: DefaultMaxPixels,
	}

	for _, opt := range opts {
		opt(gw)
	}

	return gw, nil
}

// Pool returns the buffer pool backing the gateway.
func (g *Gateway) Pool() *BufferPool {
	return g.pool
}

// Generate creates a new width x height image with the routine's generator.
func (g *Gateway) Generate(ctx context.Context, width, height int, report Reporter) (*image.RGBA, error) {
	err := g.checkSize(width, height)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	err = g.call(ctx, img, report, func(tex Texture, w, h int, cb ProgressFunc) error {
		return g.routine.GenerateImage(tex, w, h, cb)
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to generate image")
	}

	return img, nil
}

// Blur applies a blurWidth x blurHeight box blur.
func (g *Gateway) Blur(ctx context.Context, img *image.RGBA, blurWidth, blurHeight int, report Reporter) error {
	if blurWidth <= 0 || blurHeight <= 0 {
		return ErrInvalidBlur
	}

	err := g.call(ctx, img, report, func(tex Texture, w, h int, cb ProgressFunc) error {
		return g.routine.Blur(tex, w, h, blurWidth, blurHeight, cb)
	})

	return errors.Wrap(err, "unable to blur image")
}

// RandomCircles draws count circles of radius pixels at random positions.
func (g *Gateway) RandomCircles(ctx context.Context, img *image.RGBA, count, radius int, report Reporter) error {
	if img == nil {
		return ErrImageMustBeSet
	}

	if count <= 0 {
		return ErrInvalidCircles
	}

	bounds := img.Bounds()
	if radius <= 0 || radius > min(bounds.Dx(), bounds.Dy())/2 {
		return errors.Wrapf(ErrInvalidRadius, "radius %d for a %dx%d image", radius, bounds.Dx(), bounds.Dy())
	}

	circles := g.randomCircles(count, float32(radius)/float32(max(bounds.Dx(), bounds.Dy())))

	err := g.call(ctx, img, report, func(tex Texture, w, h int, cb ProgressFunc) error {
		return g.routine.DrawCircles(tex, w, h, circles, cb)
	})

	return errors.Wrap(err, "unable to draw circles")
}

// ColorCorrection shifts the red, green and blue channels.
func (g *Gateway) ColorCorrection(ctx context.Context, img *image.RGBA, red, green, blue float32, report Reporter) error {
	err := g.call(ctx, img, report, func(tex Texture, w, h int, cb ProgressFunc) error {
		return g.routine.ColorCorrection(tex, w, h, red, green, blue, cb)
	})

	return errors.Wrap(err, "unable to correct colours")
}

// GammaCorrection applies a gamma curve.
func (g *Gateway) GammaCorrection(ctx context.Context, img *image.RGBA, gamma float32, report Reporter) error {
	if gamma <= 0 {
		return ErrInvalidGamma
	}

	err := g.call(ctx, img, report, func(tex Texture, w, h int, cb ProgressFunc) error {
		return g.routine.GammaCorrection(tex, w, h, gamma, cb)
	})

	return errors.Wrap(err, "unable to correct gamma")
}

// Room paints every pixel inside the normalized rectangle [x1,x2]x[y1,y2] white.
func (g *Gateway) Room(ctx context.Context, img *image.RGBA, x1, y1, x2, y2 float32, report Reporter) error {
	white := Color{R: 255, G: 255, B: 255, A: 255}
	modify := func(x, y float32, existing Color) Color {
		if x >= x1 && x <= x2 && y >= y1 && y <= y2 {
			return white
		}

		return existing
	}

	err := g.call(ctx, img, report, func(tex Texture, w, h int, cb ProgressFunc) error {
		return g.routine.ProcessPixels(tex, w, h, modify, cb)
	})

	return errors.Wrap(err, "unable to draw room")
}

func (g *Gateway) randomCircles(count int, radius float32) []Circle {
	g.mu.Lock()
	defer g.mu.Unlock()

	circles := make([]Circle, count)
	for i := range circles {
		circles[i] = Circle{
			X:      g.rnd.Float32(),
			Y:      g.rnd.Float32(),
			Radius: radius,
			Color: Color{
				R: uint8(g.rnd.IntN(256)), //nolint:gosec // bounded by IntN
				G: uint8(g.rnd.IntN(256)), //nolint:gosec // bounded by IntN
				B: uint8(g.rnd.IntN(256)), //nolint:gosec // bounded by IntN
				A: 255,
			},
		}
	}

	return circles
}

// call is the single place where textures are acquired and released. The texture goes back to the pool on every
// exit path, panics included. A run cut short by the progress callback still copies its partial result back.
func (g *Gateway) call(
	ctx context.Context,
	img *image.RGBA,
	report Reporter,
	run func(tex Texture, width, height int, progress ProgressFunc) error,
) error {
	if img == nil {
		return ErrImageMustBeSet
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	err := g.checkSize(width, height)
	if err != nil {
		return err
	}

	tex := g.pool.Get(width * height)
	defer g.pool.Put(tex)

	loadTexture(tex, img)

	progress := func(p float32) bool {
		if ctx.Err() != nil {
			return false
		}

		if report != nil {
			report(int(math.Round(float64(p) * 100)))
		}

		return true
	}

	err = run(tex, width, height, progress)
	if err != nil {
		return err
	}

	storeTexture(tex, img)

	return nil
}

// checkSize is called before any allocation.
func (g *Gateway) checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidSize
	}

	if width > g.maxPixels/height {
		return errors.Wrapf(ErrInvalidSize, "%dx%d exceeds the limit of %d pixels", width, height, g.maxPixels)
	}

	return nil
}
