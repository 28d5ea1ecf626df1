package chain

import "github.com/pkg/errors"

// Limits bounds what a Generate stage may ask for. A zero field is not checked.
type Limits struct {
	// MaxImages is the largest image count.
	MaxImages int
	// MaxPixels is the largest width x height of one image.
	MaxPixels int
	// MaxBatchPixels is the largest image count x width x height.
	MaxBatchPixels int
}

// DefaultLimits are used by Validate: 4096x4096 images, up to 256 of them, 128M pixels per batch.
var DefaultLimits = Limits{
	MaxImages:      256,
	MaxPixels:      4096 * 4096,
	MaxBatchPixels: 128 << 20,
}

func (l Limits) check(args Args) error {
	gen, ok := args.(GenerateArgs)
	if !ok {
		return nil
	}

	if l.MaxImages > 0 && gen.Count > l.MaxImages {
		return errors.Errorf("image count %d exceeds the limit of %d images", gen.Count, l.MaxImages)
	}

	// Divisions keep the products from overflowing.
	if l.MaxPixels > 0 && gen.Width > l.MaxPixels/gen.Height {
		return errors.Errorf("%dx%d exceeds the limit of %d pixels per image", gen.Width, gen.Height, l.MaxPixels)
	}

	if l.MaxBatchPixels > 0 &&
		(gen.Width > l.MaxBatchPixels/gen.Height || gen.Count > l.MaxBatchPixels/(gen.Width*gen.Height)) {
		return errors.Errorf("%d images of %dx%d exceed the limit of %d pixels per batch",
			gen.Count, gen.Width, gen.Height, l.MaxBatchPixels)
	}

	return nil
}
