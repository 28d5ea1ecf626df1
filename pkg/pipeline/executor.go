package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/minimage/pkg/chain"
)

// Progress messages shown next to an image's bar.
const (
	msgGenerating      = "Generating..."
	msgLoading         = "Loading Image"
	msgProcessing      = "Processing Image"
	msgLoaded          = "Image Loaded"
	msgBlurring        = "Blurring..."
	msgCircles         = "Drawing Circles..."
	msgColorCorrecting = "Color Correcting..."
	msgGammaCorrecting = "Gamma Correcting..."
	msgRoom            = "Drawing Room..."
	msgNaming          = "Naming File"
)

type executor func(ctx context.Context, run *imageRun, args chain.Args) error

// executors holds one entry per non-help stage tag. Validation rejects every other name.
var executors = map[chain.Tag]executor{
	chain.TagGenerate:        generate,
	chain.TagInput:           input,
	chain.TagBlur:            blur,
	chain.TagRandomCircles:   randomCircles,
	chain.TagColorCorrection: colorCorrection,
	chain.TagGammaCorrection: gammaCorrection,
	chain.TagRoom:            room,
	chain.TagOutput:          output,
}

func argsAs[T chain.Args](args chain.Args) (T, error) {
	typed, ok := args.(T)
	if !ok {
		return typed, errors.Wrapf(ErrArgsMismatch, "got %T", args)
	}

	return typed, nil
}

func generate(ctx context.Context, run *imageRun, args chain.Args) error {
	a, err := argsAs[chain.GenerateArgs](args)
	if err != nil {
		return err
	}

	img, err := run.gateway.Generate(ctx, a.Width, a.Height, run.progress(msgGenerating))
	if err != nil {
		return err
	}

	run.state.Image = img

	return nil
}

func input(ctx context.Context, run *imageRun, args chain.Args) error {
	a, err := argsAs[chain.InputArgs](args)
	if err != nil {
		return err
	}

	run.report(0, msgLoading)

	img, err := run.loader.Load(ctx, a.Path)
	if err != nil {
		return errors.Wrapf(err, "unable to load %s", a.Path)
	}

	run.report(50, msgProcessing)
	run.state.Image = img
	run.report(100, msgLoaded)

	return nil
}

func blur(ctx context.Context, run *imageRun, args chain.Args) error {
	a, err := argsAs[chain.BlurArgs](args)
	if err != nil {
		return err
	}

	return run.gateway.Blur(ctx, run.state.Image, a.Width, a.Height, run.progress(msgBlurring))
}

func randomCircles(ctx context.Context, run *imageRun, args chain.Args) error {
	a, err := argsAs[chain.RandomCirclesArgs](args)
	if err != nil {
		return err
	}

	return run.gateway.RandomCircles(ctx, run.state.Image, a.Count, a.Radius, run.progress(msgCircles))
}

func colorCorrection(ctx context.Context, run *imageRun, args chain.Args) error {
	a, err := argsAs[chain.ColorCorrectionArgs](args)
	if err != nil {
		return err
	}

	return run.gateway.ColorCorrection(ctx, run.state.Image, a.Red, a.Green, a.Blue, run.progress(msgColorCorrecting))
}

func gammaCorrection(ctx context.Context, run *imageRun, args chain.Args) error {
	a, err := argsAs[chain.GammaCorrectionArgs](args)
	if err != nil {
		return err
	}

	return run.gateway.GammaCorrection(ctx, run.state.Image, a.Gamma, run.progress(msgGammaCorrecting))
}

func room(ctx context.Context, run *imageRun, args chain.Args) error {
	a, err := argsAs[chain.RoomArgs](args)
	if err != nil {
		return err
	}

	return run.gateway.Room(ctx, run.state.Image, a.X1, a.Y1, a.X2, a.Y2, run.progress(msgRoom))
}

func output(_ context.Context, run *imageRun, args chain.Args) error {
	a, err := argsAs[chain.OutputArgs](args)
	if err != nil {
		return err
	}

	run.report(0, msgNaming)
	run.state.Prefix = a.Prefix
	run.report(100, msgNaming)

	return nil
}
