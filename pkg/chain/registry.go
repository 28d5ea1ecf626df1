package chain

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// Definition describes how a stage is written and parsed.
type Definition struct {
	parse       func(args []string) (Args, error)
	Tag         Tag
	Usage       string
	Description string
	// Arity is the number of tokens, stage name included.
	Arity      int
	Generating bool
}

// Parse converts the argument tokens (stage name excluded) into typed arguments.
func (d Definition) Parse(args []string) (Args, error) {
	if len(args)+1 != d.Arity {
		return nil, errors.Errorf("expected %d arguments, got %d", d.Arity-1, len(args))
	}

	if d.parse == nil {
		return nil, nil
	}

	return d.parse(args)
}

var definitions = []Definition{
	{
		Tag:         TagGenerate,
		Arity:       4,
		Generating:  true,
		Usage:       "Generate <imagesnumber> <width> <height>",
		Description: "generates a batch of images with a colour gradient",
		parse:       parseGenerate,
	},
	{
		Tag:         TagInput,
		Arity:       2,
		Generating:  true,
		Usage:       "Input <file_name>",
		Description: "loads an image with the given name from the save directory",
		parse: func(args []string) (Args, error) {
			return InputArgs{Path: args[0]}, nil
		},
	},
	{
		Tag:         TagBlur,
		Arity:       3,
		Usage:       "Blur <width> <height>",
		Description: "applies a box blur of the given size",
		parse: func(args []string) (Args, error) {
			ints, err := parseInts(args)
			if err != nil {
				return nil, err
			}

			return BlurArgs{Width: ints[0], Height: ints[1]}, nil
		},
	},
	{
		Tag:         TagOutput,
		Arity:       2,
		Usage:       "Output <filename_prefix>",
		Description: "sets the prefix of the saved files",
		parse: func(args []string) (Args, error) {
			return OutputArgs{Prefix: args[0]}, nil
		},
	},
	{
		Tag:         TagRandomCircles,
		Arity:       3,
		Usage:       "RandomCircles <number> <radius>",
		Description: "draws circles at random positions",
		parse: func(args []string) (Args, error) {
			ints, err := parseInts(args)
			if err != nil {
				return nil, err
			}

			return RandomCirclesArgs{Count: ints[0], Radius: ints[1]}, nil
		},
	},
	{
		Tag:         TagColorCorrection,
		Arity:       4,
		Usage:       "ColorCorrection <red> <green> <blue>",
		Description: "shifts the colour channels, values from -1 to 1",
		parse: func(args []string) (Args, error) {
			floats, err := parseFloats(args)
			if err != nil {
				return nil, err
			}

			return ColorCorrectionArgs{Red: floats[0], Green: floats[1], Blue: floats[2]}, nil
		},
	},
	{
		Tag:         TagGammaCorrection,
		Arity:       2,
		Usage:       "GammaCorrection <gamma>",
		Description: "applies gamma correction",
		parse: func(args []string) (Args, error) {
			floats, err := parseFloats(args)
			if err != nil {
				return nil, err
			}

			return GammaCorrectionArgs{Gamma: floats[0]}, nil
		},
	},
	{
		Tag:         TagRoom,
		Arity:       5,
		Usage:       "Room <x1> <y1> <x2> <y2>",
		Description: "fills a rectangle in white, coordinates from 0 to 1",
		parse: func(args []string) (Args, error) {
			floats, err := parseFloats(args)
			if err != nil {
				return nil, err
			}

			return RoomArgs{X1: floats[0], Y1: floats[1], X2: floats[2], Y2: floats[3]}, nil
		},
	},
	{
		Tag:         TagHelp,
		Arity:       1,
		Usage:       "Help",
		Description: "lists the available commands",
	},
}

var registry = func() map[string]Definition {
	reg := make(map[string]Definition, len(definitions))
	for _, def := range definitions {
		reg[string(def.Tag)] = def
	}

	return reg
}()

// Definitions returns every known stage in help order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)

	return out
}

// Lookup returns the definition registered under name. Names are case sensitive.
func Lookup(name string) (Definition, bool) {
	def, ok := registry[name]

	return def, ok
}

func parseGenerate(args []string) (Args, error) {
	ints, err := parseInts(args)
	if err != nil {
		return nil, err
	}

	for i, name := range []string{"image count", "width", "height"} {
		if ints[i] < 1 {
			return nil, errors.Errorf("%s must be at least 1, got %d", name, ints[i])
		}
	}

	return GenerateArgs{Count: ints[0], Width: ints[1], Height: ints[2]}, nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))

	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i+1)
		}

		out[i] = v
	}

	return out, nil
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))

	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i+1)
		}

		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Errorf("argument %d: %q is not a finite number", i+1, arg)
		}

		out[i] = float32(v)
	}

	return out, nil
}
