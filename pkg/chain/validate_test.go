package chain_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/minimage/pkg/chain"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		text       string
		want       []chain.Stage
		imageCount int
	}{
		"generate blur output": {
			text:       "Generate 3 100 100|Blur 3 3|Output demo",
			imageCount: 3,
			want: []chain.Stage{
				{Tag: chain.TagGenerate, Args: chain.GenerateArgs{Count: 3, Width: 100, Height: 100}, Text: "Generate 3 100 100"},
				{Tag: chain.TagBlur, Args: chain.BlurArgs{Width: 3, Height: 3}, Text: "Blur 3 3"},
				{Tag: chain.TagOutput, Args: chain.OutputArgs{Prefix: "demo"}, Text: "Output demo"},
			},
		},
		"input only": {
			text:       "  Input picture.jpeg  ",
			imageCount: 1,
			want: []chain.Stage{
				{Tag: chain.TagInput, Args: chain.InputArgs{Path: "picture.jpeg"}, Text: "Input picture.jpeg"},
			},
		},
		"every processing stage": {
			text: "Generate 1 10 20 | RandomCircles 4 2 | ColorCorrection 0.1 -0.2 0.3 | GammaCorrection 2.2 | " +
				"Room 0 0 0.5 0.5",
			imageCount: 1,
			want: []chain.Stage{
				{Tag: chain.TagGenerate, Args: chain.GenerateArgs{Count: 1, Width: 10, Height: 20}, Text: "Generate 1 10 20"},
				{Tag: chain.TagRandomCircles, Args: chain.RandomCirclesArgs{Count: 4, Radius: 2}, Text: "RandomCircles 4 2"},
				{
					Tag:  chain.TagColorCorrection,
					Args: chain.ColorCorrectionArgs{Red: 0.1, Green: -0.2, Blue: 0.3},
					Text: "ColorCorrection 0.1 -0.2 0.3",
				},
				{Tag: chain.TagGammaCorrection, Args: chain.GammaCorrectionArgs{Gamma: 2.2}, Text: "GammaCorrection 2.2"},
				{Tag: chain.TagRoom, Args: chain.RoomArgs{X1: 0, Y1: 0, X2: 0.5, Y2: 0.5}, Text: "Room 0 0 0.5 0.5"},
			},
		},
		"help stages are skipped": {
			text:       "Help | Generate 2 5 5 | Help | Blur 1 1",
			imageCount: 2,
			want: []chain.Stage{
				{Tag: chain.TagGenerate, Args: chain.GenerateArgs{Count: 2, Width: 5, Height: 5}, Text: "Generate 2 5 5"},
				{Tag: chain.TagBlur, Args: chain.BlurArgs{Width: 1, Height: 1}, Text: "Blur 1 1"},
			},
		},
		"extra whitespace between tokens": {
			text:       "Generate\t2   4 4",
			imageCount: 2,
			want: []chain.Stage{
				{Tag: chain.TagGenerate, Args: chain.GenerateArgs{Count: 2, Width: 4, Height: 4}, Text: "Generate\t2   4 4"},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			plan, err := chain.Validate(tc.text)
			require.NoError(t, err)

			if diff := cmp.Diff(tc.want, plan.Stages); diff != "" {
				t.Errorf("unexpected stages (-want +got):\n%s", diff)
			}

			assert.Equal(t, tc.imageCount, plan.ImageCount())
			assert.Equal(t, len(tc.want), plan.StageCount())
			assert.GreaterOrEqual(t, plan.StageCount(), 1)
			assert.GreaterOrEqual(t, plan.ImageCount(), 1)
			assert.True(t, plan.Generator().Generating())
		})
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		wantErr   error
		text      string
		wantStage string
		wantIndex int
	}{
		"empty": {
			text:      "",
			wantErr:   chain.ErrEmptyChain,
			wantIndex: -1,
		},
		"whitespace only": {
			text:      "   \t ",
			wantErr:   chain.ErrEmptyChain,
			wantIndex: -1,
		},
		"help only": {
			text:      "Help",
			wantErr:   chain.ErrHelpRequested,
			wantIndex: -1,
		},
		"help with arguments": {
			text:      "Help me",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "Help me",
		},
		"no leading generator": {
			text:      "Blur 3 3",
			wantErr:   chain.ErrMissingGenerator,
			wantStage: "Blur 3 3",
		},
		"unknown first stage": {
			text:      "Sharpen 3",
			wantErr:   chain.ErrMissingGenerator,
			wantStage: "Sharpen 3",
		},
		"duplicate generator": {
			text:      "Generate 2 10 10|Generate 1 5 5",
			wantErr:   chain.ErrDuplicateGenerator,
			wantStage: "Generate 1 5 5",
			wantIndex: 1,
		},
		"input after generate": {
			text:      "Generate 2 10 10|Input a.png",
			wantErr:   chain.ErrDuplicateGenerator,
			wantStage: "Input a.png",
			wantIndex: 1,
		},
		"non numeric count": {
			text:      "Generate abc 10 10",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "Generate abc 10 10",
		},
		"too many images": {
			text:      "Generate 1000 10 10",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "Generate 1000 10 10",
		},
		"image too large": {
			text:      "Generate 1 200000 200000",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "Generate 1 200000 200000",
		},
		"overflowing size": {
			text:      "Generate 1 9223372036854775807 9223372036854775807",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "Generate 1 9223372036854775807 9223372036854775807",
		},
		"batch too large": {
			text:      "Generate 256 4096 4096",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "Generate 256 4096 4096",
		},
		"zero images": {
			text:      "Generate 0 10 10",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "Generate 0 10 10",
		},
		"negative width": {
			text:      "Generate 1 -10 10",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "Generate 1 -10 10",
		},
		"wrong arity": {
			text:      "Generate 1 10 10 | Blur 3",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "Blur 3",
			wantIndex: 1,
		},
		"float for int": {
			text:      "Generate 1 10 10 | RandomCircles 2.5 3",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "RandomCircles 2.5 3",
			wantIndex: 1,
		},
		"not a float": {
			text:      "Generate 1 10 10 | GammaCorrection bright",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "GammaCorrection bright",
			wantIndex: 1,
		},
		"not finite": {
			text:      "Generate 1 10 10 | GammaCorrection NaN",
			wantErr:   chain.ErrInvalidArguments,
			wantStage: "GammaCorrection NaN",
			wantIndex: 1,
		},
		"unknown stage": {
			text:      "Generate 1 10 10 | Sharpen 3",
			wantErr:   chain.ErrUnknownStage,
			wantStage: "Sharpen 3",
			wantIndex: 1,
		},
		"names are case sensitive": {
			text:      "Generate 1 10 10 | blur 3 3",
			wantErr:   chain.ErrUnknownStage,
			wantStage: "blur 3 3",
			wantIndex: 1,
		},
		"empty stage": {
			text:      "Generate 1 10 10 || Blur 3 3",
			wantErr:   chain.ErrEmptyStage,
			wantIndex: 1,
		},
		"trailing separator": {
			text:      "Generate 1 10 10 |",
			wantErr:   chain.ErrEmptyStage,
			wantIndex: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			plan, err := chain.Validate(tc.text)
			require.Error(t, err)
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, tc.wantErr)

			var vErr *chain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.wantStage, vErr.Stage)
			assert.Equal(t, tc.wantIndex, vErr.Index)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	_, err := chain.Validate("Generate 1 10 10 | Blur 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid command "Blur 3"`)
	assert.Contains(t, err.Error(), "Blur <width> <height>")

	_, err = chain.Validate("")
	require.Error(t, err)
	assert.Equal(t, chain.ErrEmptyChain.Error(), err.Error())
}

func TestPlanString(t *testing.T) {
	t.Parallel()

	plan, err := chain.Validate("Generate 2 3 4|  Blur 1 1 |Output x")
	require.NoError(t, err)
	assert.Equal(t, "Generate 2 3 4 | Blur 1 1 | Output x", plan.String())
}

func TestDefinitions(t *testing.T) {
	t.Parallel()

	defs := chain.Definitions()
	require.NotEmpty(t, defs)

	generating := 0

	for _, def := range defs {
		got, ok := chain.Lookup(string(def.Tag))
		require.True(t, ok, def.Tag)
		assert.Equal(t, def.Arity, got.Arity)
		assert.True(t, strings.HasPrefix(def.Usage, string(def.Tag)), def.Usage)
		assert.Len(t, strings.Fields(def.Usage), def.Arity, def.Usage)

		if def.Generating {
			generating++
		}
	}

	assert.Equal(t, 2, generating)

	defs[0].Usage = "mutated"
	assert.NotEqual(t, "mutated", chain.Definitions()[0].Usage)
}

func TestHelp(t *testing.T) {
	t.Parallel()

	help := chain.Help()

	for _, def := range chain.Definitions() {
		assert.Contains(t, help, def.Usage)
	}

	assert.Contains(t, help, chain.ChangePathUsage)
	assert.Contains(t, help, "'x'")
	assert.Less(t, strings.Index(help, "Generating commands"), strings.Index(help, "Processing commands"))
}

func TestValidateWithLimits(t *testing.T) {
	t.Parallel()

	limits := chain.Limits{MaxImages: 4, MaxPixels: 100, MaxBatchPixels: 200}

	tcs := map[string]struct {
		text    string
		limits  chain.Limits
		wantMsg string
	}{
		"within limits":         {text: "Generate 2 10 10", limits: limits},
		"input is not limited":  {text: "Input huge.png", limits: limits},
		"zero limits unchecked": {text: "Generate 100000 200000 200000", limits: chain.Limits{}},
		"image count":           {text: "Generate 5 1 1", limits: limits, wantMsg: "limit of 4 images"},
		"pixels per image":      {text: "Generate 1 11 10", limits: limits, wantMsg: "limit of 100 pixels per image"},
		"pixels per batch":      {text: "Generate 3 10 10", limits: limits, wantMsg: "limit of 200 pixels per batch"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			plan, err := chain.ValidateWithLimits(tc.text, tc.limits)
			if tc.wantMsg == "" {
				require.NoError(t, err)
				assert.NotNil(t, plan)

				return
			}

			require.ErrorIs(t, err, chain.ErrInvalidArguments)
			assert.Contains(t, err.Error(), tc.wantMsg)
			assert.Nil(t, plan)
		})
	}
}

func TestValidateMalformedGenerator(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		text    string
		wantErr error
	}{
		"bad count":       {text: "Generate abc 10 10", wantErr: chain.ErrInvalidArguments},
		"missing file":    {text: "Input", wantErr: chain.ErrInvalidArguments},
		"misspelled name": {text: "Generat 1 10 10", wantErr: chain.ErrMissingGenerator},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := chain.Validate(tc.text)
			require.ErrorIs(t, err, tc.wantErr)

			for _, other := range []error{chain.ErrInvalidArguments, chain.ErrMissingGenerator} {
				if other != tc.wantErr {
					assert.NotErrorIs(t, err, other)
				}
			}
		})
	}
}
