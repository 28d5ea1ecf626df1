package chain

import (
	"strings"

	"github.com/pkg/errors"
)

const stageSeparator = "|"

// Plan is a validated command chain. Stages[0] is the only generating stage. Help stages are not part of a plan.
type Plan struct {
	Stages []Stage
}

// Generator returns the leading generating stage.
func (p *Plan) Generator() Stage {
	return p.Stages[0]
}

// ImageCount is the number of images the plan produces.
func (p *Plan) ImageCount() int {
	switch args := p.Generator().Args.(type) {
	case GenerateArgs:
		return args.Count
	default:
		return 1
	}
}

// StageCount is the number of stages executed for every image.
func (p *Plan) StageCount() int {
	return len(p.Stages)
}

func (p *Plan) String() string {
	texts := make([]string, len(p.Stages))
	for i, stage := range p.Stages {
		texts[i] = stage.Text
	}

	return strings.Join(texts, " "+stageSeparator+" ")
}

// Validate parses text into a Plan within DefaultLimits. On failure it returns a nil plan and a *ValidationError.
func Validate(text string) (*Plan, error) {
	return ValidateWithLimits(text, DefaultLimits)
}

// ValidateWithLimits is Validate with explicit limits on the generated images.
func ValidateWithLimits(text string, limits Limits) (*Plan, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newValidationError(ErrEmptyChain, "", -1)
	}

	parts := strings.Split(text, stageSeparator)
	plan := &Plan{Stages: make([]Stage, 0, len(parts))}

	for index, part := range parts {
		part = strings.TrimSpace(part)

		tokens := strings.Fields(part)
		if len(tokens) == 0 {
			return nil, newValidationError(ErrEmptyStage, part, index)
		}

		name := tokens[0]
		if name == string(TagHelp) {
			if len(tokens) > 1 {
				return nil, newValidationError(errors.Wrap(ErrInvalidArguments, "Help takes no arguments"), part, index)
			}

			continue
		}

		stage, err := parseStage(name, tokens[1:], part, len(plan.Stages) == 0, limits)
		if err != nil {
			return nil, newValidationError(err, part, index)
		}

		plan.Stages = append(plan.Stages, stage)
	}

	if len(plan.Stages) == 0 {
		return nil, newValidationError(ErrHelpRequested, "", -1)
	}

	return plan, nil
}

func parseStage(name string, args []string, text string, first bool, limits Limits) (Stage, error) {
	def, ok := Lookup(name)

	switch {
	case first && (!ok || !def.Generating):
		return Stage{}, ErrMissingGenerator
	case !ok:
		return Stage{}, ErrUnknownStage
	case !first && def.Generating:
		return Stage{}, ErrDuplicateGenerator
	}

	parsed, err := def.Parse(args)
	if err != nil {
		return Stage{}, errors.Wrapf(ErrInvalidArguments, "usage %q: %v", def.Usage, err)
	}

	err = limits.check(parsed)
	if err != nil {
		return Stage{}, errors.Wrap(ErrInvalidArguments, err.Error())
	}

	return Stage{
		Tag:  def.Tag,
		Args: parsed,
		Text: text,
	}, nil
}
