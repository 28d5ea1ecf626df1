package chain

// Tag identifies a stage kind.
type Tag string

const (
	TagGenerate        Tag = "Generate"
	TagInput           Tag = "Input"
	TagBlur            Tag = "Blur"
	TagRandomCircles   Tag = "RandomCircles"
	TagColorCorrection Tag = "ColorCorrection"
	TagGammaCorrection Tag = "GammaCorrection"
	TagRoom            Tag = "Room"
	TagOutput          Tag = "Output"
	TagHelp            Tag = "Help"
)

// Args is implemented by the typed arguments of every stage. The set of implementations is closed.
type Args interface {
	tag() Tag
}

// GenerateArgs creates Count images of Width x Height pixels.
type GenerateArgs struct {
	Count  int
	Width  int
	Height int
}

// InputArgs loads a single image from Path.
type InputArgs struct {
	Path string
}

// BlurArgs applies a Width x Height box blur.
type BlurArgs struct {
	Width  int
	Height int
}

// RandomCirclesArgs draws Count circles of Radius pixels at random positions.
type RandomCirclesArgs struct {
	Count  int
	Radius int
}

// ColorCorrectionArgs shifts each channel by a fraction of its full range.
type ColorCorrectionArgs struct {
	Red   float32
	Green float32
	Blue  float32
}

// GammaCorrectionArgs applies a gamma curve.
type GammaCorrectionArgs struct {
	Gamma float32
}

// RoomArgs fills the rectangle [X1,X2]x[Y1,Y2], given in normalized [0,1] coordinates.
type RoomArgs struct {
	X1 float32
	Y1 float32
	X2 float32
	Y2 float32
}

// OutputArgs sets the file name prefix used when saving.
type OutputArgs struct {
	Prefix string
}

func (GenerateArgs) tag() Tag        { return TagGenerate }
func (InputArgs) tag() Tag           { return TagInput }
func (BlurArgs) tag() Tag            { return TagBlur }
func (RandomCirclesArgs) tag() Tag   { return TagRandomCircles }
func (ColorCorrectionArgs) tag() Tag { return TagColorCorrection }
func (GammaCorrectionArgs) tag() Tag { return TagGammaCorrection }
func (RoomArgs) tag() Tag            { return TagRoom }
func (OutputArgs) tag() Tag          { return TagOutput }

// Stage is one parsed command of a chain.
type Stage struct {
	Args Args
	Tag  Tag
	// Text is the stage as typed, trimmed.
	Text string
}

// Generating reports whether the stage creates a fresh image.
func (s Stage) Generating() bool {
	def, ok := registry[string(s.Tag)]

	return ok && def.Generating
}
