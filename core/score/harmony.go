package score

// FiguredBassNumber is one interval number of a figured bass mark, with an
// optional accidental.
type FiguredBassNumber struct {
	Number  int
	Accs    int
	HasAccs bool
}

// FiguredBassMark is a stack of figured bass numbers placed in a figured
// bass context.
type FiguredBassMark struct {
	elementBase
	numbers []FiguredBassNumber
	context *FiguredBassContext
}

// NewFiguredBassMark creates an empty figured bass mark in ctx.
func NewFiguredBassMark(ctx *FiguredBassContext, timeStart, timeLength int) *FiguredBassMark {
	f := &FiguredBassMark{context: ctx}
	f.timeStart = timeStart
	f.timeLength = timeLength
	return f
}

func (f *FiguredBassMark) ElementType() ElementType      { return ElemFiguredBassMark }
func (f *FiguredBassMark) Numbers() []FiguredBassNumber  { return f.numbers }
func (f *FiguredBassMark) Context() *FiguredBassContext  { return f.context }

// AddNumber appends an interval number without an accidental.
func (f *FiguredBassMark) AddNumber(n int) {
	f.numbers = append(f.numbers, FiguredBassNumber{Number: n})
}

// AddNumberAccs appends an interval number with an accidental offset.
func (f *FiguredBassMark) AddNumberAccs(n, accs int) {
	f.numbers = append(f.numbers, FiguredBassNumber{Number: n, Accs: accs, HasAccs: true})
}

func (f *FiguredBassMark) Equivalent(other Element) bool {
	o, ok := other.(*FiguredBassMark)
	if !ok || len(o.numbers) != len(f.numbers) {
		return false
	}
	for i := range f.numbers {
		if o.numbers[i] != f.numbers[i] {
			return false
		}
	}
	return true
}

// FunctionType is a harmonic function degree used by function marks.
type FunctionType int

const (
	FuncUndefined FunctionType = iota
	FuncT
	FuncS
	FuncD
	FuncII
	FuncIII
	FuncVI
	FuncVII
	FuncK
	FuncN
	FuncL
)

var functionNames = [...]string{"", "T", "S", "D", "II", "III", "VI", "VII", "K", "N", "L"}

// FunctionTypeFromString parses the serialized function degree; unknown
// input yields FuncUndefined.
func FunctionTypeFromString(s string) FunctionType {
	for i, name := range functionNames {
		if i > 0 && s == name {
			return FunctionType(i)
		}
	}
	return FuncUndefined
}

// String returns the serialized function degree.
func (t FunctionType) String() string {
	if t < 0 || int(t) >= len(functionNames) {
		return ""
	}
	return functionNames[t]
}

// FunctionMark is one harmonic-function annotation in a function mark
// context: the function itself, an optional surrounding chord area and
// tonic degree, and the key all three are read in.
type FunctionMark struct {
	elementBase
	function         FunctionType
	minor            bool
	key              DiatonicKey
	chordArea        FunctionType
	chordAreaMinor   bool
	tonicDegree      FunctionType
	tonicDegreeMinor bool
	ellipse          bool
	context          *FunctionMarkContext
}

// NewFunctionMark creates a function mark in ctx.
func NewFunctionMark(function FunctionType, minor bool, key DiatonicKey, ctx *FunctionMarkContext,
	timeStart, timeLength int, chordArea FunctionType, chordAreaMinor bool,
	tonicDegree FunctionType, tonicDegreeMinor bool, ellipse bool) *FunctionMark {
	f := &FunctionMark{
		function:         function,
		minor:            minor,
		key:              key,
		chordArea:        chordArea,
		chordAreaMinor:   chordAreaMinor,
		tonicDegree:      tonicDegree,
		tonicDegreeMinor: tonicDegreeMinor,
		ellipse:          ellipse,
		context:          ctx,
	}
	f.timeStart = timeStart
	f.timeLength = timeLength
	return f
}

func (f *FunctionMark) ElementType() ElementType       { return ElemFunctionMark }
func (f *FunctionMark) Function() FunctionType         { return f.function }
func (f *FunctionMark) Minor() bool                    { return f.minor }
func (f *FunctionMark) Key() DiatonicKey               { return f.key }
func (f *FunctionMark) SetKey(k DiatonicKey)           { f.key = k }
func (f *FunctionMark) ChordArea() FunctionType        { return f.chordArea }
func (f *FunctionMark) ChordAreaMinor() bool           { return f.chordAreaMinor }
func (f *FunctionMark) TonicDegree() FunctionType      { return f.tonicDegree }
func (f *FunctionMark) TonicDegreeMinor() bool         { return f.tonicDegreeMinor }
func (f *FunctionMark) Ellipse() bool                  { return f.ellipse }
func (f *FunctionMark) Context() *FunctionMarkContext  { return f.context }

func (f *FunctionMark) Equivalent(other Element) bool {
	o, ok := other.(*FunctionMark)
	return ok && o.function == f.function && o.minor == f.minor && o.key == f.key &&
		o.chordArea == f.chordArea && o.chordAreaMinor == f.chordAreaMinor &&
		o.tonicDegree == f.tonicDegree && o.tonicDegreeMinor == f.tonicDegreeMinor &&
		o.ellipse == f.ellipse
}

// ChordName is one chord symbol in a chord name context: a root pitch plus
// a free-form quality modifier like "m7" or "maj7".
type ChordName struct {
	elementBase
	pitch           DiatonicPitch
	qualityModifier string
	context         *ChordNameContext
}

// NewChordName creates a chord name in ctx.
func NewChordName(pitch DiatonicPitch, qualityModifier string, ctx *ChordNameContext, timeStart, timeLength int) *ChordName {
	c := &ChordName{pitch: pitch, qualityModifier: qualityModifier, context: ctx}
	c.timeStart = timeStart
	c.timeLength = timeLength
	return c
}

func (c *ChordName) ElementType() ElementType   { return ElemChordName }
func (c *ChordName) Pitch() DiatonicPitch       { return c.pitch }
func (c *ChordName) SetPitch(p DiatonicPitch)   { c.pitch = p }
func (c *ChordName) QualityModifier() string    { return c.qualityModifier }
func (c *ChordName) Context() *ChordNameContext { return c.context }

func (c *ChordName) Equivalent(other Element) bool {
	o, ok := other.(*ChordName)
	return ok && o.pitch == c.pitch && o.qualityModifier == c.qualityModifier
}
