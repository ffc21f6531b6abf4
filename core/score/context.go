package score

// ContextType discriminates the concrete type of a context.
type ContextType int

const (
	ContextStaff ContextType = iota
	ContextLyrics
	ContextFiguredBass
	ContextFunctionMark
	ContextChordName
)

// String returns the canonical name of the context type.
func (t ContextType) String() string {
	switch t {
	case ContextLyrics:
		return "lyrics-context"
	case ContextFiguredBass:
		return "figured-bass-context"
	case ContextFunctionMark:
		return "function-mark-context"
	case ContextChordName:
		return "chord-name-context"
	default:
		return "staff"
	}
}

// Context is a named lane within a sheet, holding either playable voices
// (Staff) or a parallel annotation track.
type Context interface {
	ContextType() ContextType
	Name() string
	SetName(name string)
	Sheet() *Sheet
}

type contextBase struct {
	name  string
	sheet *Sheet
}

func (c *contextBase) Name() string        { return c.name }
func (c *contextBase) SetName(name string) { c.name = name }
func (c *contextBase) Sheet() *Sheet       { return c.sheet }

// Staff is a context holding an ordered list of voices on a number of
// staff lines.
type Staff struct {
	contextBase
	numberOfLines int
	voices        []*Voice
}

// NewStaff creates a staff belonging to sheet. The staff is not added to
// the sheet; callers do that via Sheet.AddContext.
func NewStaff(name string, sheet *Sheet, numberOfLines int) *Staff {
	if numberOfLines == 0 {
		numberOfLines = 5
	}
	return &Staff{contextBase: contextBase{name: name, sheet: sheet}, numberOfLines: numberOfLines}
}

func (s *Staff) ContextType() ContextType { return ContextStaff }
func (s *Staff) NumberOfLines() int       { return s.numberOfLines }
func (s *Staff) VoiceList() []*Voice      { return s.voices }

// AddVoice appends a voice to the staff.
func (s *Staff) AddVoice(v *Voice) {
	v.staff = s
	s.voices = append(s.voices, v)
}

// ElementsAt returns the distinct elements of the given type placed at the
// absolute time position timeStart in any voice of the staff. Shared signs
// referenced from several voices appear once.
func (s *Staff) ElementsAt(t ElementType, timeStart int) []Element {
	var found []Element
	for _, v := range s.voices {
		for _, e := range v.Elements() {
			if e.ElementType() != t || e.TimeStart() != timeStart {
				continue
			}
			seen := false
			for _, f := range found {
				if f == e {
					seen = true
					break
				}
			}
			if !seen {
				found = append(found, e)
			}
		}
	}
	return found
}

// SynchronizeVoices propagates every shared sign referenced by any voice of
// the staff to all its voices: a clef read in voice one must also be
// present in voice two at the same time position. Voices that already hold
// the sign are left untouched.
func (s *Staff) SynchronizeVoices() {
	var signs []Element
	for _, v := range s.voices {
		for _, e := range v.Elements() {
			if !IsSign(e.ElementType()) {
				continue
			}
			seen := false
			for _, f := range signs {
				if f == e {
					seen = true
					break
				}
			}
			if !seen {
				signs = append(signs, e)
			}
		}
	}
	for _, sign := range signs {
		for _, v := range s.voices {
			if !v.Contains(sign) {
				v.InsertSign(sign)
			}
		}
	}
}

// LyricsContext is an annotation lane holding lyric syllables, optionally
// bound to one voice of the sheet.
type LyricsContext struct {
	contextBase
	stanzaNumber    int
	syllables       []*Syllable
	associatedVoice *Voice
}

// NewLyricsContext creates a lyrics context belonging to sheet.
func NewLyricsContext(name string, stanzaNumber int, sheet *Sheet) *LyricsContext {
	return &LyricsContext{contextBase: contextBase{name: name, sheet: sheet}, stanzaNumber: stanzaNumber}
}

func (c *LyricsContext) ContextType() ContextType { return ContextLyrics }
func (c *LyricsContext) StanzaNumber() int        { return c.stanzaNumber }
func (c *LyricsContext) Syllables() []*Syllable   { return c.syllables }

// AddSyllable appends a syllable to the context.
func (c *LyricsContext) AddSyllable(s *Syllable) { c.syllables = append(c.syllables, s) }

// AssociatedVoice returns the voice the lyrics follow, or nil.
func (c *LyricsContext) AssociatedVoice() *Voice     { return c.associatedVoice }
func (c *LyricsContext) SetAssociatedVoice(v *Voice) { c.associatedVoice = v }

// FiguredBassContext is an annotation lane holding figured bass marks.
type FiguredBassContext struct {
	contextBase
	marks []*FiguredBassMark
}

// NewFiguredBassContext creates a figured bass context belonging to sheet.
func NewFiguredBassContext(name string, sheet *Sheet) *FiguredBassContext {
	return &FiguredBassContext{contextBase: contextBase{name: name, sheet: sheet}}
}

func (c *FiguredBassContext) ContextType() ContextType  { return ContextFiguredBass }
func (c *FiguredBassContext) Marks() []*FiguredBassMark { return c.marks }

// AddMark appends a figured bass mark to the context.
func (c *FiguredBassContext) AddMark(m *FiguredBassMark) { c.marks = append(c.marks, m) }

// FunctionMarkContext is an annotation lane holding harmonic-function
// marks.
type FunctionMarkContext struct {
	contextBase
	marks []*FunctionMark
}

// NewFunctionMarkContext creates a function mark context belonging to
// sheet.
func NewFunctionMarkContext(name string, sheet *Sheet) *FunctionMarkContext {
	return &FunctionMarkContext{contextBase: contextBase{name: name, sheet: sheet}}
}

func (c *FunctionMarkContext) ContextType() ContextType { return ContextFunctionMark }
func (c *FunctionMarkContext) Marks() []*FunctionMark   { return c.marks }

// AddMark appends a function mark to the context.
func (c *FunctionMarkContext) AddMark(m *FunctionMark) { c.marks = append(c.marks, m) }

// ChordNameContext is an annotation lane holding chord symbols.
type ChordNameContext struct {
	contextBase
	chordNames []*ChordName
}

// NewChordNameContext creates a chord name context belonging to sheet.
func NewChordNameContext(name string, sheet *Sheet) *ChordNameContext {
	return &ChordNameContext{contextBase: contextBase{name: name, sheet: sheet}}
}

func (c *ChordNameContext) ContextType() ContextType { return ContextChordName }
func (c *ChordNameContext) ChordNames() []*ChordName { return c.chordNames }

// AddChordName appends a chord symbol to the context.
func (c *ChordNameContext) AddChordName(cn *ChordName) { c.chordNames = append(c.chordNames, cn) }
