package score

// Syllable is one lyric syllable placed in a lyrics context. Its associated
// voice is a weak reference: serialized as a voice index and resolved to a
// direct reference only once the sheet's voice list is complete.
type Syllable struct {
	elementBase
	text            string
	hyphen          bool
	melisma         bool
	context         *LyricsContext
	associatedVoice *Voice
}

// NewSyllable creates a syllable in the given lyrics context.
func NewSyllable(text string, hyphen, melisma bool, ctx *LyricsContext, timeStart, timeLength int) *Syllable {
	s := &Syllable{text: text, hyphen: hyphen, melisma: melisma, context: ctx}
	s.timeStart = timeStart
	s.timeLength = timeLength
	return s
}

func (s *Syllable) ElementType() ElementType { return ElemSyllable }
func (s *Syllable) Text() string             { return s.text }
func (s *Syllable) Hyphen() bool             { return s.hyphen }
func (s *Syllable) Melisma() bool            { return s.melisma }
func (s *Syllable) Context() *LyricsContext  { return s.context }

// AssociatedVoice returns the resolved voice reference, or nil when the
// serialized index was absent or out of range.
func (s *Syllable) AssociatedVoice() *Voice     { return s.associatedVoice }
func (s *Syllable) SetAssociatedVoice(v *Voice) { s.associatedVoice = v }

func (s *Syllable) Equivalent(other Element) bool {
	o, ok := other.(*Syllable)
	return ok && o.text == s.text && o.hyphen == s.hyphen && o.melisma == s.melisma
}
