// Package score holds the in-memory model of a musical score: a document
// owning sheets, sheets owning contexts (staves and annotation lanes),
// staves owning voices, and voices holding time-ordered musical elements.
//
// Ownership is tree-shaped with one exception: staff-wide signs (clef, key
// signature, time signature, barline) are shared by reference between all
// voices of a staff at a given time position. The garbage collector supplies
// the "released when the last voice drops it" semantics.
package score

// ElementType discriminates the concrete type of a musical element.
type ElementType int

const (
	ElemUndefined ElementType = iota
	ElemClef
	ElemKeySignature
	ElemTimeSignature
	ElemBarline
	ElemNote
	ElemRest
	ElemSyllable
	ElemFiguredBassMark
	ElemFunctionMark
	ElemChordName
	ElemSlur
	ElemTuplet
)

// String returns the canonical name of the element type.
func (t ElementType) String() string {
	switch t {
	case ElemClef:
		return "clef"
	case ElemKeySignature:
		return "key-signature"
	case ElemTimeSignature:
		return "time-signature"
	case ElemBarline:
		return "barline"
	case ElemNote:
		return "note"
	case ElemRest:
		return "rest"
	case ElemSyllable:
		return "syllable"
	case ElemFiguredBassMark:
		return "figured-bass-mark"
	case ElemFunctionMark:
		return "function-mark"
	case ElemChordName:
		return "chord-name"
	case ElemSlur:
		return "slur"
	case ElemTuplet:
		return "tuplet"
	default:
		return "undefined"
	}
}

// Element is any timed musical object placed within a voice or context.
// TimeStart is an absolute tick position, TimeLength a duration in ticks.
type Element interface {
	ElementType() ElementType
	TimeStart() int
	SetTimeStart(t int)
	TimeEnd() int
	TimeLength() int
	SetTimeLength(l int)
	Color() Color
	SetColor(c Color)
	Marks() []Mark
	AddMark(m Mark)
	IsPlayable() bool

	// Equivalent reports whether other carries the same musical content.
	// Only elements of the same concrete type can be equivalent. Shared
	// staff signs are merged on this predicate.
	Equivalent(other Element) bool
}

// elementBase carries the state common to all elements. Concrete element
// types embed it and provide ElementType and Equivalent themselves.
type elementBase struct {
	timeStart  int
	timeLength int
	color      Color
	marks      []Mark
}

func (e *elementBase) TimeStart() int      { return e.timeStart }
func (e *elementBase) SetTimeStart(t int)  { e.timeStart = t }
func (e *elementBase) TimeLength() int     { return e.timeLength }
func (e *elementBase) SetTimeLength(l int) { e.timeLength = l }
func (e *elementBase) TimeEnd() int        { return e.timeStart + e.timeLength }
func (e *elementBase) Color() Color        { return e.color }
func (e *elementBase) SetColor(c Color)    { e.color = c }
func (e *elementBase) Marks() []Mark       { return e.marks }
func (e *elementBase) AddMark(m Mark)      { e.marks = append(e.marks, m) }
func (e *elementBase) IsPlayable() bool    { return false }
