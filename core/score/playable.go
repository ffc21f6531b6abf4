package score

import "strconv"

// WholeTicks is the tick duration of an undotted whole note. A quarter note
// is WholeTicks/4 = 256 ticks; a breve is 2*WholeTicks.
const WholeTicks = 1024

// MusicLength is a note value expressed as the denominator of the note
// fraction: 1 for whole, 2 for half, 4 for quarter and so on. Breve is
// stored as 0.
type MusicLength int

const (
	LengthUndefined           MusicLength = -1
	LengthBreve               MusicLength = 0
	LengthWhole               MusicLength = 1
	LengthHalf                MusicLength = 2
	LengthQuarter             MusicLength = 4
	LengthEighth              MusicLength = 8
	LengthSixteenth           MusicLength = 16
	LengthThirtySecond        MusicLength = 32
	LengthSixtyFourth         MusicLength = 64
	LengthHundredTwentyEighth MusicLength = 128
)

// MusicLengthFromString parses the serialized note value. Unknown or empty
// input yields LengthUndefined.
func MusicLengthFromString(s string) MusicLength {
	if s == "" {
		return LengthUndefined
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return LengthUndefined
	}
	switch l := MusicLength(n); l {
	case LengthBreve, LengthWhole, LengthHalf, LengthQuarter, LengthEighth,
		LengthSixteenth, LengthThirtySecond, LengthSixtyFourth, LengthHundredTwentyEighth:
		return l
	default:
		return LengthUndefined
	}
}

// String returns the serialized note value, or "" for LengthUndefined.
func (l MusicLength) String() string {
	if l == LengthUndefined {
		return ""
	}
	return strconv.Itoa(int(l))
}

// PlayableLength is a note value plus a dot count. It determines the tick
// duration of notes and rests outside tuplets.
type PlayableLength struct {
	Length MusicLength
	Dotted int
}

// Defined reports whether the length carries a usable note value.
func (l PlayableLength) Defined() bool { return l.Length != LengthUndefined }

// TimeLength returns the duration in ticks. Each dot extends the duration
// by half of the previous extension.
func (l PlayableLength) TimeLength() int {
	var base int
	switch l.Length {
	case LengthUndefined:
		return 0
	case LengthBreve:
		base = 2 * WholeTicks
	default:
		base = WholeTicks / int(l.Length)
	}
	total, dot := base, base
	for i := 0; i < l.Dotted; i++ {
		dot /= 2
		total += dot
	}
	return total
}

// Playable is an element that occupies musical time within a voice: a note
// or a rest.
type Playable interface {
	Element
	PlayableLength() PlayableLength
	SetPlayableLength(l PlayableLength)
	Tuplet() *Tuplet
	SetTuplet(t *Tuplet)
	Voice() *Voice

	// CalculateTimeLength derives the tick duration from the playable
	// length. Members of a tuplet are instead timed by the tuplet's own
	// batch pass.
	CalculateTimeLength()
}

type playableBase struct {
	elementBase
	length PlayableLength
	tuplet *Tuplet
	voice  *Voice
}

func (p *playableBase) PlayableLength() PlayableLength     { return p.length }
func (p *playableBase) SetPlayableLength(l PlayableLength) { p.length = l }
func (p *playableBase) Tuplet() *Tuplet                    { return p.tuplet }
func (p *playableBase) SetTuplet(t *Tuplet)                { p.tuplet = t }
func (p *playableBase) Voice() *Voice                      { return p.voice }
func (p *playableBase) IsPlayable() bool                   { return true }
func (p *playableBase) CalculateTimeLength()               { p.timeLength = p.length.TimeLength() }
