package score

// SlurVariant distinguishes ties, slurs and phrasing slurs. All three share
// the Slur representation: a start note and an end note resolved later.
type SlurVariant int

const (
	TieType SlurVariant = iota
	SlurType
	PhrasingSlurType
)

// String returns the serialized slur variant.
func (v SlurVariant) String() string {
	switch v {
	case SlurType:
		return "slur"
	case PhrasingSlurType:
		return "phrasing-slur"
	default:
		return "tie"
	}
}

// SlurStyle selects the drawn line style.
type SlurStyle int

const (
	SlurSolid SlurStyle = iota
	SlurDottedStyle
)

// SlurStyleFromString parses the serialized slur style.
func SlurStyleFromString(s string) SlurStyle {
	if s == "dotted" {
		return SlurDottedStyle
	}
	return SlurSolid
}

// String returns the serialized slur style.
func (s SlurStyle) String() string {
	if s == SlurDottedStyle {
		return "dotted"
	}
	return "solid"
}

// SlurDirection selects which side of the notes the curve is drawn on.
type SlurDirection int

const (
	SlurPreferred SlurDirection = iota
	SlurUp
	SlurDown
)

// SlurDirectionFromString parses the serialized slur direction.
func SlurDirectionFromString(s string) SlurDirection {
	switch s {
	case "up":
		return SlurUp
	case "down":
		return SlurDown
	default:
		return SlurPreferred
	}
}

// String returns the serialized slur direction.
func (d SlurDirection) String() string {
	switch d {
	case SlurUp:
		return "up"
	case SlurDown:
		return "down"
	default:
		return "preferred"
	}
}

// Slur connects a start note to an end note. The end note is unknown when
// the slur is created; once set, the slur's time length is the distance
// between the two notes' start positions. A slur whose end was never
// resolved keeps a nil end note, which readers treat as a data-integrity
// warning rather than an error.
type Slur struct {
	elementBase
	variant   SlurVariant
	style     SlurStyle
	direction SlurDirection
	noteStart *Note
	noteEnd   *Note
	staff     *Staff
}

// NewSlur creates a slur starting on start. end may be nil.
func NewSlur(variant SlurVariant, direction SlurDirection, staff *Staff, start, end *Note) *Slur {
	s := &Slur{variant: variant, direction: direction, staff: staff, noteStart: start, noteEnd: end}
	if start != nil {
		s.timeStart = start.TimeStart()
	}
	if start != nil && end != nil {
		s.timeLength = end.TimeStart() - start.TimeStart()
	}
	return s
}

func (s *Slur) ElementType() ElementType     { return ElemSlur }
func (s *Slur) Variant() SlurVariant         { return s.variant }
func (s *Slur) Style() SlurStyle             { return s.style }
func (s *Slur) SetStyle(st SlurStyle)        { s.style = st }
func (s *Slur) Direction() SlurDirection     { return s.direction }
func (s *Slur) SetDirection(d SlurDirection) { s.direction = d }
func (s *Slur) NoteStart() *Note             { return s.noteStart }
func (s *Slur) NoteEnd() *Note               { return s.noteEnd }
func (s *Slur) Staff() *Staff                { return s.staff }

// SetNoteEnd resolves the end note of the slur.
func (s *Slur) SetNoteEnd(n *Note) { s.noteEnd = n }

func (s *Slur) Equivalent(other Element) bool {
	o, ok := other.(*Slur)
	return ok && o.variant == s.variant && o.style == s.style && o.direction == s.direction
}

// Tuplet groups playable elements whose durations are scaled by the ratio
// actualNumber:number (e.g. a triplet of eighths has number 3 and actual
// number 2: three notes in the time of two).
type Tuplet struct {
	elementBase
	number       int
	actualNumber int
	members      []Playable
}

// NewTuplet creates an empty tuplet with the given ratio.
func NewTuplet(number, actualNumber int) *Tuplet {
	return &Tuplet{number: number, actualNumber: actualNumber}
}

func (t *Tuplet) ElementType() ElementType { return ElemTuplet }
func (t *Tuplet) Number() int              { return t.number }
func (t *Tuplet) ActualNumber() int        { return t.actualNumber }
func (t *Tuplet) Members() []Playable      { return t.members }

// AddMember registers a playable element as part of the tuplet. Member
// timing stays untouched until AssignTimes runs.
func (t *Tuplet) AddMember(p Playable) { t.members = append(t.members, p) }

func (t *Tuplet) Equivalent(other Element) bool {
	o, ok := other.(*Tuplet)
	return ok && o.number == t.number && o.actualNumber == t.actualNumber
}

// AssignTimes recomputes the timing of every member in one batch: each
// member's duration becomes its raw playable-length duration scaled by
// actualNumber/number, and start positions are laid out cumulatively from
// the first member's position. Run once, after all members are known.
func (t *Tuplet) AssignTimes() {
	if len(t.members) == 0 || t.number == 0 {
		return
	}
	cursor := t.members[0].TimeStart()
	t.timeStart = cursor
	for _, m := range t.members {
		scaled := m.PlayableLength().TimeLength() * t.actualNumber / t.number
		m.SetTimeStart(cursor)
		m.SetTimeLength(scaled)
		cursor += scaled
	}
	t.timeLength = cursor - t.timeStart
}
