package score

// StemDirection selects how a note stem is drawn.
type StemDirection int

const (
	StemNeutral StemDirection = iota
	StemUp
	StemDown
	StemVoiceDefault
)

var stemNames = [...]string{"neutral", "up", "down", "voice-default"}

// StemDirectionFromString parses the serialized stem direction; unknown
// input yields the neutral direction.
func StemDirectionFromString(s string) StemDirection {
	for i, name := range stemNames {
		if s == name {
			return StemDirection(i)
		}
	}
	return StemNeutral
}

// String returns the serialized stem direction.
func (d StemDirection) String() string {
	if d < 0 || int(d) >= len(stemNames) {
		return stemNames[0]
	}
	return stemNames[d]
}

// Note is a pitched playable element. Ties and slurs starting or ending on
// the note are held by reference; the Slur instances themselves know both
// end notes once resolved.
type Note struct {
	playableBase
	pitch             DiatonicPitch
	stemDirection     StemDirection
	tieStart          *Slur
	tieEnd            *Slur
	slurStart         *Slur
	slurEnd           *Slur
	phrasingSlurStart *Slur
	phrasingSlurEnd   *Slur
}

// NewNote creates a note owned by voice at the given absolute time
// position. timeLength is the explicit serialized duration; callers using
// a playable length recompute it via CalculateTimeLength.
func NewNote(pitch DiatonicPitch, length PlayableLength, voice *Voice, timeStart, timeLength int) *Note {
	n := &Note{pitch: pitch}
	n.length = length
	n.voice = voice
	n.timeStart = timeStart
	n.timeLength = timeLength
	return n
}

func (n *Note) ElementType() ElementType { return ElemNote }

func (n *Note) Pitch() DiatonicPitch           { return n.pitch }
func (n *Note) SetPitch(p DiatonicPitch)       { n.pitch = p }
func (n *Note) StemDirection() StemDirection   { return n.stemDirection }
func (n *Note) SetStemDirection(d StemDirection) { n.stemDirection = d }

func (n *Note) TieStart() *Slur          { return n.tieStart }
func (n *Note) SetTieStart(s *Slur)      { n.tieStart = s }
func (n *Note) TieEnd() *Slur            { return n.tieEnd }
func (n *Note) SetTieEnd(s *Slur)        { n.tieEnd = s }
func (n *Note) SlurStart() *Slur         { return n.slurStart }
func (n *Note) SetSlurStart(s *Slur)     { n.slurStart = s }
func (n *Note) SlurEnd() *Slur           { return n.slurEnd }
func (n *Note) SetSlurEnd(s *Slur)       { n.slurEnd = s }
func (n *Note) PhrasingSlurStart() *Slur { return n.phrasingSlurStart }
func (n *Note) SetPhrasingSlurStart(s *Slur) { n.phrasingSlurStart = s }
func (n *Note) PhrasingSlurEnd() *Slur   { return n.phrasingSlurEnd }
func (n *Note) SetPhrasingSlurEnd(s *Slur) { n.phrasingSlurEnd = s }

// Staff returns the staff of the owning voice, or nil for a detached note.
func (n *Note) Staff() *Staff {
	if n.voice == nil {
		return nil
	}
	return n.voice.Staff()
}

func (n *Note) Equivalent(other Element) bool {
	o, ok := other.(*Note)
	return ok && o.pitch == n.pitch && o.length == n.length
}

// UpdateTies resolves an open tie ending on this note: the closest earlier
// note of the same pitch in the same voice whose tie has no end note yet
// and whose duration reaches this note's time position. The tie's length
// becomes the distance between the two start positions.
func (n *Note) UpdateTies() {
	if n.voice == nil {
		return
	}
	for _, m := range n.voice.NoteList() {
		if m == n {
			continue
		}
		tie := m.TieStart()
		if tie == nil || tie.NoteEnd() != nil {
			continue
		}
		if m.TimeEnd() == n.timeStart && m.Pitch() == n.pitch {
			tie.SetNoteEnd(n)
			n.tieEnd = tie
			tie.SetTimeLength(n.timeStart - m.TimeStart())
			return
		}
	}
}

// RestType distinguishes drawn rests from hidden placeholders.
type RestType int

const (
	RestNormal RestType = iota
	RestHidden
)

// RestTypeFromString parses the serialized rest type.
func RestTypeFromString(s string) RestType {
	if s == "hidden" {
		return RestHidden
	}
	return RestNormal
}

// String returns the serialized rest type.
func (t RestType) String() string {
	if t == RestHidden {
		return "hidden"
	}
	return "normal"
}

// Rest is an unpitched playable element.
type Rest struct {
	playableBase
	restType RestType
}

// NewRest creates a rest owned by voice at the given time position.
func NewRest(t RestType, length PlayableLength, voice *Voice, timeStart, timeLength int) *Rest {
	r := &Rest{restType: t}
	r.length = length
	r.voice = voice
	r.timeStart = timeStart
	r.timeLength = timeLength
	return r
}

func (r *Rest) ElementType() ElementType { return ElemRest }
func (r *Rest) RestType() RestType       { return r.restType }

func (r *Rest) Equivalent(other Element) bool {
	o, ok := other.(*Rest)
	return ok && o.restType == r.restType && o.length == r.length
}
