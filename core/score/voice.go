package score

// Voice is an ordered-by-time sequence of musical elements belonging to
// exactly one staff. For staff-wide signs the voice holds a reference: the
// same sign instance may be held by several sibling voices at once.
type Voice struct {
	name            string
	staff           *Staff
	stemDirection   StemDirection
	midiChannel     int
	midiProgram     int
	midiPitchOffset int
	elements        []Element
}

// NewVoice creates a voice for staff with the given default stem
// direction. The voice is not added to the staff; callers do that via
// Staff.AddVoice.
func NewVoice(name string, staff *Staff, stemDirection StemDirection) *Voice {
	return &Voice{name: name, staff: staff, stemDirection: stemDirection}
}

func (v *Voice) Name() string                 { return v.name }
func (v *Voice) SetName(name string)          { v.name = name }
func (v *Voice) Staff() *Staff                { return v.staff }
func (v *Voice) StemDirection() StemDirection { return v.stemDirection }
func (v *Voice) MidiChannel() int             { return v.midiChannel }
func (v *Voice) SetMidiChannel(c int)         { v.midiChannel = c }
func (v *Voice) MidiProgram() int             { return v.midiProgram }
func (v *Voice) SetMidiProgram(p int)         { v.midiProgram = p }
func (v *Voice) MidiPitchOffset() int         { return v.midiPitchOffset }
func (v *Voice) SetMidiPitchOffset(o int)     { v.midiPitchOffset = o }

// Elements returns the voice's element sequence in time order.
func (v *Voice) Elements() []Element { return v.elements }

// Append adds an element to the end of the voice. Appending a sign already
// held by a sibling voice shares the instance rather than copying it.
func (v *Voice) Append(e Element) { v.elements = append(v.elements, e) }

// Contains reports whether the voice holds exactly this element instance.
func (v *Voice) Contains(e Element) bool {
	for _, x := range v.elements {
		if x == e {
			return true
		}
	}
	return false
}

// InsertSign inserts a shared sign keeping the sequence ordered by time:
// before the first element starting later, and before any playable at the
// same time position (signs precede the notes they apply to).
func (v *Voice) InsertSign(e Element) {
	idx := len(v.elements)
	for i, x := range v.elements {
		if x.TimeStart() > e.TimeStart() || (x.TimeStart() == e.TimeStart() && x.IsPlayable()) {
			idx = i
			break
		}
	}
	v.elements = append(v.elements, nil)
	copy(v.elements[idx+1:], v.elements[idx:])
	v.elements[idx] = e
}

// NoteList returns the notes of the voice in time order.
func (v *Voice) NoteList() []*Note {
	var notes []*Note
	for _, e := range v.elements {
		if n, ok := e.(*Note); ok {
			notes = append(notes, n)
		}
	}
	return notes
}

// LastNote returns the most recently appended note, or nil.
func (v *Voice) LastNote() *Note {
	for i := len(v.elements) - 1; i >= 0; i-- {
		if n, ok := v.elements[i].(*Note); ok {
			return n
		}
	}
	return nil
}

// Index returns the position of the voice within its sheet's voice list,
// or -1 for a detached voice. This is the index annotation contexts are
// serialized against.
func (v *Voice) Index() int {
	if v.staff == nil || v.staff.Sheet() == nil {
		return -1
	}
	for i, x := range v.staff.Sheet().VoiceList() {
		if x == v {
			return i
		}
	}
	return -1
}
