package score

import "testing"

func newTestStaff() (*Staff, *Voice, *Voice) {
	doc := NewDocument()
	sheet := doc.NewSheet()
	staff := NewStaff("Staff1", sheet, 5)
	sheet.AddContext(staff)
	v1 := NewVoice("Voice1", staff, StemNeutral)
	v2 := NewVoice("Voice2", staff, StemNeutral)
	staff.AddVoice(v1)
	staff.AddVoice(v2)
	return staff, v1, v2
}

func TestVoiceContainsSharedSign(t *testing.T) {
	staff, v1, v2 := newTestStaff()

	clef := NewClef(ClefG, 2, staff, 0, 0)
	v1.Append(clef)
	v2.Append(clef)

	if !v1.Contains(clef) || !v2.Contains(clef) {
		t.Fatal("both voices should hold the shared clef instance")
	}

	other := NewClef(ClefG, 2, staff, 0, 0)
	if v1.Contains(other) {
		t.Error("Contains matched a distinct instance with equal content")
	}
}

func TestVoiceInsertSignOrdering(t *testing.T) {
	staff, v1, _ := newTestStaff()

	n1 := NewNote(DiatonicPitch{NoteName: MiddleC}, PlayableLength{Length: LengthQuarter}, v1, 0, 256)
	n2 := NewNote(DiatonicPitch{NoteName: MiddleC + 1}, PlayableLength{Length: LengthQuarter}, v1, 256, 256)
	v1.Append(n1)
	v1.Append(n2)

	// barline at tick 256 must land between the two notes
	bar := NewBarline(BarlineSingle, staff, 256)
	v1.InsertSign(bar)

	elems := v1.Elements()
	if len(elems) != 3 {
		t.Fatalf("got %d elements, want 3", len(elems))
	}
	if elems[1] != Element(bar) {
		t.Errorf("sign at position %v, want position 1", elems)
	}
}

func TestVoiceLastNote(t *testing.T) {
	staff, v1, _ := newTestStaff()

	if v1.LastNote() != nil {
		t.Error("LastNote() on empty voice should be nil")
	}

	n := NewNote(DiatonicPitch{NoteName: MiddleC}, PlayableLength{Length: LengthQuarter}, v1, 0, 256)
	v1.Append(n)
	v1.Append(NewBarline(BarlineSingle, staff, 256))

	if got := v1.LastNote(); got != n {
		t.Errorf("LastNote() = %v, want %v", got, n)
	}
}

func TestVoiceIndex(t *testing.T) {
	_, v1, v2 := newTestStaff()

	if got := v1.Index(); got != 0 {
		t.Errorf("v1.Index() = %d, want 0", got)
	}
	if got := v2.Index(); got != 1 {
		t.Errorf("v2.Index() = %d, want 1", got)
	}

	detached := NewVoice("Detached", nil, StemNeutral)
	if got := detached.Index(); got != -1 {
		t.Errorf("detached.Index() = %d, want -1", got)
	}
}

func TestUpdateTies(t *testing.T) {
	staff, v1, _ := newTestStaff()

	a := NewNote(DiatonicPitch{NoteName: MiddleC}, PlayableLength{Length: LengthHalf}, v1, 0, 480)
	v1.Append(a)
	tie := NewSlur(TieType, SlurPreferred, staff, a, nil)
	a.SetTieStart(tie)

	b := NewNote(DiatonicPitch{NoteName: MiddleC}, PlayableLength{Length: LengthQuarter}, v1, 480, 256)
	v1.Append(b)
	b.UpdateTies()

	if tie.NoteEnd() != b {
		t.Fatal("tie end not resolved to the following note")
	}
	if got := tie.TimeLength(); got != 480 {
		t.Errorf("tie TimeLength() = %d, want 480", got)
	}
	if b.TieEnd() != tie {
		t.Error("end note does not reference the tie")
	}
}

func TestUpdateTiesPitchMismatch(t *testing.T) {
	staff, v1, _ := newTestStaff()

	a := NewNote(DiatonicPitch{NoteName: MiddleC}, PlayableLength{Length: LengthQuarter}, v1, 0, 256)
	v1.Append(a)
	tie := NewSlur(TieType, SlurPreferred, staff, a, nil)
	a.SetTieStart(tie)

	b := NewNote(DiatonicPitch{NoteName: MiddleC + 2}, PlayableLength{Length: LengthQuarter}, v1, 256, 256)
	v1.Append(b)
	b.UpdateTies()

	if tie.NoteEnd() != nil {
		t.Error("tie resolved across different pitches")
	}
}
