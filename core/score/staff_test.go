package score

import "testing"

func TestElementsAtDeduplicatesSharedSigns(t *testing.T) {
	staff, v1, v2 := newTestStaff()

	clef := NewClef(ClefG, 2, staff, 0, 0)
	v1.Append(clef)
	v2.Append(clef)

	found := staff.ElementsAt(ElemClef, 0)
	if len(found) != 1 {
		t.Fatalf("got %d elements, want 1 shared instance", len(found))
	}
	if found[0] != Element(clef) {
		t.Error("wrong instance returned")
	}
}

func TestElementsAtDistinguishesTimeAndType(t *testing.T) {
	staff, v1, _ := newTestStaff()

	v1.Append(NewClef(ClefG, 2, staff, 0, 0))
	v1.Append(NewBarline(BarlineSingle, staff, 0))
	v1.Append(NewClef(ClefF, 3, staff, 1024, 0))

	if got := len(staff.ElementsAt(ElemClef, 0)); got != 1 {
		t.Errorf("clefs at 0: got %d, want 1", got)
	}
	if got := len(staff.ElementsAt(ElemClef, 1024)); got != 1 {
		t.Errorf("clefs at 1024: got %d, want 1", got)
	}
	if got := len(staff.ElementsAt(ElemBarline, 0)); got != 1 {
		t.Errorf("barlines at 0: got %d, want 1", got)
	}
	if got := len(staff.ElementsAt(ElemClef, 512)); got != 0 {
		t.Errorf("clefs at 512: got %d, want 0", got)
	}
}

func TestSynchronizeVoices(t *testing.T) {
	staff, v1, v2 := newTestStaff()

	clef := NewClef(ClefG, 2, staff, 0, 0)
	v1.Append(clef)
	n1 := NewNote(DiatonicPitch{NoteName: MiddleC}, PlayableLength{Length: LengthQuarter}, v1, 0, 256)
	v1.Append(n1)

	n2 := NewNote(DiatonicPitch{NoteName: MiddleC + 4}, PlayableLength{Length: LengthQuarter}, v2, 0, 256)
	v2.Append(n2)

	staff.SynchronizeVoices()

	if !v2.Contains(clef) {
		t.Fatal("clef not propagated to the second voice")
	}
	// the shared sign must precede the note at the same time position
	if v2.Elements()[0] != Element(clef) {
		t.Error("propagated clef not inserted before the note")
	}
	// no duplicate in the originating voice
	count := 0
	for _, e := range v1.Elements() {
		if e == Element(clef) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("originating voice holds the clef %d times, want 1", count)
	}
}
