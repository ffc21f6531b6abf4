package score

import "testing"

func TestPlayableLengthTimeLength(t *testing.T) {
	tests := []struct {
		name   string
		length PlayableLength
		want   int
	}{
		{"whole", PlayableLength{Length: LengthWhole}, 1024},
		{"half", PlayableLength{Length: LengthHalf}, 512},
		{"quarter", PlayableLength{Length: LengthQuarter}, 256},
		{"eighth", PlayableLength{Length: LengthEighth}, 128},
		{"breve", PlayableLength{Length: LengthBreve}, 2048},
		{"dotted quarter", PlayableLength{Length: LengthQuarter, Dotted: 1}, 384},
		{"double dotted quarter", PlayableLength{Length: LengthQuarter, Dotted: 2}, 448},
		{"dotted half", PlayableLength{Length: LengthHalf, Dotted: 1}, 768},
		{"undefined", PlayableLength{Length: LengthUndefined}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.length.TimeLength(); got != tt.want {
				t.Errorf("TimeLength() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMusicLengthFromString(t *testing.T) {
	tests := []struct {
		in   string
		want MusicLength
	}{
		{"", LengthUndefined},
		{"0", LengthBreve},
		{"1", LengthWhole},
		{"4", LengthQuarter},
		{"128", LengthHundredTwentyEighth},
		{"3", LengthUndefined},
		{"x", LengthUndefined},
	}

	for _, tt := range tests {
		if got := MusicLengthFromString(tt.in); got != tt.want {
			t.Errorf("MusicLengthFromString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTupletAssignTimes(t *testing.T) {
	tests := []struct {
		name         string
		number       int
		actualNumber int
		length       MusicLength
		members      int
		wantEach     int
	}{
		// three eighths in the time of two: 128 * 2/3 is not integral,
		// so use quarters where the common ratios stay exact
		{"triplet 3:2 quarters", 3, 2, LengthQuarter, 2, 256 * 2 / 3},
		{"quintuplet 5:4 eighths", 5, 4, LengthEighth, 5, 128 * 4 / 5},
		{"sextuplet 6:4 eighths", 6, 4, LengthEighth, 6, 128 * 4 / 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staff := NewStaff("Staff1", nil, 5)
			voice := NewVoice("Voice1", staff, StemNeutral)
			staff.AddVoice(voice)

			tuplet := NewTuplet(tt.number, tt.actualNumber)
			start := 512
			cursor := start
			for i := 0; i < tt.members; i++ {
				n := NewNote(DiatonicPitch{NoteName: MiddleC}, PlayableLength{Length: tt.length}, voice, cursor, 0)
				n.SetTuplet(tuplet)
				tuplet.AddMember(n)
				voice.Append(n)
				cursor += n.PlayableLength().TimeLength()
			}

			tuplet.AssignTimes()

			wantStart := start
			for i, m := range tuplet.Members() {
				if got := m.TimeLength(); got != tt.wantEach {
					t.Errorf("member %d: TimeLength() = %d, want %d", i, got, tt.wantEach)
				}
				if got := m.TimeStart(); got != wantStart {
					t.Errorf("member %d: TimeStart() = %d, want %d", i, got, wantStart)
				}
				wantStart += tt.wantEach
			}
			if got := tuplet.TimeLength(); got != tt.wantEach*tt.members {
				t.Errorf("tuplet TimeLength() = %d, want %d", got, tt.wantEach*tt.members)
			}
		})
	}
}

func TestCalculateTimeLength(t *testing.T) {
	n := NewNote(DiatonicPitch{NoteName: MiddleC}, PlayableLength{Length: LengthQuarter, Dotted: 1}, nil, 0, 0)
	n.CalculateTimeLength()
	if got := n.TimeLength(); got != 384 {
		t.Errorf("TimeLength() = %d, want 384", got)
	}
}
