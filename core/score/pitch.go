package score

// MiddleC is the diatonic note name of c' (MIDI key 60). Note names count
// diatonic steps from C0, seven per octave.
const MiddleC = 28

// UndefinedNoteName marks a pitch that has not been assigned.
const UndefinedNoteName = -1

// DiatonicPitch is a pitch expressed as a diatonic note name plus an
// accidental offset in semitones.
type DiatonicPitch struct {
	NoteName int
	Accs     int
}

// UndefinedPitch returns a pitch placeholder with no note name.
func UndefinedPitch() DiatonicPitch {
	return DiatonicPitch{NoteName: UndefinedNoteName}
}

// Defined reports whether the pitch carries a note name.
func (p DiatonicPitch) Defined() bool { return p.NoteName != UndefinedNoteName }

// diatonic step to semitone offset within an octave (C D E F G A B)
var stepSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

// MIDIPitch returns the MIDI key number of the pitch. Undefined pitches
// map to 0.
func (p DiatonicPitch) MIDIPitch() int {
	if !p.Defined() || p.NoteName < 0 {
		return 0
	}
	key := 12 + (p.NoteName/7)*12 + stepSemitones[p.NoteName%7] + p.Accs
	if key < 0 {
		key = 0
	}
	if key > 127 {
		key = 127
	}
	return key
}

// NoteLetter returns the letter name of the diatonic step ("C".."B").
func (p DiatonicPitch) NoteLetter() string {
	if !p.Defined() || p.NoteName < 0 {
		return ""
	}
	return string("CDEFGAB"[p.NoteName%7])
}

// KeyGender distinguishes major from minor keys.
type KeyGender int

const (
	GenderMajor KeyGender = iota
	GenderMinor
)

// GenderFromString parses the serialized key gender. Anything but "minor"
// falls back to major.
func GenderFromString(s string) KeyGender {
	if s == "minor" {
		return GenderMinor
	}
	return GenderMajor
}

// String returns the serialized key gender.
func (g KeyGender) String() string {
	if g == GenderMinor {
		return "minor"
	}
	return "major"
}

// DiatonicKey is a key described by its tonic pitch and gender.
type DiatonicKey struct {
	Pitch  DiatonicPitch
	Gender KeyGender
}

// DiatonicKeyFromString parses a compact key name like "C", "d", "F#" or
// "bb": the letter selects the tonic, lowercase means minor, trailing
// sharps and flats adjust the accidental offset. Unparseable input yields
// C major.
func DiatonicKeyFromString(s string) DiatonicKey {
	if s == "" {
		return DiatonicKey{Pitch: DiatonicPitch{NoteName: MiddleC}}
	}
	letter := s[0]
	gender := GenderMajor
	if letter >= 'a' && letter <= 'g' {
		gender = GenderMinor
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'G' {
		return DiatonicKey{Pitch: DiatonicPitch{NoteName: MiddleC}}
	}
	// letters run A..G; diatonic steps run C..B
	step := (int(letter-'A') + 5) % 7
	accs := 0
	for _, r := range s[1:] {
		switch r {
		case '#':
			accs++
		case 'b':
			accs--
		}
	}
	return DiatonicKey{
		Pitch:  DiatonicPitch{NoteName: MiddleC + step, Accs: accs},
		Gender: gender,
	}
}

// String returns the compact key name parsed by DiatonicKeyFromString.
func (k DiatonicKey) String() string {
	letter := k.Pitch.NoteLetter()
	if letter == "" {
		letter = "C"
	}
	if k.Gender == GenderMinor {
		letter = string(letter[0] + 'a' - 'A')
	}
	accs := ""
	for i := 0; i < k.Pitch.Accs; i++ {
		accs += "#"
	}
	for i := 0; i > k.Pitch.Accs; i-- {
		accs += "b"
	}
	return letter + accs
}
