package score

// ClefType selects the clef family.
type ClefType int

const (
	ClefUndefined ClefType = iota
	ClefG
	ClefF
	ClefC
	ClefPercussion
)

// ClefTypeFromString parses the serialized clef type.
func ClefTypeFromString(s string) ClefType {
	switch s {
	case "G":
		return ClefG
	case "F":
		return ClefF
	case "C":
		return ClefC
	case "percussion":
		return ClefPercussion
	default:
		return ClefUndefined
	}
}

// String returns the serialized clef type.
func (t ClefType) String() string {
	switch t {
	case ClefG:
		return "G"
	case ClefF:
		return "F"
	case ClefC:
		return "C"
	case ClefPercussion:
		return "percussion"
	default:
		return ""
	}
}

// Clef is a staff-wide sign selecting the pitch-to-line mapping. Line is
// the staff line the clef sits on (counted from the bottom, 0-based);
// Offset transposes by octaves in diatonic steps (e.g. -7 for an ottava
// bassa G clef).
type Clef struct {
	elementBase
	clefType ClefType
	line     int
	offset   int
	staff    *Staff
}

// NewClef creates a clef at the given absolute time position.
func NewClef(t ClefType, line int, staff *Staff, timeStart, offset int) *Clef {
	c := &Clef{clefType: t, line: line, offset: offset, staff: staff}
	c.timeStart = timeStart
	return c
}

func (c *Clef) ElementType() ElementType { return ElemClef }
func (c *Clef) ClefType() ClefType       { return c.clefType }
func (c *Clef) Line() int                { return c.line }
func (c *Clef) Offset() int              { return c.offset }
func (c *Clef) Staff() *Staff            { return c.staff }

func (c *Clef) Equivalent(other Element) bool {
	o, ok := other.(*Clef)
	return ok && o.clefType == c.clefType && o.line == c.line && o.offset == c.offset
}

// KeySignatureType selects how a key signature is described.
type KeySignatureType int

const (
	KeySigMajorMinor KeySignatureType = iota
	KeySigModus
	KeySigCustom
)

// KeySignatureTypeFromString parses the serialized key signature type.
// Unknown input falls back to the major/minor form.
func KeySignatureTypeFromString(s string) KeySignatureType {
	switch s {
	case "modus":
		return KeySigModus
	case "custom":
		return KeySigCustom
	default:
		return KeySigMajorMinor
	}
}

// String returns the serialized key signature type.
func (t KeySignatureType) String() string {
	switch t {
	case KeySigModus:
		return "modus"
	case KeySigCustom:
		return "custom"
	default:
		return "major-minor"
	}
}

// Modus is a church mode used by modal key signatures.
type Modus int

const (
	ModusIonian Modus = iota
	ModusDorian
	ModusPhrygian
	ModusLydian
	ModusMixolydian
	ModusAeolian
	ModusLocrian
)

var modusNames = [...]string{"ionian", "dorian", "phrygian", "lydian", "mixolydian", "aeolian", "locrian"}

// ModusFromString parses the serialized modus; unknown input yields Ionian.
func ModusFromString(s string) Modus {
	for i, name := range modusNames {
		if s == name {
			return Modus(i)
		}
	}
	return ModusIonian
}

// String returns the serialized modus.
func (m Modus) String() string {
	if m < 0 || int(m) >= len(modusNames) {
		return modusNames[0]
	}
	return modusNames[m]
}

// KeySignature is a staff-wide sign fixing the key, either as a
// major/minor diatonic key or as a church mode.
type KeySignature struct {
	elementBase
	sigType KeySignatureType
	key     DiatonicKey
	modus   Modus
	staff   *Staff
}

// NewKeySignature creates a major/minor key signature.
func NewKeySignature(key DiatonicKey, staff *Staff, timeStart int) *KeySignature {
	k := &KeySignature{sigType: KeySigMajorMinor, key: key, staff: staff}
	k.timeStart = timeStart
	return k
}

// NewModusKeySignature creates a modal key signature.
func NewModusKeySignature(m Modus, staff *Staff, timeStart int) *KeySignature {
	k := &KeySignature{sigType: KeySigModus, modus: m, staff: staff}
	k.timeStart = timeStart
	return k
}

func (k *KeySignature) ElementType() ElementType           { return ElemKeySignature }
func (k *KeySignature) KeySignatureType() KeySignatureType { return k.sigType }
func (k *KeySignature) DiatonicKey() DiatonicKey           { return k.key }
func (k *KeySignature) SetDiatonicKey(key DiatonicKey)     { k.key = key }
func (k *KeySignature) Modus() Modus                       { return k.modus }
func (k *KeySignature) Staff() *Staff                      { return k.staff }

func (k *KeySignature) Equivalent(other Element) bool {
	o, ok := other.(*KeySignature)
	if !ok || o.sigType != k.sigType {
		return false
	}
	switch k.sigType {
	case KeySigModus:
		return o.modus == k.modus
	default:
		return o.key == k.key
	}
}

// TimeSignatureType selects the notation style of a time signature.
type TimeSignatureType int

const (
	TimeSigClassical TimeSignatureType = iota
	TimeSigMensural
)

// TimeSignatureTypeFromString parses the serialized time signature type.
func TimeSignatureTypeFromString(s string) TimeSignatureType {
	if s == "mensural" {
		return TimeSigMensural
	}
	return TimeSigClassical
}

// String returns the serialized time signature type.
func (t TimeSignatureType) String() string {
	if t == TimeSigMensural {
		return "mensural"
	}
	return "classical"
}

// TimeSignature is a staff-wide sign fixing the meter as beats per bar
// over a beat note value.
type TimeSignature struct {
	elementBase
	beats   int
	beat    int
	sigType TimeSignatureType
	staff   *Staff
}

// NewTimeSignature creates a time signature at the given time position.
func NewTimeSignature(beats, beat int, staff *Staff, timeStart int, t TimeSignatureType) *TimeSignature {
	ts := &TimeSignature{beats: beats, beat: beat, sigType: t, staff: staff}
	ts.timeStart = timeStart
	return ts
}

func (t *TimeSignature) ElementType() ElementType             { return ElemTimeSignature }
func (t *TimeSignature) Beats() int                           { return t.beats }
func (t *TimeSignature) Beat() int                            { return t.beat }
func (t *TimeSignature) TimeSignatureType() TimeSignatureType { return t.sigType }
func (t *TimeSignature) Staff() *Staff                        { return t.staff }

func (t *TimeSignature) Equivalent(other Element) bool {
	o, ok := other.(*TimeSignature)
	return ok && o.beats == t.beats && o.beat == t.beat && o.sigType == t.sigType
}

// BarlineType selects the barline style.
type BarlineType int

const (
	BarlineSingle BarlineType = iota
	BarlineDouble
	BarlineEnd
	BarlineRepeatOpen
	BarlineRepeatClose
	BarlineRepeatCloseOpen
	BarlineDotted
)

var barlineNames = [...]string{"single", "double", "end", "repeat-open", "repeat-close", "repeat-close-open", "dotted"}

// BarlineTypeFromString parses the serialized barline style; unknown input
// yields a single barline.
func BarlineTypeFromString(s string) BarlineType {
	for i, name := range barlineNames {
		if s == name {
			return BarlineType(i)
		}
	}
	return BarlineSingle
}

// String returns the serialized barline style.
func (t BarlineType) String() string {
	if t < 0 || int(t) >= len(barlineNames) {
		return barlineNames[0]
	}
	return barlineNames[t]
}

// Barline is a staff-wide sign separating measures.
type Barline struct {
	elementBase
	barlineType BarlineType
	staff       *Staff
}

// NewBarline creates a barline at the given time position.
func NewBarline(t BarlineType, staff *Staff, timeStart int) *Barline {
	b := &Barline{barlineType: t, staff: staff}
	b.timeStart = timeStart
	return b
}

func (b *Barline) ElementType() ElementType { return ElemBarline }
func (b *Barline) BarlineType() BarlineType { return b.barlineType }
func (b *Barline) Staff() *Staff            { return b.staff }

func (b *Barline) Equivalent(other Element) bool {
	o, ok := other.(*Barline)
	return ok && o.barlineType == b.barlineType
}

// IsSign reports whether the element type is a staff-wide sign shared
// between voices.
func IsSign(t ElementType) bool {
	switch t {
	case ElemClef, ElemKeySignature, ElemTimeSignature, ElemBarline:
		return true
	default:
		return false
	}
}
