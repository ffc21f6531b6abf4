package score

// MarkType discriminates the concrete type of a mark.
type MarkType int

const (
	MarkUndefined MarkType = iota
	MarkText
	MarkTempo
	MarkRitardando
	MarkDynamic
	MarkCrescendo
	MarkPedal
	MarkInstrumentChange
	MarkBookMark
	MarkRehearsalMark
	MarkFermata
	MarkRepeatMark
	MarkArticulation
	MarkFingering
)

var markNames = [...]string{"", "text", "tempo", "ritardando", "dynamic", "crescendo",
	"pedal", "instrument-change", "book-mark", "rehearsal-mark", "fermata",
	"repeat-mark", "articulation", "fingering"}

// MarkTypeFromString parses the serialized mark type; unknown input yields
// MarkUndefined.
func MarkTypeFromString(s string) MarkType {
	for i, name := range markNames {
		if i > 0 && s == name {
			return MarkType(i)
		}
	}
	return MarkUndefined
}

// String returns the serialized mark type.
func (t MarkType) String() string {
	if t < 0 || int(t) >= len(markNames) {
		return ""
	}
	return markNames[t]
}

// Mark is an annotation attached to exactly one host element. Marks are
// appended to the host's mark list; they never exist detached.
type Mark interface {
	MarkType() MarkType
	Host() Element
	TimeStart() int
	TimeLength() int
	Color() Color
	SetColor(c Color)
}

// markBase carries the state common to all marks.
type markBase struct {
	host       Element
	timeStart  int
	timeLength int
	color      Color
}

func (m *markBase) Host() Element     { return m.host }
func (m *markBase) TimeStart() int    { return m.timeStart }
func (m *markBase) TimeLength() int   { return m.timeLength }
func (m *markBase) Color() Color      { return m.color }
func (m *markBase) SetColor(c Color)  { m.color = c }

// GenericMark covers the variants with no fields of their own: pedal and
// rehearsal marks.
type GenericMark struct {
	markBase
	markType MarkType
}

// NewGenericMark creates a field-less mark of the given type on host.
func NewGenericMark(t MarkType, host Element, timeStart, timeLength int) *GenericMark {
	return &GenericMark{markBase: markBase{host: host, timeStart: timeStart, timeLength: timeLength}, markType: t}
}

func (m *GenericMark) MarkType() MarkType { return m.markType }

// TextMark is a free text annotation on a playable element.
type TextMark struct {
	markBase
	Text string
}

// NewTextMark creates a text mark on host.
func NewTextMark(text string, host Playable) *TextMark {
	return &TextMark{markBase: markBase{host: host, timeStart: host.TimeStart()}, Text: text}
}

func (m *TextMark) MarkType() MarkType { return MarkText }

// TempoMark fixes the tempo as beats per minute of a beat note value.
type TempoMark struct {
	markBase
	Beat PlayableLength
	BPM  int
}

// NewTempoMark creates a tempo mark on host.
func NewTempoMark(beat PlayableLength, bpm int, host Element) *TempoMark {
	return &TempoMark{markBase: markBase{host: host, timeStart: host.TimeStart()}, Beat: beat, BPM: bpm}
}

func (m *TempoMark) MarkType() MarkType { return MarkTempo }

// SetBeat assigns the beat note value, which arrives as a nested child
// after the mark itself is constructed.
func (m *TempoMark) SetBeat(beat PlayableLength) { m.Beat = beat }

// RitardandoType distinguishes slowing down from speeding up.
type RitardandoType int

const (
	Ritardando RitardandoType = iota
	Accelerando
)

// RitardandoTypeFromString parses the serialized ritardando type.
func RitardandoTypeFromString(s string) RitardandoType {
	if s == "accelerando" {
		return Accelerando
	}
	return Ritardando
}

// String returns the serialized ritardando type.
func (t RitardandoType) String() string {
	if t == Accelerando {
		return "accelerando"
	}
	return "ritardando"
}

// RitardandoMark is a gradual tempo change over a time span.
type RitardandoMark struct {
	markBase
	FinalTempo int
	Variant    RitardandoType
}

// NewRitardandoMark creates a ritardando/accelerando on host spanning
// timeLength ticks.
func NewRitardandoMark(finalTempo int, host Playable, timeLength int, variant RitardandoType) *RitardandoMark {
	return &RitardandoMark{
		markBase:   markBase{host: host, timeStart: host.TimeStart(), timeLength: timeLength},
		FinalTempo: finalTempo,
		Variant:    variant,
	}
}

func (m *RitardandoMark) MarkType() MarkType { return MarkRitardando }

// DynamicMark is a volume annotation ("p", "mf", ...) on a note.
type DynamicMark struct {
	markBase
	Text   string
	Volume int
}

// NewDynamicMark creates a dynamic mark on host.
func NewDynamicMark(text string, volume int, host *Note) *DynamicMark {
	return &DynamicMark{markBase: markBase{host: host, timeStart: host.TimeStart()}, Text: text, Volume: volume}
}

func (m *DynamicMark) MarkType() MarkType { return MarkDynamic }

// CrescendoType distinguishes crescendo from diminuendo.
type CrescendoType int

const (
	Crescendo CrescendoType = iota
	Diminuendo
)

// CrescendoTypeFromString parses the serialized crescendo type.
func CrescendoTypeFromString(s string) CrescendoType {
	if s == "diminuendo" {
		return Diminuendo
	}
	return Crescendo
}

// String returns the serialized crescendo type.
func (t CrescendoType) String() string {
	if t == Diminuendo {
		return "diminuendo"
	}
	return "crescendo"
}

// CrescendoMark is a gradual volume change on a note over a time span.
type CrescendoMark struct {
	markBase
	FinalVolume int
	Variant     CrescendoType
}

// NewCrescendoMark creates a crescendo/diminuendo on host.
func NewCrescendoMark(finalVolume int, host *Note, variant CrescendoType, timeStart, timeLength int) *CrescendoMark {
	return &CrescendoMark{
		markBase:    markBase{host: host, timeStart: timeStart, timeLength: timeLength},
		FinalVolume: finalVolume,
		Variant:     variant,
	}
}

func (m *CrescendoMark) MarkType() MarkType { return MarkCrescendo }

// InstrumentChangeMark switches the MIDI instrument from a note onwards.
type InstrumentChangeMark struct {
	markBase
	Instrument int
}

// NewInstrumentChangeMark creates an instrument change on host.
func NewInstrumentChangeMark(instrument int, host *Note) *InstrumentChangeMark {
	return &InstrumentChangeMark{markBase: markBase{host: host, timeStart: host.TimeStart()}, Instrument: instrument}
}

func (m *InstrumentChangeMark) MarkType() MarkType { return MarkInstrumentChange }

// BookMarkMark is a named navigation anchor on any element.
type BookMarkMark struct {
	markBase
	Text string
}

// NewBookMarkMark creates a bookmark on host.
func NewBookMarkMark(text string, host Element) *BookMarkMark {
	return &BookMarkMark{markBase: markBase{host: host, timeStart: host.TimeStart()}, Text: text}
}

func (m *BookMarkMark) MarkType() MarkType { return MarkBookMark }

// FermataType selects the fermata length.
type FermataType int

const (
	FermataNormal FermataType = iota
	FermataShort
	FermataLong
	FermataVeryLong
)

var fermataNames = [...]string{"normal", "short", "long", "very-long"}

// FermataTypeFromString parses the serialized fermata type.
func FermataTypeFromString(s string) FermataType {
	for i, name := range fermataNames {
		if s == name {
			return FermataType(i)
		}
	}
	return FermataNormal
}

// String returns the serialized fermata type.
func (t FermataType) String() string {
	if t < 0 || int(t) >= len(fermataNames) {
		return fermataNames[0]
	}
	return fermataNames[t]
}

// FermataMark holds a note, rest or barline. The host capability (playable
// or barline) is what decides where it may attach, not a separate flag.
type FermataMark struct {
	markBase
	Variant FermataType
}

// NewFermataMark creates a fermata on host, which must be playable or a
// barline.
func NewFermataMark(host Element, variant FermataType) *FermataMark {
	return &FermataMark{markBase: markBase{host: host, timeStart: host.TimeStart()}, Variant: variant}
}

func (m *FermataMark) MarkType() MarkType { return MarkFermata }

// RepeatMarkType selects the repeat navigation symbol.
type RepeatMarkType int

const (
	RepeatVolta RepeatMarkType = iota
	RepeatSegno
	RepeatCoda
	RepeatVarCoda
	RepeatDalSegno
	RepeatDalCoda
	RepeatFine
)

var repeatMarkNames = [...]string{"volta", "segno", "coda", "varcoda", "dal-segno", "dal-coda", "fine"}

// RepeatMarkTypeFromString parses the serialized repeat mark type.
func RepeatMarkTypeFromString(s string) RepeatMarkType {
	for i, name := range repeatMarkNames {
		if s == name {
			return RepeatMarkType(i)
		}
	}
	return RepeatVolta
}

// String returns the serialized repeat mark type.
func (t RepeatMarkType) String() string {
	if t < 0 || int(t) >= len(repeatMarkNames) {
		return repeatMarkNames[0]
	}
	return repeatMarkNames[t]
}

// RepeatMarkMark is a repeat navigation symbol on a barline.
type RepeatMarkMark struct {
	markBase
	Variant     RepeatMarkType
	VoltaNumber int
}

// NewRepeatMarkMark creates a repeat mark on host.
func NewRepeatMarkMark(host *Barline, variant RepeatMarkType, voltaNumber int) *RepeatMarkMark {
	return &RepeatMarkMark{
		markBase:    markBase{host: host, timeStart: host.TimeStart()},
		Variant:     variant,
		VoltaNumber: voltaNumber,
	}
}

func (m *RepeatMarkMark) MarkType() MarkType { return MarkRepeatMark }

// ArticulationType selects the articulation symbol.
type ArticulationType int

const (
	ArticulationAccent ArticulationType = iota
	ArticulationMarcato
	ArticulationStaccatissimo
	ArticulationEspressivo
	ArticulationStaccato
	ArticulationTenuto
	ArticulationPortato
	ArticulationUpBow
	ArticulationDownBow
	ArticulationFlageolet
	ArticulationOpen
	ArticulationStopped
	ArticulationTurn
	ArticulationReverseTurn
	ArticulationTrill
	ArticulationPrall
	ArticulationMordent
	ArticulationFermataSign
)

var articulationNames = [...]string{"accent", "marcato", "staccatissimo", "espressivo",
	"staccato", "tenuto", "portato", "up-bow", "down-bow", "flageolet", "open",
	"stopped", "turn", "reverse-turn", "trill", "prall", "mordent", "fermata"}

// ArticulationTypeFromString parses the serialized articulation type.
func ArticulationTypeFromString(s string) ArticulationType {
	for i, name := range articulationNames {
		if s == name {
			return ArticulationType(i)
		}
	}
	return ArticulationAccent
}

// String returns the serialized articulation type.
func (t ArticulationType) String() string {
	if t < 0 || int(t) >= len(articulationNames) {
		return articulationNames[0]
	}
	return articulationNames[t]
}

// ArticulationMark is an articulation symbol on a note.
type ArticulationMark struct {
	markBase
	Variant ArticulationType
}

// NewArticulationMark creates an articulation on host.
func NewArticulationMark(variant ArticulationType, host *Note) *ArticulationMark {
	return &ArticulationMark{markBase: markBase{host: host, timeStart: host.TimeStart()}, Variant: variant}
}

func (m *ArticulationMark) MarkType() MarkType { return MarkArticulation }

// FingerNumber is one finger token of a fingering mark: 1..5 for fingers,
// plus thumb and left/right hand tokens for keyboard music.
type FingerNumber int

const (
	FingerUndefined FingerNumber = 0
	FingerFirst     FingerNumber = 1
	FingerSecond    FingerNumber = 2
	FingerThird     FingerNumber = 3
	FingerFourth    FingerNumber = 4
	FingerFifth     FingerNumber = 5
	FingerThumb     FingerNumber = 6
	FingerLeftHand  FingerNumber = 7
	FingerRightHand FingerNumber = 8
)

// FingerNumberFromString parses one serialized finger token.
func FingerNumberFromString(s string) FingerNumber {
	switch s {
	case "1":
		return FingerFirst
	case "2":
		return FingerSecond
	case "3":
		return FingerThird
	case "4":
		return FingerFourth
	case "5":
		return FingerFifth
	case "thumb":
		return FingerThumb
	case "lheel", "left-hand":
		return FingerLeftHand
	case "rheel", "right-hand":
		return FingerRightHand
	default:
		return FingerUndefined
	}
}

// String returns the serialized finger token.
func (f FingerNumber) String() string {
	switch f {
	case FingerFirst, FingerSecond, FingerThird, FingerFourth, FingerFifth:
		return string('0' + byte(f))
	case FingerThumb:
		return "thumb"
	case FingerLeftHand:
		return "left-hand"
	case FingerRightHand:
		return "right-hand"
	default:
		return ""
	}
}

// FingeringMark is an ordered sequence of finger tokens on a note.
// Original marks come from the composer rather than an editor.
type FingeringMark struct {
	markBase
	Fingers  []FingerNumber
	Original bool
}

// NewFingeringMark creates a fingering mark on host.
func NewFingeringMark(fingers []FingerNumber, host *Note, original bool) *FingeringMark {
	return &FingeringMark{
		markBase: markBase{host: host, timeStart: host.TimeStart()},
		Fingers:  fingers,
		Original: original,
	}
}

func (m *FingeringMark) MarkType() MarkType { return MarkFingering }
