// Package chord parses chord symbols like "C", "F#m7", "Bbmaj7" or "G/B"
// into a root pitch, a quality and an optional bass note.
package chord

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/tactus/partita/core/errors"
	"github.com/tactus/partita/core/score"
)

// Quality is the broad chord family a symbol belongs to.
type Quality int

const (
	QualityMajor Quality = iota
	QualityMinor
	QualityDiminished
	QualityAugmented
	QualitySuspended
	QualityDominant
)

// String returns the conventional name of the quality.
func (q Quality) String() string {
	switch q {
	case QualityMinor:
		return "minor"
	case QualityDiminished:
		return "diminished"
	case QualityAugmented:
		return "augmented"
	case QualitySuspended:
		return "suspended"
	case QualityDominant:
		return "dominant"
	default:
		return "major"
	}
}

// Chord is a parsed chord symbol.
type Chord struct {
	// Root is the chord's root pitch.
	Root score.DiatonicPitch

	// Quality is derived from the modifier text.
	Quality Quality

	// Modifier is the raw quality and extension text after the root
	// ("m7", "maj7", "sus4", ...). Empty for a plain triad.
	Modifier string

	// Extension is the first extension number in the modifier (7, 9, 13),
	// 0 if there is none.
	Extension int

	// Bass is the slash-chord bass note; undefined when the bass is the
	// root itself.
	Bass score.DiatonicPitch
}

// chordGrammar is the participle grammar for chord symbols.
// Examples: "C", "Bb", "F#m7", "Cmaj7", "Dsus4", "C7b5", "G/B", "Ebm7/Bb"
//
//nolint:govet // participle grammar tags are not standard struct tags
type chordGrammar struct {
	Root       string    `parser:"@Letter"`
	Accidental *string   `parser:"@Accidental?"`
	Modifier   *string   `parser:"@Modifier?"`
	Bass       *bassPart `parser:"( \"/\" @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type bassPart struct {
	Letter     string  `parser:"@Letter"`
	Accidental *string `parser:"@Accidental?"`
}

// chordLexer tokenizes chord symbols. Accidental comes before Modifier so
// the "b" in "Bb" is read as a flat; a "b" inside "7b5" is swallowed by the
// modifier token instead.
var chordLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Letter", Pattern: `[A-G]`},
	{Name: "Accidental", Pattern: `[#b]+`},
	{Name: "Modifier", Pattern: `[a-z0-9+#][a-z0-9+#()]*`},
	{Name: "Slash", Pattern: `/`},
})

var chordParser = participle.MustBuild[chordGrammar](
	participle.Lexer(chordLexer),
)

// Parse parses a chord symbol. The root letter must be uppercase A-G;
// sharps and flats follow it, then the quality text, then an optional
// "/bass" note.
func Parse(s string) (*Chord, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, errors.NewParse("chord", s, "empty chord symbol")
	}

	parsed, err := chordParser.ParseString("", trimmed)
	if err != nil {
		return nil, errors.NewParse("chord", trimmed, err.Error())
	}

	c := &Chord{
		Root: pitchFor(parsed.Root, deref(parsed.Accidental)),
		Bass: score.UndefinedPitch(),
	}
	if parsed.Modifier != nil {
		c.Modifier = *parsed.Modifier
	}
	c.Quality = qualityOf(c.Modifier)
	c.Extension = extensionOf(c.Modifier)
	if parsed.Bass != nil {
		c.Bass = pitchFor(parsed.Bass.Letter, deref(parsed.Bass.Accidental))
	}
	return c, nil
}

// String renders the chord back to its symbol form.
func (c *Chord) String() string {
	var sb strings.Builder
	sb.WriteString(pitchName(c.Root))
	sb.WriteString(c.Modifier)
	if c.Bass.Defined() {
		sb.WriteString("/")
		sb.WriteString(pitchName(c.Bass))
	}
	return sb.String()
}

// ChordName converts the chord into a score chord-name element in ctx.
func (c *Chord) ChordName(ctx *score.ChordNameContext, timeStart, timeLength int) *score.ChordName {
	return score.NewChordName(c.Root, c.Modifier, ctx, timeStart, timeLength)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// pitchFor maps a root letter and accidental run to a pitch in the octave
// of middle C.
func pitchFor(letter, accidental string) score.DiatonicPitch {
	// letters run A..G; diatonic steps run C..B
	step := (int(letter[0]-'A') + 5) % 7
	accs := 0
	for _, r := range accidental {
		switch r {
		case '#':
			accs++
		case 'b':
			accs--
		}
	}
	return score.DiatonicPitch{NoteName: score.MiddleC + step, Accs: accs}
}

func pitchName(p score.DiatonicPitch) string {
	name := p.NoteLetter()
	for i := 0; i < p.Accs; i++ {
		name += "#"
	}
	for i := 0; i > p.Accs; i-- {
		name += "b"
	}
	return name
}

func qualityOf(modifier string) Quality {
	switch {
	case modifier == "":
		return QualityMajor
	case strings.HasPrefix(modifier, "maj"):
		return QualityMajor
	case strings.HasPrefix(modifier, "dim"):
		return QualityDiminished
	case strings.HasPrefix(modifier, "aug"), strings.HasPrefix(modifier, "+"):
		return QualityAugmented
	case strings.HasPrefix(modifier, "sus"):
		return QualitySuspended
	case strings.HasPrefix(modifier, "min"), strings.HasPrefix(modifier, "m"):
		return QualityMinor
	case modifier[0] >= '0' && modifier[0] <= '9':
		return QualityDominant
	default:
		return QualityMajor
	}
}

func extensionOf(modifier string) int {
	n := 0
	inNumber := false
	for _, r := range modifier {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			inNumber = true
			continue
		}
		if inNumber {
			break
		}
	}
	return n
}
