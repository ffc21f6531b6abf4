// Package canorusml reads and writes CanorusML, the XML interchange format
// for musical scores. Import is a streaming pass over the XML token stream
// with explicit cursor state; it reconstructs the score model including
// shared staff signs, deferred voice references and legacy attribute
// layouts of the 0.5.x file family.
package canorusml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/tactus/partita/core/errors"
	"github.com/tactus/partita/core/score"
	"github.com/tactus/partita/internal/logging"
)

// StructuralError reports a fatal structural violation: an element appeared
// without the open ancestor it requires, e.g. a voice outside a staff.
type StructuralError struct {
	Tag     string
	Message string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("canorusml: <%s>: %s", e.Tag, e.Message)
}

func (e *StructuralError) Unwrap() error { return errors.ErrInvalidInput }

// MalformedInputError reports XML that could not be parsed at all.
type MalformedInputError struct {
	Line    int
	Message string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("canorusml: line %d: %s", e.Line, e.Message)
	}
	return "canorusml: " + e.Message
}

func (e *MalformedInputError) Unwrap() error { return errors.ErrInvalidInput }

// ResourceImporter fetches and attaches document resources. The importer
// falls back to bare linked records when none is set.
type ResourceImporter interface {
	ImportResource(name, url string, linked bool, doc *score.Document, t score.ResourceType) (*score.Resource, error)
}

// Result is a parsed document plus the anomalies tolerated along the way.
type Result struct {
	Document *score.Document
	Warnings []Warning
}

// dateFormat is the ISO date layout used by document metadata attributes.
const dateFormat = "2006-01-02T15:04:05"

// attributes wraps the attribute list of one start tag. Absent attributes
// read as the zero value: "" for strings, 0 for numbers, false for flags.
type attributes struct {
	attrs []xml.Attr
}

func (a attributes) value(name string) string {
	for _, attr := range a.attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

func (a attributes) has(name string) bool {
	for _, attr := range a.attrs {
		if attr.Name.Local == name {
			return true
		}
	}
	return false
}

func (a attributes) intValue(name string) int {
	n, _ := strconv.Atoi(a.value(name))
	return n
}

func (a attributes) boolValue(name string) bool {
	return a.value(name) == "1"
}

// Importer holds the parse state of one streaming import pass. The zero
// value is ready to use; one Importer may be reused for consecutive
// documents but not concurrently.
type Importer struct {
	// Resources handles resource elements; nil attaches bare records.
	Resources ResourceImporter
	// SourcePath is the path the input was read from. Relative embedded
	// resource URLs resolve against its directory, and the document's
	// file name is set from it.
	SourcePath string

	version  Version
	doc      *score.Document
	warnings []Warning

	// open-ancestor cursors, nilled when the element closes
	curSheet        *score.Sheet
	curContext      score.Context
	curVoice        *score.Voice
	curElem         score.Element
	prevElem        score.Element
	curMark         score.Mark
	curClef         *score.Clef
	curTimeSig      *score.TimeSignature
	curKeySig       *score.KeySignature
	curBarline      *score.Barline
	curNote         *score.Note
	curRest         *score.Rest
	curTie          *score.Slur
	curSlur         *score.Slur
	curPhrasingSlur *score.Slur
	curTuplet       *score.Tuplet

	// pending values filled by nested child elements
	curPlayableLength      score.PlayableLength
	curTempoPlayableLength score.PlayableLength
	curDiatonicPitch       score.DiatonicPitch
	curDiatonicKey         score.DiatonicKey

	// deferred voice references, resolved when the sheet closes
	lcMap       map[*score.LyricsContext]int
	syllableMap map[*score.Syllable]int

	color score.Color
	cha   string
	depth []string
}

// Import parses one CanorusML document from r.
func Import(r io.Reader) (*Result, error) {
	return (&Importer{}).Import(r)
}

// ImportString parses one CanorusML document from s.
func ImportString(s string) (*Result, error) {
	return Import(strings.NewReader(s))
}

// ImportFile parses the CanorusML document stored at path.
func ImportFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	im := &Importer{SourcePath: path}
	res, err := im.Import(f)
	if err != nil {
		return nil, err
	}
	logging.ImportEvent(path, len(res.Document.Sheets()), len(res.Warnings))
	return res, nil
}

func (im *Importer) reset() {
	im.version = Version{}
	im.doc = nil
	im.warnings = nil
	im.curSheet = nil
	im.curContext = nil
	im.curVoice = nil
	im.curElem = nil
	im.prevElem = nil
	im.curMark = nil
	im.curClef = nil
	im.curTimeSig = nil
	im.curKeySig = nil
	im.curBarline = nil
	im.curNote = nil
	im.curRest = nil
	im.curTie = nil
	im.curSlur = nil
	im.curPhrasingSlur = nil
	im.curTuplet = nil
	im.curPlayableLength = score.PlayableLength{Length: score.LengthUndefined}
	im.curTempoPlayableLength = score.PlayableLength{Length: score.LengthUndefined}
	im.curDiatonicPitch = score.UndefinedPitch()
	im.curDiatonicKey = score.DiatonicKey{}
	im.lcMap = make(map[*score.LyricsContext]int)
	im.syllableMap = make(map[*score.Syllable]int)
	im.color = score.Color{}
	im.cha = ""
	im.depth = im.depth[:0]
}

// Import parses one CanorusML document from r. Structural violations and
// XML syntax errors abort the parse; everything else is tolerated and
// recorded as a warning on the result.
func (im *Importer) Import(r io.Reader) (*Result, error) {
	im.reset()

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = map[string]string{} // no custom entity expansion

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			var syn *xml.SyntaxError
			if errors.As(err, &syn) {
				return nil, &MalformedInputError{Line: syn.Line, Message: syn.Msg}
			}
			return nil, &MalformedInputError{Message: err.Error()}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := im.startElement(t.Name.Local, attributes{attrs: t.Attr}); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if err := im.endElement(t.Name.Local); err != nil {
				return nil, err
			}
		case xml.CharData:
			im.cha += string(t)
		}
	}

	if im.doc == nil {
		return nil, &StructuralError{Tag: "document", Message: "no document element found"}
	}
	if im.SourcePath != "" {
		im.doc.FileName = im.SourcePath
	}
	return &Result{Document: im.doc, Warnings: im.warnings}, nil
}

func (im *Importer) warn(code, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	im.warnings = append(im.warnings, Warning{Code: code, Message: msg})
	logging.ImportWarning(code, msg)
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(dateFormat, s)
	return t
}

func (im *Importer) startElement(name string, attrs attributes) error {
	// colors written before 0.7.4 are unreliable and get discarded
	if c := attrs.value("color"); c != "" && im.version.ColorReliable() {
		im.color = score.ParseColor(c)
	} else {
		im.color = score.Color{}
	}

	switch name {
	case "document":
		im.doc = score.NewDocument()
		im.doc.Title = attrs.value("title")
		im.doc.Subtitle = attrs.value("subtitle")
		im.doc.Composer = attrs.value("composer")
		im.doc.Arranger = attrs.value("arranger")
		im.doc.Poet = attrs.value("poet")
		im.doc.TextTranslator = attrs.value("text-translator")
		im.doc.Copyright = attrs.value("copyright")
		im.doc.Dedication = attrs.value("dedication")
		im.doc.Comments = attrs.value("comments")
		im.doc.DateCreated = parseDate(attrs.value("date-created"))
		im.doc.DateLastModified = parseDate(attrs.value("date-last-modified"))
		im.doc.TimeEdited = attrs.intValue("time-edited")

	case "sheet":
		if im.doc == nil {
			return &StructuralError{Tag: name, Message: "sheet outside a document"}
		}
		sheetName := attrs.value("name")
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", len(im.doc.Sheets())+1)
		}
		im.curSheet = score.NewSheet(sheetName, im.doc)
		im.doc.AddSheet(im.curSheet)

	case "staff":
		if im.curSheet == nil {
			return &StructuralError{Tag: name, Message: "staff outside a sheet"}
		}
		staffName := attrs.value("name")
		if staffName == "" {
			staffName = fmt.Sprintf("Staff%d", len(im.curSheet.StaffList())+1)
		}
		staff := score.NewStaff(staffName, im.curSheet, attrs.intValue("number-of-lines"))
		im.curSheet.AddContext(staff)
		im.curContext = staff

	case "lyrics-context":
		if im.curSheet == nil {
			return &StructuralError{Tag: name, Message: "lyrics context outside a sheet"}
		}
		ctxName := attrs.value("name")
		if ctxName == "" {
			ctxName = fmt.Sprintf("LyricsContext%d", len(im.curSheet.Contexts())+1)
		}
		lc := score.NewLyricsContext(ctxName, attrs.intValue("stanza-number"), im.curSheet)
		im.curSheet.AddContext(lc)
		im.curContext = lc
		if attrs.has("associated-voice-idx") {
			im.lcMap[lc] = attrs.intValue("associated-voice-idx")
		}

	case "figured-bass-context":
		if im.curSheet == nil {
			return &StructuralError{Tag: name, Message: "figured bass context outside a sheet"}
		}
		ctxName := attrs.value("name")
		if ctxName == "" {
			ctxName = fmt.Sprintf("FiguredBassContext%d", len(im.curSheet.Contexts())+1)
		}
		fbc := score.NewFiguredBassContext(ctxName, im.curSheet)
		im.curSheet.AddContext(fbc)
		im.curContext = fbc

	case "function-mark-context", "function-marking-context":
		if im.curSheet == nil {
			return &StructuralError{Tag: name, Message: "function mark context outside a sheet"}
		}
		ctxName := attrs.value("name")
		if ctxName == "" {
			ctxName = fmt.Sprintf("FunctionMarkContext%d", len(im.curSheet.Contexts())+1)
		}
		fmc := score.NewFunctionMarkContext(ctxName, im.curSheet)
		im.curSheet.AddContext(fmc)
		im.curContext = fmc

	case "chord-name-context":
		if im.curSheet == nil {
			return &StructuralError{Tag: name, Message: "chord name context outside a sheet"}
		}
		ctxName := attrs.value("name")
		if ctxName == "" {
			ctxName = fmt.Sprintf("ChordNameContext%d", len(im.curSheet.Contexts())+1)
		}
		cnc := score.NewChordNameContext(ctxName, im.curSheet)
		im.curSheet.AddContext(cnc)
		im.curContext = cnc

	case "voice":
		staff, ok := im.curContext.(*score.Staff)
		if !ok || staff == nil {
			return &StructuralError{Tag: name, Message: "voice outside a staff"}
		}
		voiceName := attrs.value("name")
		if voiceName == "" {
			voiceName = fmt.Sprintf("Voice%d", len(staff.VoiceList())+1)
		}
		im.curVoice = score.NewVoice(voiceName, staff, score.StemDirectionFromString(attrs.value("stem-direction")))
		if attrs.has("midi-channel") {
			im.curVoice.SetMidiChannel(attrs.intValue("midi-channel"))
		}
		if attrs.has("midi-program") {
			im.curVoice.SetMidiProgram(attrs.intValue("midi-program"))
		}
		if attrs.has("midi-pitch-offset") {
			im.curVoice.SetMidiPitchOffset(attrs.intValue("midi-pitch-offset"))
		}
		staff.AddVoice(im.curVoice)

	case "clef":
		if im.curVoice == nil {
			return &StructuralError{Tag: name, Message: "clef outside a voice"}
		}
		im.curClef = score.NewClef(score.ClefTypeFromString(attrs.value("clef-type")),
			attrs.intValue("c1"), im.curVoice.Staff(), attrs.intValue("time-start"), attrs.intValue("offset"))
		im.curClef.SetColor(im.color)
		im.curElem = im.curClef

	case "time-signature":
		if im.curVoice == nil {
			return &StructuralError{Tag: name, Message: "time signature outside a voice"}
		}
		im.curTimeSig = score.NewTimeSignature(attrs.intValue("beats"), attrs.intValue("beat"),
			im.curVoice.Staff(), attrs.intValue("time-start"),
			score.TimeSignatureTypeFromString(attrs.value("time-signature-type")))
		im.curTimeSig.SetColor(im.color)
		im.curElem = im.curTimeSig

	case "key-signature":
		if im.curVoice == nil {
			return &StructuralError{Tag: name, Message: "key signature outside a voice"}
		}
		switch score.KeySignatureTypeFromString(attrs.value("key-signature-type")) {
		case score.KeySigModus:
			im.curKeySig = score.NewModusKeySignature(score.ModusFromString(attrs.value("modus")),
				im.curVoice.Staff(), attrs.intValue("time-start"))
		default:
			// custom key signatures are read as major/minor; the nested
			// diatonic-key child fills the key in at the close tag
			im.curKeySig = score.NewKeySignature(score.DiatonicKey{},
				im.curVoice.Staff(), attrs.intValue("time-start"))
		}
		im.curKeySig.SetColor(im.color)
		im.curElem = im.curKeySig

	case "barline":
		if im.curVoice == nil {
			return &StructuralError{Tag: name, Message: "barline outside a voice"}
		}
		im.curBarline = score.NewBarline(score.BarlineTypeFromString(attrs.value("barline-type")),
			im.curVoice.Staff(), attrs.intValue("time-start"))
		im.curElem = im.curBarline

	case "note":
		if im.curVoice == nil {
			return &StructuralError{Tag: name, Message: "note outside a voice"}
		}
		if im.version.IsLegacy() {
			im.curNote = score.NewNote(
				score.DiatonicPitch{NoteName: attrs.intValue("pitch"), Accs: attrs.intValue("accs")},
				score.PlayableLength{Length: score.MusicLengthFromString(attrs.value("playable-length")), Dotted: attrs.intValue("dotted")},
				im.curVoice, attrs.intValue("time-start"), attrs.intValue("time-length"))
		} else {
			// pitch and length arrive as nested children
			im.curNote = score.NewNote(score.UndefinedPitch(),
				score.PlayableLength{Length: score.LengthUndefined},
				im.curVoice, attrs.intValue("time-start"), attrs.intValue("time-length"))
		}
		if attrs.has("stem-direction") {
			im.curNote.SetStemDirection(score.StemDirectionFromString(attrs.value("stem-direction")))
		}
		if im.curTuplet != nil {
			im.curNote.SetTuplet(im.curTuplet)
			im.curTuplet.AddMember(im.curNote)
		}
		im.curNote.SetColor(im.color)
		im.curElem = im.curNote

	case "rest":
		if im.curVoice == nil {
			return &StructuralError{Tag: name, Message: "rest outside a voice"}
		}
		if im.version.IsLegacy() {
			im.curRest = score.NewRest(score.RestTypeFromString(attrs.value("rest-type")),
				score.PlayableLength{Length: score.MusicLengthFromString(attrs.value("playable-length")), Dotted: attrs.intValue("dotted")},
				im.curVoice, attrs.intValue("time-start"), attrs.intValue("time-length"))
		} else {
			im.curRest = score.NewRest(score.RestTypeFromString(attrs.value("rest-type")),
				score.PlayableLength{Length: score.LengthUndefined},
				im.curVoice, attrs.intValue("time-start"), attrs.intValue("time-length"))
		}
		if im.curTuplet != nil {
			im.curRest.SetTuplet(im.curTuplet)
			im.curTuplet.AddMember(im.curRest)
		}
		im.curRest.SetColor(im.color)
		im.curElem = im.curRest

	case "tie":
		if im.curNote == nil {
			return &StructuralError{Tag: name, Message: "tie outside a note"}
		}
		im.curTie = score.NewSlur(score.TieType, score.SlurPreferred, im.curNote.Staff(), im.curNote, nil)
		im.applySlurAttrs(im.curTie, attrs)
		im.curNote.SetTieStart(im.curTie)
		im.prevElem = im.curElem
		im.curElem = im.curTie

	case "slur-start":
		if im.curNote == nil {
			return &StructuralError{Tag: name, Message: "slur start outside a note"}
		}
		im.curSlur = score.NewSlur(score.SlurType, score.SlurPreferred, im.curNote.Staff(), im.curNote, nil)
		im.applySlurAttrs(im.curSlur, attrs)
		im.curNote.SetSlurStart(im.curSlur)
		im.prevElem = im.curElem
		im.curElem = im.curSlur

	case "slur-end":
		if im.curSlur != nil {
			if im.curNote == nil {
				return &StructuralError{Tag: name, Message: "slur end outside a note"}
			}
			im.curNote.SetSlurEnd(im.curSlur)
			im.curSlur.SetNoteEnd(im.curNote)
			im.curSlur.SetTimeLength(im.curNote.TimeStart() - im.curSlur.NoteStart().TimeStart())
			im.curSlur = nil
		}

	case "phrasing-slur-start":
		if im.curNote == nil {
			return &StructuralError{Tag: name, Message: "phrasing slur start outside a note"}
		}
		im.curPhrasingSlur = score.NewSlur(score.PhrasingSlurType, score.SlurPreferred, im.curNote.Staff(), im.curNote, nil)
		im.applySlurAttrs(im.curPhrasingSlur, attrs)
		im.curNote.SetPhrasingSlurStart(im.curPhrasingSlur)
		im.prevElem = im.curElem
		im.curElem = im.curPhrasingSlur

	case "phrasing-slur-end":
		if im.curPhrasingSlur != nil {
			if im.curNote == nil {
				return &StructuralError{Tag: name, Message: "phrasing slur end outside a note"}
			}
			im.curNote.SetPhrasingSlurEnd(im.curPhrasingSlur)
			im.curPhrasingSlur.SetNoteEnd(im.curNote)
			im.curPhrasingSlur.SetTimeLength(im.curNote.TimeStart() - im.curPhrasingSlur.NoteStart().TimeStart())
			im.curPhrasingSlur = nil
		}

	case "tuplet":
		im.curTuplet = score.NewTuplet(attrs.intValue("number"), attrs.intValue("actual-number"))
		im.curTuplet.SetColor(im.color)

	case "syllable":
		lc, ok := im.curContext.(*score.LyricsContext)
		if !ok || lc == nil {
			return &StructuralError{Tag: name, Message: "syllable outside a lyrics context"}
		}
		s := score.NewSyllable(attrs.value("text"), attrs.boolValue("hyphen"), attrs.boolValue("melisma"),
			lc, attrs.intValue("time-start"), attrs.intValue("time-length"))
		lc.AddSyllable(s)
		if attrs.has("associated-voice-idx") {
			im.syllableMap[s] = attrs.intValue("associated-voice-idx")
		}
		s.SetColor(im.color)
		im.curElem = s

	case "figured-bass-mark":
		fbc, ok := im.curContext.(*score.FiguredBassContext)
		if !ok || fbc == nil {
			return &StructuralError{Tag: name, Message: "figured bass mark outside a figured bass context"}
		}
		f := score.NewFiguredBassMark(fbc, attrs.intValue("time-start"), attrs.intValue("time-length"))
		fbc.AddMark(f)
		f.SetColor(im.color)
		im.curElem = f

	case "figured-bass-number":
		f, ok := im.curElem.(*score.FiguredBassMark)
		if !ok || f == nil {
			return &StructuralError{Tag: name, Message: "figured bass number outside a figured bass mark"}
		}
		if attrs.has("accs") {
			f.AddNumberAccs(attrs.intValue("number"), attrs.intValue("accs"))
		} else {
			f.AddNumber(attrs.intValue("number"))
		}

	case "function-mark", "function-marking":
		// the function-marking spelling is only recognized in legacy files
		if name == "function-marking" && !im.version.IsLegacy() {
			break
		}
		fmc, ok := im.curContext.(*score.FunctionMarkContext)
		if !ok || fmc == nil {
			return &StructuralError{Tag: name, Message: "function mark outside a function mark context"}
		}
		var key score.DiatonicKey
		if im.version.IsLegacy() {
			keyName := attrs.value("key")
			if keyName == "" {
				keyName = "C"
			}
			key = score.DiatonicKeyFromString(keyName)
		}
		f := score.NewFunctionMark(
			score.FunctionTypeFromString(attrs.value("function")), attrs.boolValue("minor"),
			key, fmc, attrs.intValue("time-start"), attrs.intValue("time-length"),
			score.FunctionTypeFromString(attrs.value("chord-area")), attrs.boolValue("chord-area-minor"),
			score.FunctionTypeFromString(attrs.value("tonic-degree")), attrs.boolValue("tonic-degree-minor"),
			attrs.boolValue("ellipse"))
		fmc.AddMark(f)
		f.SetColor(im.color)
		im.curElem = f

	case "chord-name":
		cnc, ok := im.curContext.(*score.ChordNameContext)
		if !ok || cnc == nil {
			return &StructuralError{Tag: name, Message: "chord name outside a chord name context"}
		}
		// the root pitch arrives as a nested diatonic-pitch child; the
		// symbol joins its context at the close tag
		cn := score.NewChordName(score.UndefinedPitch(), attrs.value("quality-modifier"),
			cnc, attrs.intValue("time-start"), attrs.intValue("time-length"))
		cn.SetColor(im.color)
		im.curElem = cn

	case "mark":
		im.importMark(attrs)
		if im.curMark != nil {
			im.curMark.SetColor(im.color)
		}

	case "playable-length":
		pl := score.PlayableLength{
			Length: score.MusicLengthFromString(attrs.value("music-length")),
			Dotted: attrs.intValue("dotted"),
		}
		if len(im.depth) > 0 && im.depth[len(im.depth)-1] == "mark" {
			im.curTempoPlayableLength = pl
		} else {
			im.curPlayableLength = pl
		}

	case "diatonic-pitch":
		im.curDiatonicPitch = score.DiatonicPitch{
			NoteName: attrs.intValue("note-name"),
			Accs:     attrs.intValue("accs"),
		}

	case "diatonic-key":
		im.curDiatonicKey = score.DiatonicKey{Gender: score.GenderFromString(attrs.value("gender"))}

	case "resource":
		im.importResource(attrs)
	}

	im.cha = ""
	im.depth = append(im.depth, name)
	return nil
}

func (im *Importer) applySlurAttrs(s *score.Slur, attrs attributes) {
	if attrs.has("slur-style") {
		s.SetStyle(score.SlurStyleFromString(attrs.value("slur-style")))
	}
	if attrs.has("slur-direction") {
		s.SetDirection(score.SlurDirectionFromString(attrs.value("slur-direction")))
	}
}

func (im *Importer) endElement(name string) error {
	switch name {
	case "canorus-version":
		im.version = ParseVersion(im.cha)

	case "document":
		if im.doc != nil {
			for _, sheet := range im.doc.Sheets() {
				for _, staff := range sheet.StaffList() {
					staff.SynchronizeVoices()
				}
			}
		}

	case "sheet":
		im.closeSheet()

	case "staff":
		im.curContext = nil
		im.curVoice = nil

	case "voice":
		im.curVoice = nil

	case "clef":
		if err := im.closeSign(name, im.curClef); err != nil {
			return err
		}
		im.curClef = nil

	case "time-signature":
		if err := im.closeSign(name, im.curTimeSig); err != nil {
			return err
		}
		im.curTimeSig = nil

	case "key-signature":
		if im.curKeySig != nil && im.curKeySig.KeySignatureType() == score.KeySigMajorMinor {
			im.curKeySig.SetDiatonicKey(im.curDiatonicKey)
		}
		if err := im.closeSign(name, im.curKeySig); err != nil {
			return err
		}
		im.curKeySig = nil

	case "barline":
		if err := im.closeSign(name, im.curBarline); err != nil {
			return err
		}
		im.curBarline = nil

	case "note":
		if im.curNote != nil && im.curVoice != nil {
			if !im.version.IsLegacy() {
				im.curNote.SetPlayableLength(im.curPlayableLength)
				if im.curNote.Tuplet() == nil {
					im.curNote.CalculateTimeLength()
				}
				im.curNote.SetPitch(im.curDiatonicPitch)
			}
			im.curVoice.Append(im.curNote)
			im.curNote.UpdateTies()
		}
		im.curNote = nil

	case "rest":
		if im.curRest != nil && im.curVoice != nil {
			if !im.version.IsLegacy() {
				im.curRest.SetPlayableLength(im.curPlayableLength)
				if im.curRest.Tuplet() == nil {
					im.curRest.CalculateTimeLength()
				}
			}
			im.curVoice.Append(im.curRest)
		}
		im.curRest = nil

	case "tie":
		// the matching end note is found when it is appended later

	case "tuplet":
		if im.curTuplet != nil {
			im.curTuplet.AssignTimes()
		}
		im.curTuplet = nil

	case "mark":
		if !im.version.IsLegacy() {
			if tempo, ok := im.curMark.(*score.TempoMark); ok && !tempo.Beat.Defined() {
				tempo.SetBeat(im.curTempoPlayableLength)
			}
		}
		im.curMark = nil

	case "function-mark":
		if !im.version.IsLegacy() {
			if f, ok := im.curElem.(*score.FunctionMark); ok {
				f.SetKey(im.curDiatonicKey)
			}
		}

	case "diatonic-key":
		im.curDiatonicKey.Pitch = im.curDiatonicPitch

	case "chord-name":
		if cn, ok := im.curElem.(*score.ChordName); ok {
			cn.SetPitch(im.curDiatonicPitch)
			if cnc, ok := im.curContext.(*score.ChordNameContext); ok {
				cnc.AddChordName(cn)
			}
		}
	}

	im.cha = ""
	if n := len(im.depth); n > 0 {
		im.depth = im.depth[:n-1]
	}
	if im.prevElem != nil {
		im.curElem = im.prevElem
		im.prevElem = nil
	}
	return nil
}

// closeSign appends a staff-wide sign to the current voice, sharing an
// equivalent sign already read by a sibling voice instead of keeping the
// duplicate.
func (im *Importer) closeSign(tag string, sign score.Element) error {
	if sign == nil || isNilElement(sign) {
		return nil
	}
	staff, ok := im.curContext.(*score.Staff)
	if !ok || staff == nil || im.curVoice == nil {
		return &StructuralError{Tag: tag, Message: "sign closed outside a staff voice"}
	}
	for _, cand := range staff.ElementsAt(sign.ElementType(), sign.TimeStart()) {
		if cand.Equivalent(sign) && !im.curVoice.Contains(cand) {
			im.curVoice.Append(cand)
			return nil
		}
	}
	im.curVoice.Append(sign)
	return nil
}

// isNilElement reports whether e wraps a typed nil pointer.
func isNilElement(e score.Element) bool {
	switch v := e.(type) {
	case *score.Clef:
		return v == nil
	case *score.TimeSignature:
		return v == nil
	case *score.KeySignature:
		return v == nil
	case *score.Barline:
		return v == nil
	default:
		return false
	}
}

// closeSheet resolves deferred voice references against the now-complete
// voice list and reports slurs left without an end note.
func (im *Importer) closeSheet() {
	if im.curSheet != nil {
		voices := im.curSheet.VoiceList()
		for lc, idx := range im.lcMap {
			if idx >= 0 && idx < len(voices) {
				lc.SetAssociatedVoice(voices[idx])
			} else {
				im.warn(WarnVoiceIndex, "lyrics context %q references voice %d of %d", lc.Name(), idx, len(voices))
			}
		}
		for s, idx := range im.syllableMap {
			if idx >= 0 && idx < len(voices) {
				s.SetAssociatedVoice(voices[idx])
			} else {
				im.warn(WarnVoiceIndex, "syllable %q references voice %d of %d", s.Text(), idx, len(voices))
			}
		}
		if im.curSlur != nil {
			im.warn(WarnOpenSlur, "slur starting at %d has no end note", im.curSlur.TimeStart())
			im.curSlur = nil
		}
		if im.curPhrasingSlur != nil {
			im.warn(WarnOpenSlur, "phrasing slur starting at %d has no end note", im.curPhrasingSlur.TimeStart())
			im.curPhrasingSlur = nil
		}
	}
	im.lcMap = make(map[*score.LyricsContext]int)
	im.syllableMap = make(map[*score.Syllable]int)
	im.curSheet = nil
}

// importResource attaches one resource to the document. Relative embedded
// URLs resolve against the source file's directory.
func (im *Importer) importResource(attrs attributes) {
	if im.doc == nil {
		return
	}
	linked := attrs.boolValue("linked")
	url := attrs.value("url")
	if !linked && im.SourcePath != "" && url != "" && !filepath.IsAbs(url) {
		url = filepath.Join(filepath.Dir(im.SourcePath), url)
	}
	name := attrs.value("name")
	typ := score.ResourceTypeFromString(attrs.value("resource-type"))

	var r *score.Resource
	if im.Resources != nil {
		var err error
		r, err = im.Resources.ImportResource(name, url, linked, im.doc, typ)
		if err != nil {
			im.warn(WarnResource, "resource %q: %v", name, err)
			return
		}
	} else {
		r = &score.Resource{Name: name, URL: url, Linked: linked, Type: typ}
		im.doc.AddResource(r)
	}
	r.Description = attrs.value("description")
}
