package canorusml

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/tactus/partita/core/score"
)

// scoreDoc wraps body in the document envelope, with an optional version
// marker in front.
func scoreDoc(version, body string) string {
	header := ""
	if version != "" {
		header = "<canorus-version>" + version + "</canorus-version>"
	}
	return `<?xml version="1.0" encoding="UTF-8"?><canorus-document>` + header + body + `</canorus-document>`
}

func mustImport(t *testing.T, xml string) *Result {
	t.Helper()
	res, err := ImportString(xml)
	if err != nil {
		t.Fatalf("ImportString() error = %v", err)
	}
	return res
}

func firstVoice(t *testing.T, res *Result) *score.Voice {
	t.Helper()
	voices := res.Document.Sheets()[0].VoiceList()
	if len(voices) == 0 {
		t.Fatal("document has no voices")
	}
	return voices[0]
}

func hasWarning(res *Result, code string) bool {
	for _, w := range res.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

const quarterC = `<note time-start="0"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="28" accs="0"/></note>`

func TestImportDocumentMetadata(t *testing.T) {
	res := mustImport(t, scoreDoc("0.7.10",
		`<document title="Requiem" composer="W. A. Mozart" date-created="2001-03-09T14:30:00" time-edited="3600"/>`))

	doc := res.Document
	if doc.Title != "Requiem" {
		t.Errorf("Title = %q, want Requiem", doc.Title)
	}
	if doc.Composer != "W. A. Mozart" {
		t.Errorf("Composer = %q", doc.Composer)
	}
	if doc.DateCreated.IsZero() {
		t.Error("DateCreated not parsed")
	}
	if got := doc.DateCreated.Format(dateFormat); got != "2001-03-09T14:30:00" {
		t.Errorf("DateCreated = %s", got)
	}
	if doc.TimeEdited != 3600 {
		t.Errorf("TimeEdited = %d, want 3600", doc.TimeEdited)
	}
}

func TestImportAutoNames(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice/></staff></sheet><sheet/></document>`))

	sheets := res.Document.Sheets()
	if len(sheets) != 2 {
		t.Fatalf("len(sheets) = %d, want 2", len(sheets))
	}
	if sheets[0].Name() != "Sheet1" || sheets[1].Name() != "Sheet2" {
		t.Errorf("sheet names = %q, %q", sheets[0].Name(), sheets[1].Name())
	}
	staff := sheets[0].StaffList()[0]
	if staff.Name() != "Staff1" {
		t.Errorf("staff name = %q, want Staff1", staff.Name())
	}
	if staff.VoiceList()[0].Name() != "Voice1" {
		t.Errorf("voice name = %q, want Voice1", staff.VoiceList()[0].Name())
	}
}

func TestImportNote(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+quarterC+`</voice></staff></sheet></document>`))

	notes := firstVoice(t, res).NoteList()
	if len(notes) != 1 {
		t.Fatalf("len(notes) = %d, want 1", len(notes))
	}
	n := notes[0]
	if n.Pitch().NoteName != score.MiddleC {
		t.Errorf("NoteName = %d, want %d", n.Pitch().NoteName, score.MiddleC)
	}
	if n.PlayableLength().Length != score.LengthQuarter {
		t.Errorf("Length = %v, want quarter", n.PlayableLength().Length)
	}
	if n.TimeLength() != score.WholeTicks/4 {
		t.Errorf("TimeLength = %d, want %d", n.TimeLength(), score.WholeTicks/4)
	}
}

func TestImportLegacyNote(t *testing.T) {
	res := mustImport(t, scoreDoc("0.5.0",
		`<document><sheet><staff><voice>`+
			`<note pitch="30" accs="-1" playable-length="2" dotted="1" time-start="0" time-length="768"/>`+
			`</voice></staff></sheet></document>`))

	n := firstVoice(t, res).NoteList()[0]
	if n.Pitch() != (score.DiatonicPitch{NoteName: 30, Accs: -1}) {
		t.Errorf("Pitch = %+v", n.Pitch())
	}
	if n.PlayableLength() != (score.PlayableLength{Length: score.LengthHalf, Dotted: 1}) {
		t.Errorf("PlayableLength = %+v", n.PlayableLength())
	}
	if n.TimeLength() != 768 {
		t.Errorf("TimeLength = %d, want 768 from the serialized attribute", n.TimeLength())
	}
}

func TestImportSharedSigns(t *testing.T) {
	clef := `<clef clef-type="G" c1="2" offset="0" time-start="0"/>`
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff>`+
			`<voice>`+clef+quarterC+`</voice>`+
			`<voice>`+clef+quarterC+`</voice>`+
			`</staff></sheet></document>`))

	staff := res.Document.Sheets()[0].StaffList()[0]
	clefs := staff.ElementsAt(score.ElemClef, 0)
	if len(clefs) != 1 {
		t.Fatalf("len(clefs) = %d, want 1 shared instance", len(clefs))
	}
	for i, v := range staff.VoiceList() {
		if !v.Contains(clefs[0]) {
			t.Errorf("voice %d does not hold the shared clef", i)
		}
	}
}

func TestImportDistinctSignsStayDistinct(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff>`+
			`<voice><clef clef-type="G" c1="2" time-start="0"/></voice>`+
			`<voice><clef clef-type="F" c1="6" time-start="0"/></voice>`+
			`</staff></sheet></document>`))

	staff := res.Document.Sheets()[0].StaffList()[0]
	if got := len(staff.ElementsAt(score.ElemClef, 0)); got != 2 {
		t.Errorf("len(clefs) = %d, want 2 distinct instances", got)
	}
}

func TestImportSignSynchronization(t *testing.T) {
	// a barline read only in voice one must end up in voice two as well
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff>`+
			`<voice>`+quarterC+`<barline barline-type="single" time-start="256"/></voice>`+
			`<voice>`+quarterC+`</voice>`+
			`</staff></sheet></document>`))

	staff := res.Document.Sheets()[0].StaffList()[0]
	bars := staff.ElementsAt(score.ElemBarline, 256)
	if len(bars) != 1 {
		t.Fatalf("len(barlines) = %d, want 1", len(bars))
	}
	if !staff.VoiceList()[1].Contains(bars[0]) {
		t.Error("second voice missing the synchronized barline")
	}
}

func TestImportKeySignature(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+
			`<key-signature key-signature-type="major-minor" time-start="0">`+
			`<diatonic-key gender="minor"><diatonic-pitch note-name="29" accs="0"/></diatonic-key>`+
			`</key-signature>`+
			`</voice></staff></sheet></document>`))

	v := firstVoice(t, res)
	ks, ok := v.Elements()[0].(*score.KeySignature)
	if !ok {
		t.Fatalf("element 0 is %T, want *KeySignature", v.Elements()[0])
	}
	want := score.DiatonicKey{Pitch: score.DiatonicPitch{NoteName: 29}, Gender: score.GenderMinor}
	if ks.DiatonicKey() != want {
		t.Errorf("DiatonicKey = %+v, want %+v", ks.DiatonicKey(), want)
	}
}

func TestImportModusKeySignature(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+
			`<key-signature key-signature-type="modus" modus="dorian" time-start="0"/>`+
			`</voice></staff></sheet></document>`))

	ks := firstVoice(t, res).Elements()[0].(*score.KeySignature)
	if ks.KeySignatureType() != score.KeySigModus || ks.Modus() != score.ModusDorian {
		t.Errorf("got type %v modus %v", ks.KeySignatureType(), ks.Modus())
	}
}

func TestImportTieResolution(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+
			`<note time-start="0"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="28" accs="0"/><tie/></note>`+
			`<note time-start="256"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="28" accs="0"/></note>`+
			`</voice></staff></sheet></document>`))

	notes := firstVoice(t, res).NoteList()
	tie := notes[0].TieStart()
	if tie == nil {
		t.Fatal("first note has no tie")
	}
	if tie.NoteEnd() != notes[1] {
		t.Error("tie end note not resolved to the following note")
	}
	if notes[1].TieEnd() != tie {
		t.Error("second note does not point back at the tie")
	}
	if tie.TimeLength() != 256 {
		t.Errorf("tie TimeLength = %d, want 256", tie.TimeLength())
	}
}

func TestImportTieDifferentPitchUnresolved(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+
			`<note time-start="0"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="28" accs="0"/><tie/></note>`+
			`<note time-start="256"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="30" accs="0"/></note>`+
			`</voice></staff></sheet></document>`))

	notes := firstVoice(t, res).NoteList()
	if notes[0].TieStart().NoteEnd() != nil {
		t.Error("tie resolved despite a pitch mismatch")
	}
}

func TestImportSlur(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+
			`<note time-start="0"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="28" accs="0"/><slur-start slur-direction="up"/></note>`+
			`<note time-start="256"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="30" accs="0"/></note>`+
			`<note time-start="512"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="32" accs="0"/><slur-end/></note>`+
			`</voice></staff></sheet></document>`))

	notes := firstVoice(t, res).NoteList()
	slur := notes[0].SlurStart()
	if slur == nil {
		t.Fatal("first note has no slur")
	}
	if slur.Direction() != score.SlurUp {
		t.Errorf("Direction = %v, want up", slur.Direction())
	}
	if slur.NoteEnd() != notes[2] {
		t.Error("slur end not resolved to the third note")
	}
	if slur.TimeLength() != 512 {
		t.Errorf("slur TimeLength = %d, want 512", slur.TimeLength())
	}
	if hasWarning(res, WarnOpenSlur) {
		t.Error("unexpected unterminated-slur warning")
	}
}

func TestImportUnterminatedSlur(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+
			`<note time-start="0"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="28" accs="0"/><slur-start/></note>`+
			`</voice></staff></sheet></document>`))

	notes := firstVoice(t, res).NoteList()
	if notes[0].SlurStart().NoteEnd() != nil {
		t.Error("slur should keep a nil end note")
	}
	if !hasWarning(res, WarnOpenSlur) {
		t.Error("missing unterminated-slur warning")
	}
}

func TestImportTuplet(t *testing.T) {
	eighth := func(start int) string {
		return `<note time-start="` + strconv.Itoa(start) + `"><playable-length music-length="8" dotted="0"/><diatonic-pitch note-name="28" accs="0"/></note>`
	}
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+
			`<tuplet number="3" actual-number="2">`+eighth(0)+eighth(0)+eighth(0)+`</tuplet>`+
			`</voice></staff></sheet></document>`))

	notes := firstVoice(t, res).NoteList()
	if len(notes) != 3 {
		t.Fatalf("len(notes) = %d, want 3", len(notes))
	}
	// an eighth is 128 ticks; scaled by 2/3 that is 85 (integer division)
	wantStarts := []int{0, 85, 170}
	for i, n := range notes {
		if n.Tuplet() == nil {
			t.Fatalf("note %d not a tuplet member", i)
		}
		if n.TimeLength() != 85 {
			t.Errorf("note %d TimeLength = %d, want 85", i, n.TimeLength())
		}
		if n.TimeStart() != wantStarts[i] {
			t.Errorf("note %d TimeStart = %d, want %d", i, n.TimeStart(), wantStarts[i])
		}
	}
}

func TestImportVoiceIndexResolution(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet>`+
			`<staff><voice name="upper"/><voice name="lower"/></staff>`+
			`<lyrics-context name="verse" associated-voice-idx="1">`+
			`<syllable text="la" time-start="0" time-length="256" associated-voice-idx="1"/>`+
			`</lyrics-context>`+
			`</sheet></document>`))

	sheet := res.Document.Sheets()[0]
	voices := sheet.VoiceList()
	var lc *score.LyricsContext
	for _, ctx := range sheet.Contexts() {
		if c, ok := ctx.(*score.LyricsContext); ok {
			lc = c
		}
	}
	if lc == nil {
		t.Fatal("lyrics context missing")
	}
	if lc.AssociatedVoice() != voices[1] {
		t.Error("lyrics context not bound to the second voice")
	}
	if lc.Syllables()[0].AssociatedVoice() != voices[1] {
		t.Error("syllable not bound to the second voice")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestImportVoiceIndexOutOfRange(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet>`+
			`<staff><voice/></staff>`+
			`<lyrics-context name="verse" associated-voice-idx="99">`+
			`<syllable text="la" time-start="0" time-length="256" associated-voice-idx="99"/>`+
			`</lyrics-context>`+
			`</sheet></document>`))

	sheet := res.Document.Sheets()[0]
	for _, ctx := range sheet.Contexts() {
		if lc, ok := ctx.(*score.LyricsContext); ok {
			if lc.AssociatedVoice() != nil {
				t.Error("out-of-range index must leave the association unset")
			}
			if lc.Syllables()[0].AssociatedVoice() != nil {
				t.Error("out-of-range syllable index must stay unresolved")
			}
		}
	}
	if !hasWarning(res, WarnVoiceIndex) {
		t.Error("missing voice-index-out-of-range warning")
	}
}

func TestImportStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"voice outside staff", `<document><sheet><voice/></sheet></document>`},
		{"note outside voice", `<document><sheet><staff>` + quarterC + `</staff></sheet></document>`},
		{"clef outside voice", `<document><sheet><staff><clef clef-type="G"/></staff></sheet></document>`},
		{"staff outside sheet", `<document><staff/></document>`},
		{"syllable outside lyrics context", `<document><sheet><staff><syllable text="la"/></staff></sheet></document>`},
		{"no document element", `<unrelated/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportString(scoreDoc("", tt.body))
			var serr *StructuralError
			if !errors.As(err, &serr) {
				t.Fatalf("error = %v, want *StructuralError", err)
			}
		})
	}
}

func TestImportMalformedXML(t *testing.T) {
	_, err := ImportString(`<?xml version="1.0"?><canorus-document><document><sheet></document>`)
	var merr *MalformedInputError
	if !errors.As(err, &merr) {
		t.Fatalf("error = %v, want *MalformedInputError", err)
	}
	if merr.Line == 0 {
		t.Error("malformed input error carries no line number")
	}
}

func TestImportColorGating(t *testing.T) {
	body := `<document><sheet><staff><voice>` +
		`<clef clef-type="G" c1="2" time-start="0" color="#ff0000"/>` +
		`</voice></staff></sheet></document>`

	tests := []struct {
		version string
		want    bool
	}{
		{"0.7.0", false},
		{"", false},
		{"0.7.10", true},
	}

	for _, tt := range tests {
		t.Run("v"+tt.version, func(t *testing.T) {
			res := mustImport(t, scoreDoc(tt.version, body))
			clef := firstVoice(t, res).Elements()[0]
			if clef.Color().Valid != tt.want {
				t.Errorf("color Valid = %v, want %v", clef.Color().Valid, tt.want)
			}
			if tt.want && clef.Color() != score.RGB(255, 0, 0) {
				t.Errorf("color = %+v, want red", clef.Color())
			}
		})
	}
}

func TestImportTempoMark(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+
			`<note time-start="0"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="28" accs="0"/>`+
			`<mark mark-type="tempo" bpm="120"><playable-length music-length="4" dotted="1"/></mark>`+
			`</note></voice></staff></sheet></document>`))

	n := firstVoice(t, res).NoteList()[0]
	if len(n.Marks()) != 1 {
		t.Fatalf("len(marks) = %d, want 1", len(n.Marks()))
	}
	tempo, ok := n.Marks()[0].(*score.TempoMark)
	if !ok {
		t.Fatalf("mark is %T, want *TempoMark", n.Marks()[0])
	}
	if tempo.BPM != 120 {
		t.Errorf("BPM = %d, want 120", tempo.BPM)
	}
	if tempo.Beat != (score.PlayableLength{Length: score.LengthQuarter, Dotted: 1}) {
		t.Errorf("Beat = %+v, want dotted quarter", tempo.Beat)
	}
	// the mark's nested beat must not clobber the note's own length
	if n.PlayableLength().Length != score.LengthQuarter || n.PlayableLength().Dotted != 0 {
		t.Errorf("note PlayableLength = %+v, want plain quarter", n.PlayableLength())
	}
}

func TestImportLegacyTempoMark(t *testing.T) {
	res := mustImport(t, scoreDoc("0.5.0",
		`<document><sheet><staff><voice>`+
			`<note pitch="28" accs="0" playable-length="4" dotted="0" time-start="0" time-length="256">`+
			`<mark mark-type="tempo" bpm="90" beat="2" beat-dotted="0"/>`+
			`</note></voice></staff></sheet></document>`))

	tempo := firstVoice(t, res).NoteList()[0].Marks()[0].(*score.TempoMark)
	if tempo.BPM != 90 {
		t.Errorf("BPM = %d, want 90", tempo.BPM)
	}
	if tempo.Beat.Length != score.LengthHalf {
		t.Errorf("Beat = %+v, want half", tempo.Beat)
	}
}

func TestImportIncompatibleMarkHost(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+
			`<rest rest-type="normal" time-start="0"><playable-length music-length="4" dotted="0"/>`+
			`<mark mark-type="dynamic" text="p" volume="60"/>`+
			`</rest></voice></staff></sheet></document>`))

	rest := firstVoice(t, res).Elements()[0]
	if len(rest.Marks()) != 0 {
		t.Errorf("rest carries %d marks, want 0", len(rest.Marks()))
	}
	if !hasWarning(res, WarnMarkHost) {
		t.Error("missing incompatible-mark-host warning")
	}
}

func TestImportFermataOnBarline(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+
			`<barline barline-type="end" time-start="1024">`+
			`<mark mark-type="fermata" fermata-type="long"/>`+
			`</barline></voice></staff></sheet></document>`))

	bar := firstVoice(t, res).Elements()[0]
	if len(bar.Marks()) != 1 {
		t.Fatalf("len(marks) = %d, want 1", len(bar.Marks()))
	}
	f := bar.Marks()[0].(*score.FermataMark)
	if f.Variant != score.FermataLong {
		t.Errorf("Variant = %v, want long", f.Variant)
	}
}

func TestImportFingeringMark(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet><staff><voice>`+
			`<note time-start="0"><playable-length music-length="4" dotted="0"/><diatonic-pitch note-name="28" accs="0"/>`+
			`<mark mark-type="fingering" original="1" finger0="1" finger1="3" finger2="thumb"/>`+
			`</note></voice></staff></sheet></document>`))

	f := firstVoice(t, res).NoteList()[0].Marks()[0].(*score.FingeringMark)
	want := []score.FingerNumber{score.FingerFirst, score.FingerThird, score.FingerThumb}
	if len(f.Fingers) != len(want) {
		t.Fatalf("len(fingers) = %d, want %d", len(f.Fingers), len(want))
	}
	for i := range want {
		if f.Fingers[i] != want[i] {
			t.Errorf("finger %d = %v, want %v", i, f.Fingers[i], want[i])
		}
	}
	if !f.Original {
		t.Error("Original flag lost")
	}
}

func TestImportFiguredBass(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet>`+
			`<figured-bass-context name="fb">`+
			`<figured-bass-mark time-start="0" time-length="256">`+
			`<figured-bass-number number="6"/>`+
			`<figured-bass-number number="4" accs="-1"/>`+
			`</figured-bass-mark>`+
			`</figured-bass-context>`+
			`</sheet></document>`))

	var fbc *score.FiguredBassContext
	for _, ctx := range res.Document.Sheets()[0].Contexts() {
		if c, ok := ctx.(*score.FiguredBassContext); ok {
			fbc = c
		}
	}
	if fbc == nil {
		t.Fatal("figured bass context missing")
	}
	nums := fbc.Marks()[0].Numbers()
	if len(nums) != 2 {
		t.Fatalf("len(numbers) = %d, want 2", len(nums))
	}
	if nums[0] != (score.FiguredBassNumber{Number: 6}) {
		t.Errorf("number 0 = %+v", nums[0])
	}
	if nums[1] != (score.FiguredBassNumber{Number: 4, Accs: -1, HasAccs: true}) {
		t.Errorf("number 1 = %+v", nums[1])
	}
}

func TestImportFunctionMarkLegacyKey(t *testing.T) {
	res := mustImport(t, scoreDoc("0.5.0",
		`<document><sheet>`+
			`<function-marking-context name="harmony">`+
			`<function-marking function="T" minor="0" key="d" time-start="0" time-length="256"/>`+
			`</function-marking-context>`+
			`</sheet></document>`))

	var fmc *score.FunctionMarkContext
	for _, ctx := range res.Document.Sheets()[0].Contexts() {
		if c, ok := ctx.(*score.FunctionMarkContext); ok {
			fmc = c
		}
	}
	if fmc == nil {
		t.Fatal("function mark context missing")
	}
	f := fmc.Marks()[0]
	if f.Function() != score.FuncT {
		t.Errorf("Function = %v, want T", f.Function())
	}
	if f.Key().Gender != score.GenderMinor {
		t.Errorf("key gender = %v, want minor", f.Key().Gender)
	}
}

func TestImportChordName(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><sheet>`+
			`<chord-name-context name="chords">`+
			`<chord-name quality-modifier="m7" time-start="0" time-length="512">`+
			`<diatonic-pitch note-name="29" accs="0"/>`+
			`</chord-name>`+
			`</chord-name-context>`+
			`</sheet></document>`))

	var cnc *score.ChordNameContext
	for _, ctx := range res.Document.Sheets()[0].Contexts() {
		if c, ok := ctx.(*score.ChordNameContext); ok {
			cnc = c
		}
	}
	if cnc == nil {
		t.Fatal("chord name context missing")
	}
	cn := cnc.ChordNames()[0]
	if cn.QualityModifier() != "m7" {
		t.Errorf("QualityModifier = %q", cn.QualityModifier())
	}
	if cn.Pitch().NoteName != 29 {
		t.Errorf("root NoteName = %d, want 29", cn.Pitch().NoteName)
	}
}

func TestImportResourceRecord(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document>`+
			`<resource name="cover" url="https://example.org/cover.png" linked="1" resource-type="image" description="cover art"/>`+
			`<sheet/></document>`))

	resources := res.Document.Resources()
	if len(resources) != 1 {
		t.Fatalf("len(resources) = %d, want 1", len(resources))
	}
	r := resources[0]
	if !r.Linked || r.Type != score.ResourceImage || r.Description != "cover art" {
		t.Errorf("resource = %+v", r)
	}
}

func TestImportUnknownTagsIgnored(t *testing.T) {
	res := mustImport(t, scoreDoc("",
		`<document><future-extension attr="1"><nested/></future-extension><sheet/></document>`))
	if len(res.Document.Sheets()) != 1 {
		t.Errorf("len(sheets) = %d, want 1", len(res.Document.Sheets()))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestImporterReuse(t *testing.T) {
	im := &Importer{}
	for i := 0; i < 2; i++ {
		res, err := im.Import(strings.NewReader(scoreDoc("", `<document><sheet><staff><voice>`+quarterC+`</voice></staff></sheet></document>`)))
		if err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
		if got := len(res.Document.Sheets()); got != 1 {
			t.Errorf("pass %d: len(sheets) = %d, want 1", i, got)
		}
	}
}
