package canorusml

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tactus/partita/core/encoding"
	"github.com/tactus/partita/core/errors"
	"github.com/tactus/partita/core/score"
)

// Export writes doc as a CanorusML document to w.
func Export(doc *score.Document, w io.Writer) error {
	e := &exporter{w: bufio.NewWriter(w)}
	e.exportDocument(doc)
	if e.err != nil {
		return errors.NewIO("write", "", e.err)
	}
	return e.w.Flush()
}

// ExportString serializes doc to a CanorusML string.
func ExportString(doc *score.Document) (string, error) {
	var sb strings.Builder
	if err := Export(doc, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ExportFile writes doc as a CanorusML document at path.
func ExportFile(doc *score.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	if err := Export(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// xattr is one serialized attribute; attribute order is kept stable.
type xattr struct {
	name  string
	value string
}

func sa(name, value string) xattr { return xattr{name: name, value: value} }
func ia(name string, v int) xattr { return xattr{name: name, value: strconv.Itoa(v)} }
func ba(name string, v bool) xattr {
	if v {
		return xattr{name: name, value: "1"}
	}
	return xattr{name: name, value: "0"}
}

type exporter struct {
	w      *bufio.Writer
	indent int
	err    error
}

func (e *exporter) line(format string, args ...any) {
	if e.err != nil {
		return
	}
	for i := 0; i < e.indent; i++ {
		if _, e.err = e.w.WriteString("\t"); e.err != nil {
			return
		}
	}
	_, e.err = fmt.Fprintf(e.w, format+"\n", args...)
}

func renderAttrs(attrs []xattr) string {
	var sb strings.Builder
	for _, a := range attrs {
		sb.WriteString(" ")
		sb.WriteString(a.name)
		sb.WriteString("=\"")
		sb.WriteString(encoding.EscapeXMLAttr(a.value))
		sb.WriteString("\"")
	}
	return sb.String()
}

func (e *exporter) open(name string, attrs ...xattr) {
	e.line("<%s%s>", name, renderAttrs(attrs))
	e.indent++
}

func (e *exporter) close(name string) {
	e.indent--
	e.line("</%s>", name)
}

func (e *exporter) empty(name string, attrs ...xattr) {
	e.line("<%s%s/>", name, renderAttrs(attrs))
}

// colorAttr appends a color attribute when the element carries one.
func colorAttr(attrs []xattr, c score.Color) []xattr {
	if c.Valid {
		attrs = append(attrs, sa("color", c.String()))
	}
	return attrs
}

func (e *exporter) exportDocument(doc *score.Document) {
	e.line(`<?xml version="1.0" encoding="UTF-8"?>`)
	e.open("canorus-document")
	e.line("<canorus-version>%s</canorus-version>", CurrentVersion)

	attrs := []xattr{}
	for _, a := range []xattr{
		sa("title", doc.Title), sa("subtitle", doc.Subtitle),
		sa("composer", doc.Composer), sa("arranger", doc.Arranger),
		sa("poet", doc.Poet), sa("text-translator", doc.TextTranslator),
		sa("copyright", doc.Copyright), sa("dedication", doc.Dedication),
		sa("comments", doc.Comments),
	} {
		if a.value != "" {
			attrs = append(attrs, a)
		}
	}
	if !doc.DateCreated.IsZero() {
		attrs = append(attrs, sa("date-created", doc.DateCreated.Format(dateFormat)))
	}
	if !doc.DateLastModified.IsZero() {
		attrs = append(attrs, sa("date-last-modified", doc.DateLastModified.Format(dateFormat)))
	}
	attrs = append(attrs, ia("time-edited", doc.TimeEdited))
	e.open("document", attrs...)

	for _, r := range doc.Resources() {
		e.exportResource(r)
	}
	for _, sheet := range doc.Sheets() {
		e.exportSheet(sheet)
	}

	e.close("document")
	e.close("canorus-document")
}

func (e *exporter) exportResource(r *score.Resource) {
	attrs := []xattr{sa("name", r.Name), sa("url", r.URL), ba("linked", r.Linked)}
	if r.Type != score.ResourceUndefined {
		attrs = append(attrs, sa("resource-type", r.Type.String()))
	}
	if r.Description != "" {
		attrs = append(attrs, sa("description", r.Description))
	}
	e.empty("resource", attrs...)
}

func (e *exporter) exportSheet(sheet *score.Sheet) {
	e.open("sheet", sa("name", sheet.Name()))
	for _, ctx := range sheet.Contexts() {
		switch c := ctx.(type) {
		case *score.Staff:
			e.exportStaff(c)
		case *score.LyricsContext:
			e.exportLyricsContext(c)
		case *score.FiguredBassContext:
			e.exportFiguredBassContext(c)
		case *score.FunctionMarkContext:
			e.exportFunctionMarkContext(c)
		case *score.ChordNameContext:
			e.exportChordNameContext(c)
		}
	}
	e.close("sheet")
}

func (e *exporter) exportStaff(staff *score.Staff) {
	e.open("staff", sa("name", staff.Name()), ia("number-of-lines", staff.NumberOfLines()))
	for _, v := range staff.VoiceList() {
		e.exportVoice(v)
	}
	e.close("staff")
}

func (e *exporter) exportVoice(v *score.Voice) {
	e.open("voice",
		sa("name", v.Name()),
		sa("stem-direction", v.StemDirection().String()),
		ia("midi-channel", v.MidiChannel()),
		ia("midi-program", v.MidiProgram()),
		ia("midi-pitch-offset", v.MidiPitchOffset()))

	// tuplets are written as a wrapper element around their members; track
	// which have been emitted so each member is written exactly once
	written := make(map[*score.Tuplet]bool)
	for _, elem := range v.Elements() {
		if p, ok := elem.(score.Playable); ok && p.Tuplet() != nil {
			t := p.Tuplet()
			if written[t] {
				continue
			}
			written[t] = true
			e.open("tuplet", ia("number", t.Number()), ia("actual-number", t.ActualNumber()))
			for _, m := range t.Members() {
				e.exportElement(m)
			}
			e.close("tuplet")
			continue
		}
		e.exportElement(elem)
	}
	e.close("voice")
}

func (e *exporter) exportElement(elem score.Element) {
	switch el := elem.(type) {
	case *score.Clef:
		attrs := []xattr{
			sa("clef-type", el.ClefType().String()),
			ia("c1", el.Line()), ia("offset", el.Offset()),
			ia("time-start", el.TimeStart()),
		}
		e.openOrEmpty("clef", colorAttr(attrs, el.Color()), el.Marks(), nil)

	case *score.KeySignature:
		attrs := []xattr{
			sa("key-signature-type", el.KeySignatureType().String()),
			ia("time-start", el.TimeStart()),
		}
		if el.KeySignatureType() == score.KeySigModus {
			attrs = append(attrs, sa("modus", el.Modus().String()))
			e.openOrEmpty("key-signature", colorAttr(attrs, el.Color()), el.Marks(), nil)
		} else {
			e.openOrEmpty("key-signature", colorAttr(attrs, el.Color()), el.Marks(), func() {
				e.exportDiatonicKey(el.DiatonicKey())
			})
		}

	case *score.TimeSignature:
		attrs := []xattr{
			ia("beats", el.Beats()), ia("beat", el.Beat()),
			sa("time-signature-type", el.TimeSignatureType().String()),
			ia("time-start", el.TimeStart()),
		}
		e.openOrEmpty("time-signature", colorAttr(attrs, el.Color()), el.Marks(), nil)

	case *score.Barline:
		attrs := []xattr{
			sa("barline-type", el.BarlineType().String()),
			ia("time-start", el.TimeStart()),
		}
		e.openOrEmpty("barline", colorAttr(attrs, el.Color()), el.Marks(), nil)

	case *score.Note:
		e.exportNote(el)

	case *score.Rest:
		attrs := []xattr{
			sa("rest-type", el.RestType().String()),
			ia("time-start", el.TimeStart()), ia("time-length", el.TimeLength()),
		}
		e.openOrEmpty("rest", colorAttr(attrs, el.Color()), el.Marks(), func() {
			e.exportPlayableLength(el.PlayableLength())
		})
	}
}

// openOrEmpty writes an element with optional mark children and an optional
// body callback, collapsing to a self-closing tag when both are absent.
func (e *exporter) openOrEmpty(name string, attrs []xattr, marks []score.Mark, body func()) {
	if len(marks) == 0 && body == nil {
		e.empty(name, attrs...)
		return
	}
	e.open(name, attrs...)
	if body != nil {
		body()
	}
	for _, m := range marks {
		e.exportMark(m)
	}
	e.close(name)
}

func (e *exporter) exportNote(n *score.Note) {
	attrs := []xattr{
		ia("time-start", n.TimeStart()), ia("time-length", n.TimeLength()),
		sa("stem-direction", n.StemDirection().String()),
	}
	e.open("note", colorAttr(attrs, n.Color())...)
	e.exportPlayableLength(n.PlayableLength())
	e.exportDiatonicPitch(n.Pitch())

	// ends before starts: a note may end one slur and open another
	if n.SlurEnd() != nil {
		e.empty("slur-end")
	}
	if n.PhrasingSlurEnd() != nil {
		e.empty("phrasing-slur-end")
	}
	if tie := n.TieStart(); tie != nil {
		e.empty("tie", slurAttrs(tie)...)
	}
	if s := n.SlurStart(); s != nil {
		e.empty("slur-start", slurAttrs(s)...)
	}
	if s := n.PhrasingSlurStart(); s != nil {
		e.empty("phrasing-slur-start", slurAttrs(s)...)
	}

	for _, m := range n.Marks() {
		e.exportMark(m)
	}
	e.close("note")
}

func slurAttrs(s *score.Slur) []xattr {
	return []xattr{
		sa("slur-style", s.Style().String()),
		sa("slur-direction", s.Direction().String()),
	}
}

func (e *exporter) exportPlayableLength(l score.PlayableLength) {
	e.empty("playable-length", sa("music-length", l.Length.String()), ia("dotted", l.Dotted))
}

func (e *exporter) exportDiatonicPitch(p score.DiatonicPitch) {
	e.empty("diatonic-pitch", ia("note-name", p.NoteName), ia("accs", p.Accs))
}

func (e *exporter) exportDiatonicKey(k score.DiatonicKey) {
	e.open("diatonic-key", sa("gender", k.Gender.String()))
	e.exportDiatonicPitch(k.Pitch)
	e.close("diatonic-key")
}

func (e *exporter) exportLyricsContext(lc *score.LyricsContext) {
	attrs := []xattr{sa("name", lc.Name()), ia("stanza-number", lc.StanzaNumber())}
	if v := lc.AssociatedVoice(); v != nil {
		attrs = append(attrs, ia("associated-voice-idx", v.Index()))
	}
	e.open("lyrics-context", attrs...)
	for _, s := range lc.Syllables() {
		sattrs := []xattr{
			sa("text", s.Text()),
			ba("hyphen", s.Hyphen()), ba("melisma", s.Melisma()),
			ia("time-start", s.TimeStart()), ia("time-length", s.TimeLength()),
		}
		if v := s.AssociatedVoice(); v != nil {
			sattrs = append(sattrs, ia("associated-voice-idx", v.Index()))
		}
		e.empty("syllable", colorAttr(sattrs, s.Color())...)
	}
	e.close("lyrics-context")
}

func (e *exporter) exportFiguredBassContext(c *score.FiguredBassContext) {
	e.open("figured-bass-context", sa("name", c.Name()))
	for _, m := range c.Marks() {
		e.open("figured-bass-mark", ia("time-start", m.TimeStart()), ia("time-length", m.TimeLength()))
		for _, n := range m.Numbers() {
			if n.HasAccs {
				e.empty("figured-bass-number", ia("number", n.Number), ia("accs", n.Accs))
			} else {
				e.empty("figured-bass-number", ia("number", n.Number))
			}
		}
		e.close("figured-bass-mark")
	}
	e.close("figured-bass-context")
}

func (e *exporter) exportFunctionMarkContext(c *score.FunctionMarkContext) {
	e.open("function-mark-context", sa("name", c.Name()))
	for _, f := range c.Marks() {
		attrs := []xattr{
			sa("function", f.Function().String()), ba("minor", f.Minor()),
			ia("time-start", f.TimeStart()), ia("time-length", f.TimeLength()),
		}
		if f.ChordArea() != score.FuncUndefined {
			attrs = append(attrs, sa("chord-area", f.ChordArea().String()), ba("chord-area-minor", f.ChordAreaMinor()))
		}
		if f.TonicDegree() != score.FuncUndefined {
			attrs = append(attrs, sa("tonic-degree", f.TonicDegree().String()), ba("tonic-degree-minor", f.TonicDegreeMinor()))
		}
		if f.Ellipse() {
			attrs = append(attrs, ba("ellipse", true))
		}
		e.open("function-mark", colorAttr(attrs, f.Color())...)
		e.exportDiatonicKey(f.Key())
		e.close("function-mark")
	}
	e.close("function-mark-context")
}

func (e *exporter) exportChordNameContext(c *score.ChordNameContext) {
	e.open("chord-name-context", sa("name", c.Name()))
	for _, cn := range c.ChordNames() {
		attrs := []xattr{
			ia("time-start", cn.TimeStart()), ia("time-length", cn.TimeLength()),
		}
		if cn.QualityModifier() != "" {
			attrs = append(attrs, sa("quality-modifier", cn.QualityModifier()))
		}
		e.open("chord-name", colorAttr(attrs, cn.Color())...)
		e.exportDiatonicPitch(cn.Pitch())
		e.close("chord-name")
	}
	e.close("chord-name-context")
}

func (e *exporter) exportMark(m score.Mark) {
	attrs := []xattr{sa("mark-type", m.MarkType().String())}

	switch mk := m.(type) {
	case *score.TextMark:
		attrs = append(attrs, sa("text", mk.Text))
		e.empty("mark", colorAttr(attrs, m.Color())...)

	case *score.TempoMark:
		attrs = append(attrs, ia("bpm", mk.BPM))
		e.open("mark", colorAttr(attrs, m.Color())...)
		e.exportPlayableLength(mk.Beat)
		e.close("mark")

	case *score.RitardandoMark:
		attrs = append(attrs,
			sa("ritardando-type", mk.Variant.String()),
			ia("final-tempo", mk.FinalTempo), ia("time-length", mk.TimeLength()))
		e.empty("mark", colorAttr(attrs, m.Color())...)

	case *score.DynamicMark:
		attrs = append(attrs, sa("text", mk.Text), ia("volume", mk.Volume))
		e.empty("mark", colorAttr(attrs, m.Color())...)

	case *score.CrescendoMark:
		attrs = append(attrs,
			sa("crescendo-type", mk.Variant.String()), ia("final-volume", mk.FinalVolume),
			ia("time-start", mk.TimeStart()), ia("time-length", mk.TimeLength()))
		e.empty("mark", colorAttr(attrs, m.Color())...)

	case *score.InstrumentChangeMark:
		attrs = append(attrs, ia("instrument", mk.Instrument))
		e.empty("mark", colorAttr(attrs, m.Color())...)

	case *score.BookMarkMark:
		attrs = append(attrs, sa("text", mk.Text))
		e.empty("mark", colorAttr(attrs, m.Color())...)

	case *score.FermataMark:
		attrs = append(attrs, sa("fermata-type", mk.Variant.String()))
		e.empty("mark", colorAttr(attrs, m.Color())...)

	case *score.RepeatMarkMark:
		attrs = append(attrs, sa("repeat-mark-type", mk.Variant.String()))
		if mk.Variant == score.RepeatVolta {
			attrs = append(attrs, ia("volta-number", mk.VoltaNumber))
		}
		e.empty("mark", colorAttr(attrs, m.Color())...)

	case *score.ArticulationMark:
		attrs = append(attrs, sa("articulation-type", mk.Variant.String()))
		e.empty("mark", colorAttr(attrs, m.Color())...)

	case *score.FingeringMark:
		attrs = append(attrs, ba("original", mk.Original))
		for i, f := range mk.Fingers {
			attrs = append(attrs, sa(fmt.Sprintf("finger%d", i), f.String()))
		}
		e.empty("mark", colorAttr(attrs, m.Color())...)

	case *score.GenericMark:
		if m.MarkType() == score.MarkPedal {
			attrs = append(attrs, ia("time-start", mk.TimeStart()), ia("time-length", mk.TimeLength()))
		}
		e.empty("mark", colorAttr(attrs, m.Color())...)
	}
}
