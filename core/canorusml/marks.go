package canorusml

import (
	"fmt"

	"github.com/tactus/partita/core/score"
)

// importMark creates one mark on the current element. A mark declared on a
// host that cannot carry it is dropped with a warning; the parse goes on.
func (im *Importer) importMark(attrs attributes) {
	im.curMark = nil
	markType := score.MarkTypeFromString(attrs.value("mark-type"))
	host := im.curElem
	if host == nil || isNilElement(host) {
		im.warn(WarnMarkHost, "%s mark has no host element", markType)
		return
	}

	switch markType {
	case score.MarkText:
		p, ok := host.(score.Playable)
		if !ok {
			im.warnHost(markType, host)
			return
		}
		im.curMark = score.NewTextMark(attrs.value("text"), p)

	case score.MarkTempo:
		if im.version.IsLegacy() {
			beat := score.PlayableLength{
				Length: score.MusicLengthFromString(attrs.value("beat")),
				Dotted: attrs.intValue("beat-dotted"),
			}
			im.curMark = score.NewTempoMark(beat, attrs.intValue("bpm"), host)
		} else {
			// the beat arrives as a nested playable-length child and is
			// filled in at the mark's close tag
			im.curMark = score.NewTempoMark(score.PlayableLength{Length: score.LengthUndefined},
				attrs.intValue("bpm"), host)
		}

	case score.MarkRitardando:
		p, ok := host.(score.Playable)
		if !ok {
			im.warnHost(markType, host)
			return
		}
		im.curMark = score.NewRitardandoMark(attrs.intValue("final-tempo"), p,
			attrs.intValue("time-length"), score.RitardandoTypeFromString(attrs.value("ritardando-type")))

	case score.MarkDynamic:
		n, ok := host.(*score.Note)
		if !ok {
			im.warnHost(markType, host)
			return
		}
		im.curMark = score.NewDynamicMark(attrs.value("text"), attrs.intValue("volume"), n)

	case score.MarkCrescendo:
		n, ok := host.(*score.Note)
		if !ok {
			im.warnHost(markType, host)
			return
		}
		im.curMark = score.NewCrescendoMark(attrs.intValue("final-volume"), n,
			score.CrescendoTypeFromString(attrs.value("crescendo-type")),
			attrs.intValue("time-start"), attrs.intValue("time-length"))

	case score.MarkPedal:
		im.curMark = score.NewGenericMark(score.MarkPedal, host,
			attrs.intValue("time-start"), attrs.intValue("time-length"))

	case score.MarkInstrumentChange:
		n, ok := host.(*score.Note)
		if !ok {
			im.warnHost(markType, host)
			return
		}
		im.curMark = score.NewInstrumentChangeMark(attrs.intValue("instrument"), n)

	case score.MarkBookMark:
		im.curMark = score.NewBookMarkMark(attrs.value("text"), host)

	case score.MarkRehearsalMark:
		im.curMark = score.NewGenericMark(score.MarkRehearsalMark, host, host.TimeStart(), 0)

	case score.MarkFermata:
		if !host.IsPlayable() && host.ElementType() != score.ElemBarline {
			im.warnHost(markType, host)
			return
		}
		im.curMark = score.NewFermataMark(host, score.FermataTypeFromString(attrs.value("fermata-type")))

	case score.MarkRepeatMark:
		b, ok := host.(*score.Barline)
		if !ok {
			im.warnHost(markType, host)
			return
		}
		im.curMark = score.NewRepeatMarkMark(b,
			score.RepeatMarkTypeFromString(attrs.value("repeat-mark-type")), attrs.intValue("volta-number"))

	case score.MarkArticulation:
		n, ok := host.(*score.Note)
		if !ok {
			im.warnHost(markType, host)
			return
		}
		im.curMark = score.NewArticulationMark(
			score.ArticulationTypeFromString(attrs.value("articulation-type")), n)

	case score.MarkFingering:
		n, ok := host.(*score.Note)
		if !ok {
			im.warnHost(markType, host)
			return
		}
		var fingers []score.FingerNumber
		for i := 0; ; i++ {
			v := attrs.value(fmt.Sprintf("finger%d", i))
			if v == "" {
				break
			}
			fingers = append(fingers, score.FingerNumberFromString(v))
		}
		im.curMark = score.NewFingeringMark(fingers, n, attrs.intValue("original") != 0)

	default:
		im.warn(WarnUnknownMark, "unknown mark type %q", attrs.value("mark-type"))
		return
	}

	if im.curMark != nil {
		host.AddMark(im.curMark)
	}
}

func (im *Importer) warnHost(t score.MarkType, host score.Element) {
	im.warn(WarnMarkHost, "%s mark on %s element", t, host.ElementType())
}
