// Package midi renders a score sheet as a standard MIDI file: one track
// per voice, note events timed on the score's own tick base so a quarter
// note maps one to one onto a MIDI quarter.
package midi

import (
	"io"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/tactus/partita/core/errors"
	"github.com/tactus/partita/core/score"
)

// DefaultVelocity is the note-on velocity used when no dynamic mark
// applies.
const DefaultVelocity = 100

// DefaultBPM is the tempo assumed until a tempo mark is seen.
const DefaultBPM = 120

// event ordering within one tick: meta first, then note-offs, then
// note-ons, so retriggered pitches are released before they restart.
const (
	ordMeta = iota
	ordOff
	ordOn
)

type event struct {
	tick int
	ord  int
	msg  midi.Message
}

// Export writes sheet as a type-1 MIDI file to w.
func Export(sheet *score.Sheet, w io.Writer) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(score.WholeTicks / 4)

	for _, staff := range sheet.StaffList() {
		for _, v := range staff.VoiceList() {
			if err := s.Add(buildTrack(v)); err != nil {
				return errors.Wrapf(err, "midi track for voice %s", v.Name())
			}
		}
	}

	if _, err := s.WriteTo(w); err != nil {
		return errors.Wrap(err, "write midi")
	}
	return nil
}

// ExportFile writes sheet as a MIDI file at path.
func ExportFile(sheet *score.Sheet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	if err := Export(sheet, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func buildTrack(v *score.Voice) smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(v.Name()))

	ch := clamp7(v.MidiChannel(), 15)
	tr.Add(0, midi.ProgramChange(ch, clamp7(v.MidiProgram(), 127)))
	tr.Add(0, smf.MetaTempo(DefaultBPM))

	var events []event
	velocity := uint8(DefaultVelocity)

	for _, elem := range v.Elements() {
		switch el := elem.(type) {
		case *score.TimeSignature:
			if el.Beat() > 0 {
				events = append(events, event{tick: el.TimeStart(), ord: ordMeta,
					msg: midi.Message(smf.MetaMeter(uint8(el.Beats()), uint8(el.Beat())))})
			}

		case *score.Note:
			for _, m := range el.Marks() {
				switch mk := m.(type) {
				case *score.TempoMark:
					if mk.BPM > 0 {
						events = append(events, event{tick: el.TimeStart(), ord: ordMeta,
							msg: midi.Message(smf.MetaTempo(float64(mk.BPM)))})
					}
				case *score.DynamicMark:
					if mk.Volume > 0 {
						velocity = clamp7(mk.Volume, 127)
					}
				}
			}

			// a note closing a tie is sounded by the note that opened it
			if el.TieEnd() != nil {
				continue
			}
			key := midiKey(el, v)
			on := el.TimeStart()
			off := tieChainEnd(el)
			events = append(events,
				event{tick: on, ord: ordOn, msg: midi.NoteOn(ch, key, velocity)},
				event{tick: off, ord: ordOff, msg: midi.NoteOff(ch, key)})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].ord < events[j].ord
	})

	cursor := 0
	for _, e := range events {
		delta := e.tick - cursor
		if delta < 0 {
			delta = 0
		}
		tr.Add(uint32(delta), e.msg)
		cursor = e.tick
	}
	tr.Close(0)
	return tr
}

// tieChainEnd returns the release tick of a note, following resolved ties
// through to the last note of the chain.
func tieChainEnd(n *score.Note) int {
	for n.TieStart() != nil && n.TieStart().NoteEnd() != nil {
		next := n.TieStart().NoteEnd()
		if next == n {
			break
		}
		n = next
	}
	return n.TimeEnd()
}

func midiKey(n *score.Note, v *score.Voice) uint8 {
	key := n.Pitch().MIDIPitch() + v.MidiPitchOffset()
	return clamp7(key, 127)
}

func clamp7(v, max int) uint8 {
	if v < 0 {
		return 0
	}
	if v > max {
		return uint8(max)
	}
	return uint8(v)
}
