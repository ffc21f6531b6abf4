package canorusml

// Warning codes for anomalies tolerated during import. None of these abort
// the parse; they are collected on the result so callers and tests can
// observe them.
const (
	// WarnVoiceIndex: a lyrics context or syllable referenced a voice
	// index outside the sheet's voice list; the association stays unset.
	WarnVoiceIndex = "voice-index-out-of-range"
	// WarnMarkHost: a mark was declared on a host element that cannot
	// carry it; the mark is not created.
	WarnMarkHost = "incompatible-mark-host"
	// WarnUnknownMark: a mark with an unrecognized mark-type.
	WarnUnknownMark = "unknown-mark-type"
	// WarnOpenSlur: a slur or phrasing slur had no end tag before its
	// sheet closed; the slur keeps a nil end note.
	WarnOpenSlur = "unterminated-slur"
	// WarnResource: a resource could not be imported; the document keeps
	// a record without content.
	WarnResource = "resource-import"
)

// Warning records one tolerated anomaly.
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string { return w.Code + ": " + w.Message }
