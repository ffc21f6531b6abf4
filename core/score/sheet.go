package score

import "fmt"

// Sheet is one score page set: an ordered sequence of contexts owned by a
// document.
type Sheet struct {
	name     string
	document *Document
	contexts []Context
}

// NewSheet creates a sheet belonging to doc. The sheet is not added to the
// document; callers do that via Document.AddSheet.
func NewSheet(name string, doc *Document) *Sheet {
	return &Sheet{name: name, document: doc}
}

func (s *Sheet) Name() string         { return s.name }
func (s *Sheet) SetName(name string)  { s.name = name }
func (s *Sheet) Document() *Document  { return s.document }
func (s *Sheet) Contexts() []Context  { return s.contexts }

// AddContext appends a context to the sheet.
func (s *Sheet) AddContext(c Context) { s.contexts = append(s.contexts, c) }

// StaffList returns the sheet's staves in context order.
func (s *Sheet) StaffList() []*Staff {
	var staves []*Staff
	for _, c := range s.contexts {
		if st, ok := c.(*Staff); ok {
			staves = append(staves, st)
		}
	}
	return staves
}

// VoiceList returns all voices of the sheet, staff by staff in context
// order. Serialized voice indices count against this list.
func (s *Sheet) VoiceList() []*Voice {
	var voices []*Voice
	for _, st := range s.StaffList() {
		voices = append(voices, st.VoiceList()...)
	}
	return voices
}

// autoName produces the "<TypeName><ordinal>" fallback used when a
// serialized name is absent.
func autoName(typeName string, ordinal int) string {
	return fmt.Sprintf("%s%d", typeName, ordinal)
}
