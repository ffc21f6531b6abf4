package score

import "time"

// Document is the root of the score model: metadata, an ordered sequence
// of sheets and the set of attached resources.
type Document struct {
	Title          string
	Subtitle       string
	Composer       string
	Arranger       string
	Poet           string
	TextTranslator string
	Copyright      string
	Dedication     string
	Comments       string

	DateCreated      time.Time
	DateLastModified time.Time
	TimeEdited       int // total edited time in seconds

	FileName string

	sheets    []*Sheet
	resources []*Resource
}

// NewDocument creates an empty document.
func NewDocument() *Document { return &Document{} }

// Sheets returns the document's sheets in order.
func (d *Document) Sheets() []*Sheet { return d.sheets }

// AddSheet appends a sheet to the document.
func (d *Document) AddSheet(s *Sheet) { d.sheets = append(d.sheets, s) }

// NewSheet creates a sheet named "Sheet<N>" and adds it to the document.
func (d *Document) NewSheet() *Sheet {
	s := NewSheet(autoName("Sheet", len(d.sheets)+1), d)
	d.AddSheet(s)
	return s
}

// SheetByName returns the first sheet with the given name, or nil. Sheet
// names need not be unique.
func (d *Document) SheetByName(name string) *Sheet {
	for _, s := range d.sheets {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Resources returns the document's attached resources.
func (d *Document) Resources() []*Resource { return d.resources }

// AddResource attaches a resource to the document.
func (d *Document) AddResource(r *Resource) { d.resources = append(d.resources, r) }
