package wordml

import (
	"encoding/xml"
	"io"
	"strings"
)

// InsertedRun represents a w:ins revision wrapper: one or more runs whose
// text was inserted relative to the baseline version.
type InsertedRun struct {
	Author string
	Date   string
	ID     string
	Runs   []*Run
	// Extra holds non-run children preserved verbatim
	Extra []*RawElement
}

func (ir *InsertedRun) isParagraphItem() {}

// NewInsertedRun builds an insertion wrapper around the given runs.
func NewInsertedRun(author, date, id string, runs ...*Run) *InsertedRun {
	return &InsertedRun{Author: author, Date: date, ID: id, Runs: runs}
}

// Text returns the inserted text: the concatenated visible text of the
// wrapped runs.
func (ir *InsertedRun) Text() string {
	var b strings.Builder
	for _, r := range ir.Runs {
		b.WriteString(r.Text())
	}
	return b.String()
}

// UnmarshalXML implements custom XML unmarshaling for w:ins
func (ir *InsertedRun) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	ir.Author, ir.Date, ir.ID = revisionAttrs(start)

	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "r" {
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				ir.Runs = append(ir.Runs, &run)
				continue
			}
			raw, err := captureElement(d, t)
			if err != nil {
				return err
			}
			ir.Extra = append(ir.Extra, raw)
		case xml.EndElement:
			if t.Name.Local == "ins" {
				return nil
			}
		}
	}

	return nil
}

func (ir *InsertedRun) writeTo(b *strings.Builder) {
	writeRevisionOpenTag(b, "w:ins", ir.ID, ir.Author, ir.Date)
	for _, r := range ir.Runs {
		r.writeTo(b)
	}
	for _, raw := range ir.Extra {
		raw.writeTo(b)
	}
	b.WriteString("</w:ins>")
}

// DeletedRun represents a w:del revision wrapper: one or more runs whose
// text was deleted relative to the baseline version. The wrapped runs carry
// their text as w:delText.
type DeletedRun struct {
	Author string
	Date   string
	ID     string
	Runs   []*Run
	Extra  []*RawElement
}

func (dr *DeletedRun) isParagraphItem() {}

// NewDeletedRun builds a deletion wrapper around the given runs.
func NewDeletedRun(author, date, id string, runs ...*Run) *DeletedRun {
	return &DeletedRun{Author: author, Date: date, ID: id, Runs: runs}
}

// Text returns the deleted text carried by the wrapped runs.
func (dr *DeletedRun) Text() string {
	var b strings.Builder
	for _, r := range dr.Runs {
		b.WriteString(r.DeletedText())
	}
	return b.String()
}

// UnmarshalXML implements custom XML unmarshaling for w:del
func (dr *DeletedRun) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	dr.Author, dr.Date, dr.ID = revisionAttrs(start)

	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "r" {
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				dr.Runs = append(dr.Runs, &run)
				continue
			}
			raw, err := captureElement(d, t)
			if err != nil {
				return err
			}
			dr.Extra = append(dr.Extra, raw)
		case xml.EndElement:
			if t.Name.Local == "del" {
				return nil
			}
		}
	}

	return nil
}

func (dr *DeletedRun) writeTo(b *strings.Builder) {
	writeRevisionOpenTag(b, "w:del", dr.ID, dr.Author, dr.Date)
	for _, r := range dr.Runs {
		r.writeTo(b)
	}
	for _, raw := range dr.Extra {
		raw.writeTo(b)
	}
	b.WriteString("</w:del>")
}

func revisionAttrs(start xml.StartElement) (author, date, id string) {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "author":
			author = attr.Value
		case "date":
			date = attr.Value
		case "id":
			id = attr.Value
		}
	}
	return author, date, id
}

func writeRevisionOpenTag(b *strings.Builder, tag, id, author, date string) {
	b.WriteString("<")
	b.WriteString(tag)
	if id != "" {
		b.WriteString(` w:id="` + escapeAttr(id) + `"`)
	}
	if author != "" {
		b.WriteString(` w:author="` + escapeAttr(author) + `"`)
	}
	if date != "" {
		b.WriteString(` w:date="` + escapeAttr(date) + `"`)
	}
	b.WriteString(">")
}
