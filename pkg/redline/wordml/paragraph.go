package wordml

import (
	"encoding/xml"
	"io"
	"strings"
)

// ParagraphItem is any element that can appear inside a paragraph.
type ParagraphItem interface {
	isParagraphItem()
}

// Paragraph represents a paragraph in the document
type Paragraph struct {
	// Attrs preserves the attributes of the w:p element (revision save ids,
	// paragraph ids)
	Attrs []xml.Attr
	// Properties holds the verbatim w:pPr markup, if present
	Properties *RawElement
	// Items maintains the order of runs, revision wrappers, and preserved
	// elements
	Items []ParagraphItem
}

func (p *Paragraph) isBodyItem() {}

// Text returns the paragraph's current text: the concatenated visible text of
// its runs and insertion wrappers, in document order. Deleted text does not
// contribute.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, item := range p.Items {
		switch el := item.(type) {
		case *Run:
			b.WriteString(el.Text())
		case *InsertedRun:
			b.WriteString(el.Text())
		}
	}
	return b.String()
}

// UnmarshalXML implements custom XML unmarshaling to preserve element order
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Attrs = start.Attr

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
			switch t.Name.Local {
			case "pPr":
				raw, err := captureElement(d, t)
				if err != nil {
					return err
				}
				p.Properties = raw
			case "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Items = append(p.Items, &run)
			case "ins":
				var ins InsertedRun
				if err := d.DecodeElement(&ins, &t); err != nil {
					return err
				}
				p.Items = append(p.Items, &ins)
			case "del":
				var del DeletedRun
				if err := d.DecodeElement(&del, &t); err != nil {
					return err
				}
				p.Items = append(p.Items, &del)
			default:
				// Preserve hyperlinks, bookmarks, proofing marks verbatim
				raw, err := captureElement(d, t)
				if err != nil {
					return err
				}
				p.Items = append(p.Items, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return nil
			}
		}
	}

	return nil
}

func (p *Paragraph) writeTo(b *strings.Builder) {
	writeStartTag(b, xml.StartElement{Name: xml.Name{Space: nsWord, Local: "p"}, Attr: p.Attrs})
	if p.Properties != nil {
		p.Properties.writeTo(b)
	}
	for _, item := range p.Items {
		switch el := item.(type) {
		case *Run:
			el.writeTo(b)
		case *InsertedRun:
			el.writeTo(b)
		case *DeletedRun:
			el.writeTo(b)
		case *RawElement:
			el.writeTo(b)
		}
	}
	b.WriteString("</w:p>")
}
