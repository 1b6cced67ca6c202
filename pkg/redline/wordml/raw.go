package wordml

import (
	"encoding/xml"
	"io"
	"strings"
)

// namespaceToPrefix converts a namespace URI to its conventional prefix
func namespaceToPrefix(uri string) string {
	prefixMap := map[string]string{
		// Core Word namespaces
		"http://schemas.openxmlformats.org/wordprocessingml/2006/main":        "w",
		"http://schemas.openxmlformats.org/officeDocument/2006/relationships": "r",
		"http://schemas.openxmlformats.org/officeDocument/2006/math":          "m",
		"http://www.w3.org/XML/1998/namespace":                                "xml",
		// Drawing namespaces
		"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
		"http://schemas.openxmlformats.org/drawingml/2006/main":                  "a",
		"http://schemas.openxmlformats.org/drawingml/2006/picture":               "pic",
		// VML namespaces
		"urn:schemas-microsoft-com:vml":           "v",
		"urn:schemas-microsoft-com:office:office": "o",
		"urn:schemas-microsoft-com:office:word":   "w10",
		// Markup compatibility namespace
		"http://schemas.openxmlformats.org/markup-compatibility/2006": "mc",
		// Extended Word namespaces
		"http://schemas.microsoft.com/office/word/2010/wordml": "w14",
		"http://schemas.microsoft.com/office/word/2012/wordml": "w15",
		"http://schemas.microsoft.com/office/word/2006/wordml": "wne",
	}

	if prefix, ok := prefixMap[uri]; ok {
		return prefix
	}
	// For unknown namespaces, return the URI as-is (shouldn't happen in practice)
	return uri
}

// RawElement holds an XML element the package does not model, preserved
// verbatim so it survives a parse/serialize round trip.
type RawElement struct {
	Name   xml.Name
	Markup string
}

func (r *RawElement) isBodyItem()      {}
func (r *RawElement) isParagraphItem() {}
func (r *RawElement) isRunContent()    {}

func (r *RawElement) writeTo(b *strings.Builder) {
	b.WriteString(r.Markup)
}

// captureElement consumes the element opened by start, including all nested
// content, and returns it as prefixed markup.
func captureElement(d *xml.Decoder, start xml.StartElement) (*RawElement, error) {
	var buf strings.Builder
	writeStartTag(&buf, start)

	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		switch tt := tok.(type) {
		case xml.StartElement:
			depth++
			writeStartTag(&buf, tt)
		case xml.EndElement:
			depth--
			buf.WriteString("</")
			buf.WriteString(prefixedName(tt.Name))
			buf.WriteString(">")
		case xml.CharData:
			buf.WriteString(escapeText(string(tt)))
		}
	}

	return &RawElement{Name: start.Name, Markup: buf.String()}, nil
}

func writeStartTag(b *strings.Builder, t xml.StartElement) {
	b.WriteString("<")
	b.WriteString(prefixedName(t.Name))
	for _, attr := range t.Attr {
		// The decoder reports namespace declarations as attributes in the
		// "xmlns" pseudo-namespace; re-emit them as declarations.
		b.WriteString(" ")
		switch {
		case attr.Name.Space == "xmlns":
			b.WriteString("xmlns:")
			b.WriteString(attr.Name.Local)
		case attr.Name.Local == "xmlns" && attr.Name.Space == "":
			b.WriteString("xmlns")
		default:
			b.WriteString(prefixedName(attr.Name))
		}
		b.WriteString("=\"")
		b.WriteString(escapeAttr(attr.Value))
		b.WriteString("\"")
	}
	b.WriteString(">")
}

func prefixedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return namespaceToPrefix(name.Space) + ":" + name.Local
}

func escapeText(s string) string {
	s = strings.Replace(s, "&", "&amp;", -1)
	s = strings.Replace(s, "<", "&lt;", -1)
	s = strings.Replace(s, ">", "&gt;", -1)
	return s
}

func escapeAttr(s string) string {
	s = strings.Replace(s, "&", "&amp;", -1)
	s = strings.Replace(s, "<", "&lt;", -1)
	s = strings.Replace(s, "\"", "&quot;", -1)
	return s
}
