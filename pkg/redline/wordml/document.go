package wordml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// nsWord is the main WordprocessingML namespace.
const nsWord = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// BodyItem is any element that can appear in a document body.
type BodyItem interface {
	isBodyItem()
}

// Body represents the document body
type Body struct {
	// Items maintains the order of all body elements. Paragraphs are
	// modeled; everything else (tables, section properties) is preserved
	// verbatim.
	Items []BodyItem
}

// Document represents a Word document structure
type Document struct {
	Body *Body
}

// UnmarshalXML implements custom XML unmarshaling for the document root
func (doc *Document) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			if t.Name.Local == "body" {
				var body Body
				if err := d.DecodeElement(&body, &t); err != nil {
					return err
				}
				doc.Body = &body
				continue
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == "document" {
				return nil
			}
		}
	}

	return nil
}

// UnmarshalXML implements custom XML unmarshaling to preserve element order
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			if t.Name.Local == "p" {
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				b.Items = append(b.Items, &para)
				continue
			}
			// Preserve tables, sectPr, and anything else verbatim
			raw, err := captureElement(d, t)
			if err != nil {
				return err
			}
			b.Items = append(b.Items, raw)
		case xml.EndElement:
			if t.Name.Local == "body" {
				return nil
			}
		}
	}

	return nil
}

// ParseDocument parses a Word document XML payload.
func ParseDocument(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Body == nil {
		return nil, fmt.Errorf("failed to parse document: no body element")
	}

	return &doc, nil
}

// Paragraphs returns the document's top-level paragraphs in document order.
func (doc *Document) Paragraphs() []*Paragraph {
	if doc.Body == nil {
		return nil
	}
	var paras []*Paragraph
	for _, item := range doc.Body.Items {
		if p, ok := item.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// BodyXML serializes the document body, including its opening and closing
// tags. The caller is responsible for wrapping it in the original document
// root element so the namespace declarations are preserved.
func (doc *Document) BodyXML() string {
	var b strings.Builder
	b.WriteString("<w:body>")
	if doc.Body != nil {
		for _, item := range doc.Body.Items {
			switch el := item.(type) {
			case *Paragraph:
				el.writeTo(&b)
			case *RawElement:
				el.writeTo(&b)
			}
		}
	}
	b.WriteString("</w:body>")
	return b.String()
}
