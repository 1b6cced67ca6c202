package wordml

import (
	"encoding/xml"
	"io"
	"strings"
	"unicode/utf8"
)

// RunContent is any element that can appear inside a run.
type RunContent interface {
	isRunContent()
}

// RunProperties holds a run's formatting as the verbatim w:rPr markup.
// The markup is treated as an opaque payload: it is copied whenever a run is
// split or duplicated, so formatting the splicer never touched survives
// byte-for-byte.
type RunProperties struct {
	Markup string
}

// Clone returns a copy of the properties, safe to attach to a new run.
func (rp *RunProperties) Clone() *RunProperties {
	if rp == nil {
		return nil
	}
	c := *rp
	return &c
}

// Text represents text content (w:t)
type Text struct {
	Space string
	Value string
}

func (t *Text) isRunContent() {}

// DeletedText represents deleted text content (w:delText) inside a deletion wrapper
type DeletedText struct {
	Space string
	Value string
}

func (dt *DeletedText) isRunContent() {}

// Break represents a line break
type Break struct {
	Type string
}

func (b *Break) isRunContent() {}

// Tab represents a tab character element
type Tab struct{}

func (t *Tab) isRunContent() {}

// Run represents a run of text with common properties
type Run struct {
	Properties *RunProperties
	// Content maintains the order of text, breaks, and preserved elements
	Content []RunContent
}

func (r *Run) isParagraphItem() {}

// NewTextRun builds a run carrying the given formatting and a single text
// node. Leading or trailing whitespace forces xml:space="preserve" so
// consuming renderers do not collapse it.
func NewTextRun(text string, props *RunProperties) *Run {
	t := &Text{Value: text}
	if strings.TrimSpace(text) != text {
		t.Space = "preserve"
	}
	return &Run{Properties: props, Content: []RunContent{t}}
}

// NewDeletedTextRun builds a run holding deleted text, as placed inside a
// w:del wrapper. Deleted text always preserves whitespace.
func NewDeletedTextRun(text string, props *RunProperties) *Run {
	return &Run{Properties: props, Content: []RunContent{&DeletedText{Space: "preserve", Value: text}}}
}

// ClonePrefix returns a run carrying the same formatting and the content
// before character offset n. Text nodes straddling the offset are cut;
// zero-width content (breaks, tabs, preserved elements) is kept when it sits
// before the offset.
func (r *Run) ClonePrefix(n int) *Run {
	out := &Run{Properties: r.Properties.Clone()}
	pos := 0
	for _, c := range r.Content {
		t, ok := c.(*Text)
		if !ok {
			if pos < n {
				out.Content = append(out.Content, cloneContent(c))
			}
			continue
		}
		l := utf8.RuneCountInString(t.Value)
		if pos < n {
			keep := t.Value
			if pos+l > n {
				keep = string([]rune(t.Value)[:n-pos])
			}
			if keep != "" {
				out.Content = append(out.Content, textNode(keep, t.Space))
			}
		}
		pos += l
	}
	return out
}

// CloneSuffix returns a run carrying the same formatting and the content from
// character offset n on. Zero-width content at or past the offset is kept.
func (r *Run) CloneSuffix(n int) *Run {
	out := &Run{Properties: r.Properties.Clone()}
	pos := 0
	for _, c := range r.Content {
		t, ok := c.(*Text)
		if !ok {
			if pos >= n {
				out.Content = append(out.Content, cloneContent(c))
			}
			continue
		}
		l := utf8.RuneCountInString(t.Value)
		if pos+l > n {
			keep := t.Value
			if pos < n {
				keep = string([]rune(t.Value)[n-pos:])
			}
			if keep != "" {
				out.Content = append(out.Content, textNode(keep, t.Space))
			}
		}
		pos += l
	}
	return out
}

func cloneContent(c RunContent) RunContent {
	switch el := c.(type) {
	case *Text:
		cp := *el
		return &cp
	case *DeletedText:
		cp := *el
		return &cp
	case *Break:
		cp := *el
		return &cp
	case *Tab:
		return &Tab{}
	case *RawElement:
		cp := *el
		return &cp
	}
	return c
}

func textNode(value, space string) *Text {
	if space == "" && strings.TrimSpace(value) != value {
		space = "preserve"
	}
	return &Text{Space: space, Value: value}
}

// Text returns the visible text content of the run.
func (r *Run) Text() string {
	var b strings.Builder
	for _, c := range r.Content {
		if t, ok := c.(*Text); ok {
			b.WriteString(t.Value)
		}
	}
	return b.String()
}

// DeletedText returns the deleted text carried by the run, if any.
func (r *Run) DeletedText() string {
	var b strings.Builder
	for _, c := range r.Content {
		if t, ok := c.(*DeletedText); ok {
			b.WriteString(t.Value)
		}
	}
	return b.String()
}

// UnmarshalXML implements custom XML unmarshaling to preserve element order
// and unknown elements
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "rPr":
				raw, err := captureElement(d, t)
				if err != nil {
					return err
				}
				r.Properties = &RunProperties{Markup: raw.Markup}
			case "t":
				space, value, err := decodeTextElement(d, t)
				if err != nil {
					return err
				}
				r.Content = append(r.Content, &Text{Space: space, Value: value})
			case "delText":
				space, value, err := decodeTextElement(d, t)
				if err != nil {
					return err
				}
				r.Content = append(r.Content, &DeletedText{Space: space, Value: value})
			case "br":
				var br Break
				for _, attr := range t.Attr {
					if attr.Name.Local == "type" {
						br.Type = attr.Value
					}
				}
				if err := d.Skip(); err != nil {
					return err
				}
				r.Content = append(r.Content, &br)
			case "tab":
				if err := d.Skip(); err != nil {
					return err
				}
				r.Content = append(r.Content, &Tab{})
			default:
				// Preserve unknown elements (drawings, field chars) verbatim
				raw, err := captureElement(d, t)
				if err != nil {
					return err
				}
				r.Content = append(r.Content, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				return nil
			}
		}
	}

	return nil
}

// decodeTextElement reads a w:t or w:delText element: its xml:space attribute
// and its character data.
func decodeTextElement(d *xml.Decoder, start xml.StartElement) (space, value string, err error) {
	for _, attr := range start.Attr {
		if attr.Name.Local == "space" {
			space = attr.Value
		}
	}

	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return "", "", err
		}
		switch tt := tok.(type) {
		case xml.CharData:
			b.Write(tt)
		case xml.StartElement:
			if err := d.Skip(); err != nil {
				return "", "", err
			}
		case xml.EndElement:
			return space, b.String(), nil
		}
	}
}

func (r *Run) writeTo(b *strings.Builder) {
	b.WriteString("<w:r>")
	if r.Properties != nil && r.Properties.Markup != "" {
		b.WriteString(r.Properties.Markup)
	}
	for _, c := range r.Content {
		switch el := c.(type) {
		case *Text:
			writeTextElement(b, "w:t", el.Space, el.Value)
		case *DeletedText:
			writeTextElement(b, "w:delText", el.Space, el.Value)
		case *Break:
			if el.Type != "" {
				b.WriteString(`<w:br w:type="` + escapeAttr(el.Type) + `"/>`)
			} else {
				b.WriteString("<w:br/>")
			}
		case *Tab:
			b.WriteString("<w:tab/>")
		case *RawElement:
			el.writeTo(b)
		}
	}
	b.WriteString("</w:r>")
}

func writeTextElement(b *strings.Builder, tag, space, value string) {
	b.WriteString("<")
	b.WriteString(tag)
	if space != "" {
		b.WriteString(` xml:space="` + escapeAttr(space) + `"`)
	}
	b.WriteString(">")
	b.WriteString(escapeText(value))
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
}
