package wordml

import (
	"strings"
	"testing"
)

func TestNewTextRun_SpacePreservation(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"plain", ""},
		{" leading", "preserve"},
		{"trailing ", "preserve"},
		{"  ", "preserve"},
		{"inner space kept", ""},
	}

	for _, tt := range tests {
		r := NewTextRun(tt.text, nil)
		text, ok := r.Content[0].(*Text)
		if !ok {
			t.Fatalf("content is %T, want text", r.Content[0])
		}
		if text.Space != tt.want {
			t.Errorf("NewTextRun(%q) space = %q, want %q", tt.text, text.Space, tt.want)
		}
	}
}

func TestNewDeletedTextRun(t *testing.T) {
	props := &RunProperties{Markup: `<w:rPr><w:b></w:b></w:rPr>`}
	r := NewDeletedTextRun("gone", props)

	if r.Text() != "" {
		t.Errorf("visible text = %q, want empty", r.Text())
	}
	if r.DeletedText() != "gone" {
		t.Errorf("deleted text = %q, want %q", r.DeletedText(), "gone")
	}

	dt, ok := r.Content[0].(*DeletedText)
	if !ok {
		t.Fatalf("content is %T, want deleted text", r.Content[0])
	}
	if dt.Space != "preserve" {
		t.Errorf("space = %q, want preserve", dt.Space)
	}
}

func TestRunClonePrefixSuffix(t *testing.T) {
	props := &RunProperties{Markup: `<w:rPr><w:i></w:i></w:rPr>`}
	r := NewTextRun("你好世界", props)

	prefix := r.ClonePrefix(2)
	if prefix.Text() != "你好" {
		t.Errorf("prefix text = %q", prefix.Text())
	}
	suffix := r.CloneSuffix(2)
	if suffix.Text() != "世界" {
		t.Errorf("suffix text = %q", suffix.Text())
	}
	if prefix.Properties == nil || prefix.Properties.Markup != props.Markup {
		t.Error("prefix lost formatting")
	}
	if prefix.Properties == r.Properties {
		t.Error("prefix shares properties with the original")
	}

	if empty := r.ClonePrefix(0); len(empty.Content) != 0 {
		t.Errorf("empty prefix has content: %+v", empty.Content)
	}
	if empty := r.CloneSuffix(4); len(empty.Content) != 0 {
		t.Errorf("empty suffix has content: %+v", empty.Content)
	}

	// A run without properties clones cleanly too.
	if bare := NewTextRun("xy", nil).ClonePrefix(1); bare.Properties != nil {
		t.Errorf("bare clone grew properties: %+v", bare.Properties)
	}
}

func TestRunClonePrefixSuffix_KeepsNonTextContent(t *testing.T) {
	r := &Run{Content: []RunContent{
		&Text{Value: "AB"},
		&Break{Type: "page"},
		&Text{Value: "CD"},
		&Tab{},
	}}

	// Split inside the first text node: the break between B and C sits past
	// the offset and belongs to the suffix.
	if prefix := r.ClonePrefix(1); prefix.Text() != "A" || len(prefix.Content) != 1 {
		t.Errorf("prefix = %q with %d nodes", prefix.Text(), len(prefix.Content))
	}

	// Split inside the second text node: the break stays in the prefix, the
	// trailing tab goes to the suffix.
	prefix := r.ClonePrefix(3)
	if prefix.Text() != "ABC" {
		t.Errorf("prefix text = %q", prefix.Text())
	}
	if len(prefix.Content) != 3 {
		t.Fatalf("prefix holds %d nodes, want text, break, text", len(prefix.Content))
	}
	if br, ok := prefix.Content[1].(*Break); !ok || br.Type != "page" {
		t.Errorf("prefix node 1 = %#v, want the page break", prefix.Content[1])
	}
	if prefix.Content[1] == r.Content[1] {
		t.Error("prefix shares content nodes with the original run")
	}

	suffix := r.CloneSuffix(3)
	if suffix.Text() != "D" {
		t.Errorf("suffix text = %q", suffix.Text())
	}
	if len(suffix.Content) != 2 {
		t.Fatalf("suffix holds %d nodes, want text, tab", len(suffix.Content))
	}
	if _, ok := suffix.Content[1].(*Tab); !ok {
		t.Errorf("suffix node 1 = %#v, want the tab", suffix.Content[1])
	}

	// Splitting preserves leading or trailing whitespace created by the cut.
	padded := NewTextRun("a b", nil)
	cut := padded.CloneSuffix(1)
	if text, ok := cut.Content[0].(*Text); !ok || text.Space != "preserve" {
		t.Errorf("cut fragment = %#v, want xml:space preserve", cut.Content[0])
	}
}

func TestRunSerialization_PreservesContentOrder(t *testing.T) {
	r := &Run{
		Properties: &RunProperties{Markup: `<w:rPr><w:b></w:b></w:rPr>`},
		Content: []RunContent{
			&Text{Value: "before"},
			&Break{},
			&Tab{},
			&Text{Space: "preserve", Value: " after"},
		},
	}

	var b strings.Builder
	r.writeTo(&b)
	got := b.String()

	want := `<w:r><w:rPr><w:b></w:b></w:rPr><w:t>before</w:t><w:br/><w:tab/><w:t xml:space="preserve"> after</w:t></w:r>`
	if got != want {
		t.Errorf("serialized run:\n got %s\nwant %s", got, want)
	}
}

func TestRevisionWrapperSerialization(t *testing.T) {
	ins := NewInsertedRun("Alice", "2024-01-02T03:04:05Z", "7", NewTextRun("added", nil))
	var b strings.Builder
	ins.writeTo(&b)

	want := `<w:ins w:id="7" w:author="Alice" w:date="2024-01-02T03:04:05Z"><w:r><w:t>added</w:t></w:r></w:ins>`
	if b.String() != want {
		t.Errorf("serialized wrapper:\n got %s\nwant %s", b.String(), want)
	}

	del := NewDeletedRun("Bob", "", "8", NewDeletedTextRun("gone", nil))
	b.Reset()
	del.writeTo(&b)

	want = `<w:del w:id="8" w:author="Bob"><w:r><w:delText xml:space="preserve">gone</w:delText></w:r></w:del>`
	if b.String() != want {
		t.Errorf("serialized wrapper:\n got %s\nwant %s", b.String(), want)
	}
}

func TestEscaping(t *testing.T) {
	if got := escapeText(`a < b > c & "d"`); got != `a &lt; b &gt; c &amp; "d"` {
		t.Errorf("escapeText = %q", got)
	}
	if got := escapeAttr(`x "y" & <z>`); got != `x &quot;y&quot; &amp; &lt;z>` {
		t.Errorf("escapeAttr = %q", got)
	}
}
