package redline

import (
	"reflect"
	"strings"
	"testing"

	"github.com/benjaminschreck/go-redline/pkg/redline/wordml"
)

const revisionsDoc = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>The quick brown fox</w:t></w:r><w:ins w:id="1" w:author="Alice" w:date="2024-01-02T03:04:05Z"><w:r><w:t xml:space="preserve"> jumps</w:t></w:r></w:ins></w:p><w:p><w:r><w:t>Stay </w:t></w:r><w:del w:id="2" w:author="Bob" w:date="2024-02-03T04:05:06Z"><w:r><w:delText xml:space="preserve">calm and </w:delText></w:r></w:del><w:r><w:t>carry on</w:t></w:r></w:p><w:p></w:p><w:p><w:ins w:id="9" w:author="Alice" w:date="2024-01-02T03:04:05Z"><w:r><w:t>   </w:t></w:r></w:ins><w:r><w:t>untouched</w:t></w:r></w:p></w:body></w:document>`

func parseTestDoc(t *testing.T, src string) *wordml.Document {
	t.Helper()
	doc, err := wordml.ParseDocument(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	return doc
}

func TestExtractRevisions(t *testing.T) {
	doc := parseTestDoc(t, revisionsDoc)

	records := ExtractRevisions(doc)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	ins := records[0]
	if ins.Kind != Insertion {
		t.Errorf("record 0 kind = %v, want insertion", ins.Kind)
	}
	if ins.Text != "jumps" {
		t.Errorf("record 0 text = %q, want %q", ins.Text, "jumps")
	}
	if ins.Author != "Alice" || ins.ID != "1" || ins.Date != "2024-01-02T03:04:05Z" {
		t.Errorf("record 0 attrs = %q/%q/%q", ins.Author, ins.ID, ins.Date)
	}
	if ins.ParagraphIndex != 0 {
		t.Errorf("record 0 paragraph index = %d, want 0", ins.ParagraphIndex)
	}
	if ins.OriginalContext != "The quick brown fox" {
		t.Errorf("record 0 original context = %q", ins.OriginalContext)
	}
	if ins.CurrentContext != "The quick brown fox jumps" {
		t.Errorf("record 0 current context = %q", ins.CurrentContext)
	}

	del := records[1]
	if del.Kind != Deletion {
		t.Errorf("record 1 kind = %v, want deletion", del.Kind)
	}
	if del.Text != "calm and" {
		t.Errorf("record 1 text = %q, want %q", del.Text, "calm and")
	}
	if del.Author != "Bob" || del.ID != "2" {
		t.Errorf("record 1 attrs = %q/%q", del.Author, del.ID)
	}
	if del.ParagraphIndex != 1 {
		t.Errorf("record 1 paragraph index = %d, want 1", del.ParagraphIndex)
	}
	if del.OriginalContext != "Stay calm and carry on" {
		t.Errorf("record 1 original context = %q", del.OriginalContext)
	}
	if del.CurrentContext != "Stay carry on" {
		t.Errorf("record 1 current context = %q", del.CurrentContext)
	}
}

func TestExtractRevisions_SkipsWhitespaceOnlyWrappers(t *testing.T) {
	doc := parseTestDoc(t, revisionsDoc)

	for _, rec := range ExtractRevisions(doc) {
		if strings.TrimSpace(rec.Text) == "" {
			t.Errorf("whitespace-only wrapper produced record %+v", rec)
		}
	}
}

func TestExtractRevisions_Idempotent(t *testing.T) {
	doc := parseTestDoc(t, revisionsDoc)

	first := ExtractRevisions(doc)
	second := ExtractRevisions(doc)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-extraction differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExtractRevisions_DefaultsMissingMetadata(t *testing.T) {
	src := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:ins><w:r><w:t>added</w:t></w:r></w:ins></w:p></w:body></w:document>`
	doc := parseTestDoc(t, src)

	records := ExtractRevisions(doc)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Author != "Unknown" {
		t.Errorf("author = %q, want %q", rec.Author, "Unknown")
	}
	if rec.Date == "" {
		t.Error("expected a defaulted date")
	}
	if rec.ID == "" {
		t.Error("expected a defaulted id")
	}
}

func TestExtractRevisions_NoRevisions(t *testing.T) {
	src := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>plain text</w:t></w:r></w:p></w:body></w:document>`
	doc := parseTestDoc(t, src)

	if records := ExtractRevisions(doc); len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
