package redline

import (
	"strings"

	"github.com/benjaminschreck/go-redline/pkg/redline/wordml"
)

// ExtractRevisions walks the document tree and returns one RevisionRecord per
// insertion or deletion wrapper, in document order. Wrappers whose trimmed
// text is empty are skipped, as are paragraphs that contribute no text to
// either the pre-change or post-change reconstruction.
//
// The walk is a pure read: the tree is not modified, and extracting twice
// from the same document yields identical records apart from defaulted
// dates and ids.
func ExtractRevisions(doc *wordml.Document) []*RevisionRecord {
	var records []*RevisionRecord

	for paraIdx, p := range doc.Paragraphs() {
		original, current := reconstructContexts(p)
		if original == "" && current == "" {
			continue
		}

		for _, item := range p.Items {
			switch el := item.(type) {
			case *wordml.InsertedRun:
				text := strings.TrimSpace(el.Text())
				if text == "" {
					continue
				}
				records = append(records, &RevisionRecord{
					Kind:            Insertion,
					Text:            text,
					Author:          orDefault(el.Author, defaultAuthor),
					Date:            orDefaultFn(el.Date, defaultDate),
					ID:              orDefaultFn(el.ID, defaultID),
					ParagraphIndex:  paraIdx,
					OriginalContext: original,
					CurrentContext:  current,
				})
			case *wordml.DeletedRun:
				text := strings.TrimSpace(el.Text())
				if text == "" {
					continue
				}
				records = append(records, &RevisionRecord{
					Kind:            Deletion,
					Text:            text,
					Author:          orDefault(el.Author, defaultAuthor),
					Date:            orDefaultFn(el.Date, defaultDate),
					ID:              orDefaultFn(el.ID, defaultID),
					ParagraphIndex:  paraIdx,
					OriginalContext: original,
					CurrentContext:  current,
				})
			}
		}
	}

	return records
}

// reconstructContexts rebuilds a paragraph's plain text before and after its
// tracked changes. Deleted text existed only in the original; inserted text
// exists only in the current version; everything else is common to both.
func reconstructContexts(p *wordml.Paragraph) (original, current string) {
	var orig, cur strings.Builder
	for _, item := range p.Items {
		switch el := item.(type) {
		case *wordml.Run:
			orig.WriteString(el.Text())
			cur.WriteString(el.Text())
		case *wordml.InsertedRun:
			cur.WriteString(el.Text())
		case *wordml.DeletedRun:
			orig.WriteString(el.Text())
		}
	}
	return strings.TrimSpace(orig.String()), strings.TrimSpace(cur.String())
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func orDefaultFn(v string, fallback func() string) string {
	if v == "" {
		return fallback()
	}
	return v
}
