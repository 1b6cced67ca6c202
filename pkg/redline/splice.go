package redline

import (
	"github.com/benjaminschreck/go-redline/pkg/redline/wordml"
)

// SpliceRuns rewrites a paragraph's item list so that the located span is
// replaced by the given items. The boundary runs are split at the span
// offsets: content before the span keeps the start run's formatting, content
// after it keeps the end run's formatting, and every run covered by the span
// is removed. A boundary run living inside an insertion wrapper keeps its
// fragment inside a wrapper clone carrying the same revision attributes.
// Items between the boundaries that carry no visible text (bookmarks,
// proofing marks, existing deletion wrappers) survive the rebuild, and items
// outside the span are left untouched.
//
// The resulting concatenated text is before-text ++ replacement-text ++
// after-text; callers wanting pure deletion semantics pass replacement items
// that carry the covered text inside a revision wrapper.
func SpliceRuns(p *wordml.Paragraph, runs []RunView, span Span, replacement []wordml.ParagraphItem) {
	start := runs[span.StartRun]
	end := runs[span.EndRun]

	var segment []wordml.ParagraphItem

	prefix := start.Run.ClonePrefix(span.StartOffset)
	leadingCloned := false
	if start.Inserted {
		kept := append([]*wordml.Run{}, start.Wrapper.Runs[:start.WrapperIndex]...)
		if len(prefix.Content) > 0 {
			kept = append(kept, prefix)
		}
		if len(kept) > 0 {
			segment = append(segment, cloneWrapper(start.Wrapper, kept, true))
			leadingCloned = true
		}
	} else if len(prefix.Content) > 0 {
		segment = append(segment, prefix)
	}

	// Runs and insertion wrappers strictly between the boundaries are fully
	// covered by the span; everything else there is zero-width and kept.
	for i := start.Item + 1; i < end.Item; i++ {
		switch p.Items[i].(type) {
		case *wordml.Run, *wordml.InsertedRun:
		default:
			segment = append(segment, p.Items[i])
		}
	}

	segment = append(segment, replacement...)

	suffix := end.Run.CloneSuffix(span.EndOffset)
	if end.Inserted {
		var kept []*wordml.Run
		if len(suffix.Content) > 0 {
			kept = append(kept, suffix)
		}
		kept = append(kept, end.Wrapper.Runs[end.WrapperIndex+1:]...)
		if len(kept) > 0 {
			withExtra := !leadingCloned || start.Wrapper != end.Wrapper
			segment = append(segment, cloneWrapper(end.Wrapper, kept, withExtra))
		}
	} else if len(suffix.Content) > 0 {
		segment = append(segment, suffix)
	}

	rebuilt := make([]wordml.ParagraphItem, 0, len(p.Items)+len(segment))
	rebuilt = append(rebuilt, p.Items[:start.Item]...)
	rebuilt = append(rebuilt, segment...)
	rebuilt = append(rebuilt, p.Items[end.Item+1:]...)
	p.Items = rebuilt
}

// cloneWrapper rebuilds an insertion wrapper around a subset of its runs,
// keeping the revision attributes. When a wrapper is split in two, its
// preserved extra children are attached to only one clone.
func cloneWrapper(w *wordml.InsertedRun, kept []*wordml.Run, withExtra bool) *wordml.InsertedRun {
	clone := wordml.NewInsertedRun(w.Author, w.Date, w.ID, kept...)
	if withExtra {
		clone.Extra = w.Extra
	}
	return clone
}

// insertItem inserts an item into the paragraph's item list at the given
// position without disturbing any run.
func insertItem(p *wordml.Paragraph, pos int, item wordml.ParagraphItem) {
	rebuilt := make([]wordml.ParagraphItem, 0, len(p.Items)+1)
	rebuilt = append(rebuilt, p.Items[:pos]...)
	rebuilt = append(rebuilt, item)
	rebuilt = append(rebuilt, p.Items[pos:]...)
	p.Items = rebuilt
}

// sliceRunes returns the character range [from, to) of s; to < 0 means the
// end of the string. Offsets count characters so multi-byte text is never
// split inside a rune.
func sliceRunes(s string, from, to int) string {
	if from == 0 && to < 0 {
		return s
	}
	r := []rune(s)
	if from > len(r) {
		from = len(r)
	}
	if to < 0 || to > len(r) {
		to = len(r)
	}
	if from >= to {
		return ""
	}
	return string(r[from:to])
}
