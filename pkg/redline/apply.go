package redline

import (
	"strings"

	"github.com/benjaminschreck/go-redline/pkg/redline/wordml"
)

// ApplyInsertion splices a new run carrying text into the paragraph, wrapped
// in an insertion marker that carries the source record's author, date, and
// id. The offset counts characters of the paragraph's current text, the same
// text the matcher resolved it against. Offsets outside that text are clamped
// to its ends. An offset landing on a run boundary inserts the marked run
// between runs without splitting anything; an offset inside an existing
// insertion wrapper splits the wrapper around the new marker.
//
// A paragraph with no runs receives the marked run as its sole content.
func ApplyInsertion(p *wordml.Paragraph, rec *RevisionRecord, text string, offset int) error {
	if text == "" {
		return NewSpanError("empty insertion text", "")
	}

	ins := wordml.NewInsertedRun(rec.Author, rec.Date, rec.ID, insertionRun(text))

	runs := CollectRuns(p)
	if len(runs) == 0 {
		p.Items = append(p.Items, ins)
		return nil
	}

	total := totalLen(runs)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}

	for i, v := range runs {
		if offset == v.Start {
			if !v.Inserted || v.WrapperIndex == 0 {
				insertItem(p, v.Item, ins)
				return nil
			}
			// Between two runs of the same wrapper: split the wrapper.
			span := Span{StartRun: i, StartOffset: 0, EndRun: i, EndOffset: 0}
			SpliceRuns(p, runs, span, []wordml.ParagraphItem{ins})
			return nil
		}
		if offset > v.Start && offset < v.Start+v.Len() {
			at := offset - v.Start
			span := Span{StartRun: i, StartOffset: at, EndRun: i, EndOffset: at}
			SpliceRuns(p, runs, span, []wordml.ParagraphItem{ins})
			return nil
		}
	}

	// Past the final run's text: place after the last run, ahead of trailing
	// zero-width items such as bookmark ends.
	insertItem(p, runs[len(runs)-1].Item+1, ins)
	return nil
}

// insertionRun builds the run placed inside an insertion wrapper. Inserted
// text always preserves whitespace.
func insertionRun(text string) *wordml.Run {
	return &wordml.Run{Content: []wordml.RunContent{&wordml.Text{Space: "preserve", Value: text}}}
}

// ApplyDeletion wraps the first occurrence of target in the paragraph's
// current text in a deletion marker carrying the source record's author,
// date, and id. Each run the span covers contributes its own w:delText run to
// the wrapper, keeping that run's formatting; text before and after the match
// keeps its own run's formatting.
//
// The returned flag reports that the span end was clamped to the final run;
// callers must log it. An empty or absent target is a soft failure and the
// paragraph is left unchanged.
func ApplyDeletion(p *wordml.Paragraph, rec *RevisionRecord, target string) (clamped bool, err error) {
	if strings.TrimSpace(target) == "" {
		return false, NewSpanError("empty deletion target", "")
	}

	runs := CollectRuns(p)
	span, ok := LocateSpan(runs, target)
	if !ok {
		return false, NewSpanError("deletion target not found in paragraph text", target)
	}

	// One w:delText run per covered run, each carrying the portion of the
	// span that fell inside it. The portions concatenate to the covered text,
	// which differs from target only when the span end was clamped.
	var delRuns []*wordml.Run
	for i := span.StartRun; i <= span.EndRun; i++ {
		v := runs[i]
		from := 0
		if i == span.StartRun {
			from = span.StartOffset
		}
		to := v.Len()
		if i == span.EndRun {
			to = span.EndOffset
		}
		portion := sliceRunes(v.Text, from, to)
		if portion == "" {
			continue
		}
		delRuns = append(delRuns, wordml.NewDeletedTextRun(portion, v.Run.Properties.Clone()))
	}

	del := wordml.NewDeletedRun(rec.Author, rec.Date, rec.ID, delRuns...)
	SpliceRuns(p, runs, span, []wordml.ParagraphItem{del})
	return span.Clamped, nil
}
