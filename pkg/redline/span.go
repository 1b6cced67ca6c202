package redline

import (
	"strings"
	"unicode/utf8"

	"github.com/benjaminschreck/go-redline/pkg/redline/wordml"
)

// RunView is one entry in a paragraph's flattened run sequence: the run's
// text together with its position in the paragraph.
type RunView struct {
	// Item is the index in the paragraph's item list of the run, or of the
	// insertion wrapper holding it
	Item int
	// Run is the underlying run
	Run *wordml.Run
	// Text is the run's visible text
	Text string
	// Start is the run's cumulative start offset in characters
	Start int
	// Inserted marks a run living inside an insertion wrapper
	Inserted bool
	// Wrapper is the insertion wrapper holding the run, when Inserted
	Wrapper *wordml.InsertedRun
	// WrapperIndex is the run's position in the wrapper's run list
	WrapperIndex int
}

// Len returns the run's text length in characters.
func (v RunView) Len() int {
	return utf8.RuneCountInString(v.Text)
}

// CollectRuns builds the flattened run sequence for a paragraph with
// cumulative character offsets: its top-level runs plus the runs inside
// insertion wrappers, whose text is part of the current text too.
// Concatenating the sequence's texts reproduces the paragraph's current text
// exactly, so offsets resolved against that text map directly onto the
// sequence. Deletion wrappers and preserved raw elements contribute nothing
// and are not part of the sequence.
func CollectRuns(p *wordml.Paragraph) []RunView {
	var views []RunView
	offset := 0
	add := func(v RunView) {
		v.Text = v.Run.Text()
		v.Start = offset
		views = append(views, v)
		offset += utf8.RuneCountInString(v.Text)
	}
	for i, item := range p.Items {
		switch el := item.(type) {
		case *wordml.Run:
			add(RunView{Item: i, Run: el})
		case *wordml.InsertedRun:
			for j, r := range el.Runs {
				add(RunView{Item: i, Run: r, Inserted: true, Wrapper: el, WrapperIndex: j})
			}
		}
	}
	return views
}

// RunText returns the concatenated text of the run sequence. By construction
// this equals the paragraph's current text with no separators.
func RunText(runs []RunView) string {
	var b strings.Builder
	for _, v := range runs {
		b.WriteString(v.Text)
	}
	return b.String()
}

// Span is a contiguous character range inside a paragraph's concatenated run
// text, expressed as run indices plus intra-run character offsets. Offsets
// count characters, not bytes, so multi-byte text splits cleanly.
type Span struct {
	StartRun    int
	StartOffset int
	EndRun      int
	EndOffset   int
	// Clamped reports that the end of the range did not land on a run
	// boundary and was clamped to the final run's end. Callers must log it.
	Clamped bool
}

// LocateSpan finds the first occurrence of needle in the run sequence's
// concatenated text and converts its character range into a Span. The match
// is exact and case-sensitive. Returns false when needle is empty, the
// sequence is empty, or the needle does not occur.
func LocateSpan(runs []RunView, needle string) (Span, bool) {
	if needle == "" || len(runs) == 0 {
		return Span{}, false
	}

	full := RunText(runs)
	byteIdx := strings.Index(full, needle)
	if byteIdx < 0 {
		return Span{}, false
	}

	start := utf8.RuneCountInString(full[:byteIdx])
	end := start + utf8.RuneCountInString(needle)

	return spanFromCharRange(runs, start, end)
}

// spanFromCharRange converts a [start, end) character range into run indices
// and intra-run offsets by walking cumulative run lengths.
func spanFromCharRange(runs []RunView, start, end int) (Span, bool) {
	span := Span{StartRun: -1, EndRun: -1}

	for i, v := range runs {
		runStart := v.Start
		runEnd := v.Start + v.Len()

		if span.StartRun < 0 && start >= runStart && start < runEnd {
			span.StartRun = i
			span.StartOffset = start - runStart
		}
		// A range ending exactly at a run's end belongs to that run, so the
		// final run of a paragraph can carry end == its length.
		if span.EndRun < 0 && end > runStart && end <= runEnd {
			span.EndRun = i
			span.EndOffset = end - runStart
		}
	}

	// A zero-width range at the very end of the text starts past every run.
	if span.StartRun < 0 && start == totalLen(runs) {
		last := len(runs) - 1
		span.StartRun = last
		span.StartOffset = runs[last].Len()
	}
	if span.StartRun < 0 {
		return Span{}, false
	}

	// Defensive: no run boundary satisfied the end condition. Clamp to the
	// last run rather than fail, and flag it so the caller logs the repair.
	if span.EndRun < 0 {
		last := len(runs) - 1
		span.EndRun = last
		span.EndOffset = runs[last].Len()
		span.Clamped = true
	}

	return span, true
}

func totalLen(runs []RunView) int {
	if len(runs) == 0 {
		return 0
	}
	last := runs[len(runs)-1]
	return last.Start + last.Len()
}
