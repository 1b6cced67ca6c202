package redline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/benjaminschreck/go-redline/pkg/redline/wordml"
)

// State tracks a revision record through the projection pipeline.
type State int

const (
	// StateExtracted is the initial state of every record
	StateExtracted State = iota
	// StateMatched means the matcher resolved a target paragraph
	StateMatched
	// StateLocated means the record's text was resolved against the target
	// paragraph
	StateLocated
	// StateSpliced is the terminal success state
	StateSpliced
	// StateFailed is the terminal failure state
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateExtracted:
		return "extracted"
	case StateMatched:
		return "matched"
	case StateLocated:
		return "located"
	case StateSpliced:
		return "spliced"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RecordResult is the terminal outcome for one revision record. Err is set
// only in StateFailed.
type RecordResult struct {
	Record *RevisionRecord
	State  State
	Err    error
}

// Summary aggregates a projection run.
type Summary struct {
	Found   int
	Applied int
	Failed  int
	Results []RecordResult
}

// Projector applies extracted revision records to a target document. It
// exclusively owns the target tree for the duration of a run; records are
// processed one at a time and a failed record never aborts the run.
type Projector struct {
	matcher Matcher
	report  Reporter
	log     zerolog.Logger
	timeout time.Duration
}

// ProjectorOption configures a Projector.
type ProjectorOption func(*Projector)

// WithReporter sets the progress sink.
func WithReporter(r Reporter) ProjectorOption {
	return func(pj *Projector) {
		pj.report = r
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) ProjectorOption {
	return func(pj *Projector) {
		pj.log = l
	}
}

// WithMatchTimeout bounds each individual matcher call.
func WithMatchTimeout(d time.Duration) ProjectorOption {
	return func(pj *Projector) {
		pj.timeout = d
	}
}

// NewProjector creates a projector over the given matcher.
func NewProjector(matcher Matcher, opts ...ProjectorOption) *Projector {
	pj := &Projector{
		matcher: matcher,
		report:  NopReporter,
		log:     zerolog.Nop(),
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(pj)
	}
	return pj
}

// ProjectFile extracts tracked changes from the source document and projects
// them onto the target document, writing the result to outputPath. The
// output archive is the target archive with only word/document.xml replaced;
// it is written atomically. A source with no tracked changes copies the
// target through byte-identical without consulting the matcher.
//
// Input format errors are fatal. Per-record matcher and span failures are
// counted in the summary and do not abort the run.
func (pj *Projector) ProjectFile(ctx context.Context, sourcePath, targetPath, outputPath string) (*Summary, error) {
	pj.report("Analyzing source document for tracked changes...")

	sourceReader, err := DocxReaderFromFile(sourcePath)
	if err != nil {
		return nil, NewDocumentError("open", sourcePath, err)
	}
	sourceXML, err := sourceReader.GetDocumentXML()
	if err != nil {
		return nil, NewDocumentError("extract", sourcePath, err)
	}
	sourceDoc, err := wordml.ParseDocument(bytes.NewReader(sourceXML))
	if err != nil {
		return nil, NewDocumentError("parse", sourcePath, err)
	}

	records := ExtractRevisions(sourceDoc)
	if len(records) == 0 {
		pj.report("Complete: no tracked changes found in the source document.")
		targetBytes, err := os.ReadFile(targetPath)
		if err != nil {
			return nil, NewDocumentError("read", targetPath, err)
		}
		if err := WriteFileAtomic(outputPath, targetBytes); err != nil {
			return nil, err
		}
		return &Summary{}, nil
	}

	insertions, deletions := 0, 0
	for _, rec := range records {
		if rec.Kind == Insertion {
			insertions++
		} else {
			deletions++
		}
	}
	pj.report(fmt.Sprintf("Found %d changes: %d insertions, %d deletions.", len(records), insertions, deletions))

	if prober, ok := pj.matcher.(AvailabilityProber); ok {
		if err := prober.Available(ctx); err != nil {
			return nil, fmt.Errorf("matcher unavailable: %w", err)
		}
	}

	targetBytes, err := os.ReadFile(targetPath)
	if err != nil {
		return nil, NewDocumentError("read", targetPath, err)
	}
	targetReader, err := DocxReaderFromBytes(targetBytes)
	if err != nil {
		return nil, NewDocumentError("open", targetPath, err)
	}
	targetXML, err := targetReader.GetDocumentXML()
	if err != nil {
		return nil, NewDocumentError("extract", targetPath, err)
	}
	targetDoc, err := wordml.ParseDocument(bytes.NewReader(targetXML))
	if err != nil {
		return nil, NewDocumentError("parse", targetPath, err)
	}

	pj.report("Matching content and applying changes...")
	summary := pj.ProjectRecords(ctx, records, targetDoc)

	pj.report("Finalizing document...")
	newXML, err := SerializeDocument(targetDoc, targetXML)
	if err != nil {
		return nil, NewDocumentError("serialize", outputPath, err)
	}
	output, err := ReplaceDocumentXML(targetBytes, newXML)
	if err != nil {
		return nil, NewDocumentError("rebuild", outputPath, err)
	}
	if err := WriteFileAtomic(outputPath, output); err != nil {
		return nil, err
	}

	pj.report(fmt.Sprintf("Complete! Applied %d changes successfully. Failed: %d changes.", summary.Applied, summary.Failed))
	return summary, nil
}

// ProjectRecords applies the records to the target tree in place and returns
// the aggregated outcome. Records are grouped by source paragraph so that
// changes sharing a paragraph are applied sequentially against its evolving
// run list; each application re-scans the paragraph's current state.
func (pj *Projector) ProjectRecords(ctx context.Context, records []*RevisionRecord, target *wordml.Document) *Summary {
	summary := &Summary{Found: len(records)}

	// Candidate paragraphs are the target's non-empty ones, indexed as the
	// matcher sees them.
	var candidates []string
	var candidateParas []*wordml.Paragraph
	for _, p := range target.Paragraphs() {
		text := p.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		candidates = append(candidates, text)
		candidateParas = append(candidateParas, p)
	}

	for _, group := range groupByParagraph(records) {
		pj.report(fmt.Sprintf("Processing paragraph %d with %d changes...", group[0].ParagraphIndex+1, len(group)))

		idx, err := pj.align(ctx, group[0], candidates)
		if err != nil {
			pj.report(fmt.Sprintf("Warning: could not match paragraph %d. Skipping %d changes.", group[0].ParagraphIndex+1, len(group)))
			pj.log.Warn().Err(err).Int("paragraph", group[0].ParagraphIndex).Msg("paragraph alignment failed")
			for _, rec := range group {
				summary.Results = append(summary.Results, RecordResult{Record: rec, State: StateFailed, Err: err})
				summary.Failed++
			}
			continue
		}

		targetPara := candidateParas[idx]
		for _, rec := range group {
			res := pj.applyRecord(ctx, rec, targetPara)
			summary.Results = append(summary.Results, res)
			if res.State == StateSpliced {
				summary.Applied++
			} else {
				summary.Failed++
				pj.report(fmt.Sprintf("Warning: could not apply %s '%s'", rec.Kind, truncateRunes(rec.Text, 30)))
				pj.log.Warn().Err(res.Err).Str("kind", rec.Kind.String()).Str("state", res.State.String()).Msg("record failed")
			}
		}
	}

	return summary
}

// applyRecord walks one record through Matched -> Located -> Spliced,
// stopping at StateFailed on the first error.
func (pj *Projector) applyRecord(ctx context.Context, rec *RevisionRecord, target *wordml.Paragraph) RecordResult {
	res := RecordResult{Record: rec, State: StateMatched}

	callCtx, cancel := pj.callContext(ctx)
	defer cancel()

	switch rec.Kind {
	case Insertion:
		text, offset, err := pj.matcher.ResolveInsertion(callCtx, rec, target.Text())
		if err != nil {
			return failResult(res, err)
		}
		res.State = StateLocated
		if err := ApplyInsertion(target, rec, text, offset); err != nil {
			return failResult(res, err)
		}

	case Deletion:
		needle, err := pj.matcher.ResolveDeletion(callCtx, rec, target.Text())
		if err != nil {
			return failResult(res, err)
		}
		res.State = StateLocated
		clamped, err := ApplyDeletion(target, rec, needle)
		if err != nil {
			return failResult(res, err)
		}
		if clamped {
			pj.log.Warn().Str("needle", truncateRunes(needle, 30)).Msg("span end clamped to final run")
		}
	}

	res.State = StateSpliced
	return res
}

func (pj *Projector) align(ctx context.Context, rec *RevisionRecord, candidates []string) (int, error) {
	callCtx, cancel := pj.callContext(ctx)
	defer cancel()
	return pj.matcher.AlignParagraph(callCtx, rec, candidates)
}

func (pj *Projector) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if pj.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, pj.timeout)
}

func failResult(res RecordResult, err error) RecordResult {
	res.State = StateFailed
	res.Err = err
	return res
}

// groupByParagraph groups records by source paragraph index, keeping both
// group order and record order within a group as extracted.
func groupByParagraph(records []*RevisionRecord) [][]*RevisionRecord {
	byPara := make(map[int]int)
	var groups [][]*RevisionRecord
	for _, rec := range records {
		if gi, ok := byPara[rec.ParagraphIndex]; ok {
			groups[gi] = append(groups[gi], rec)
			continue
		}
		byPara[rec.ParagraphIndex] = len(groups)
		groups = append(groups, []*RevisionRecord{rec})
	}
	return groups
}
