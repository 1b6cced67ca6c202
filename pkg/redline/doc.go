// Package redline projects tracked changes recorded in one DOCX document
// onto a structurally different, unannotated DOCX document.
//
// The engine extracts insertion and deletion records from the source
// document's revision markers, asks a pluggable semantic Matcher which target
// paragraph each record belongs to and how its text maps there, locates the
// exact character span inside the target paragraph's run sequence, and
// splices in new runs wrapped in revision markers while preserving the
// surrounding run formatting.
//
// Basic usage:
//
//	cfg, err := redline.LoadConfig("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	matcher, err := redline.NewOllamaMatcher(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pj := redline.NewProjector(matcher,
//	    redline.WithLogger(logger),
//	    redline.WithMatchTimeout(cfg.MatchTimeout),
//	)
//
//	summary, err := pj.ProjectFile(ctx, "edited_en.docx", "baseline_zh.docx", "out.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("applied %d, failed %d\n", summary.Applied, summary.Failed)
//
// Fatal errors (unreadable archives, unparsable XML) abort the run; matcher
// misses and unresolvable spans are soft failures counted in the Summary.
// The output archive is the target archive with only word/document.xml
// replaced, written atomically.
package redline
