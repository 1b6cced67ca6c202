package redline

import (
	"time"

	"github.com/google/uuid"
)

// RevisionKind identifies the kind of tracked change a record describes.
type RevisionKind int

const (
	// Insertion marks text added relative to the baseline version
	Insertion RevisionKind = iota
	// Deletion marks text removed relative to the baseline version
	Deletion
)

func (k RevisionKind) String() string {
	switch k {
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// RevisionRecord is one tracked change extracted from a source document.
// Records are created once during extraction and never modified.
type RevisionRecord struct {
	Kind RevisionKind
	// Text is the inserted or deleted literal string, trimmed. Never empty;
	// wrappers with empty trimmed text are discarded during extraction.
	Text   string
	Author string
	Date   string
	ID     string
	// ParagraphIndex is the 0-based position of the owning paragraph in the
	// source document
	ParagraphIndex int
	// OriginalContext is the owning paragraph's reconstructed text before the
	// tracked changes were applied
	OriginalContext string
	// CurrentContext is the owning paragraph's reconstructed text with the
	// tracked changes applied
	CurrentContext string
}

const defaultAuthor = "Unknown"

// defaultDate supplies the revision date when the source wrapper carries none.
var defaultDate = func() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// defaultID supplies a revision id when the source wrapper carries none.
var defaultID = func() string {
	return uuid.NewString()[:8]
}
