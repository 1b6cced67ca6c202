// Package wordml models the WordprocessingML fragment of a DOCX document that
// revision projection operates on: the body, its paragraphs, their runs, and
// the w:ins / w:del revision wrappers.
//
// Parsing walks the XML token stream and keeps element order. Elements the
// package does not model (tables, bookmarks, drawings, section properties)
// are captured verbatim as RawElement values and written back unchanged, so a
// parse/serialize round trip never loses document structure it did not touch.
//
// Serialization writes w:-prefixed markup directly; the document's original
// root element (with its namespace declarations) is spliced back in by the
// caller, which keeps the output byte-compatible with consumers that are
// strict about the namespace set.
package wordml
