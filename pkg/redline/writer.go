package redline

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benjaminschreck/go-redline/pkg/redline/wordml"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// SerializeDocument renders the mutated tree back into a document.xml
// payload. The opening root tag is taken verbatim from the original payload
// so every namespace declaration survives untouched; only the body is
// regenerated.
func SerializeDocument(doc *wordml.Document, originalXML []byte) ([]byte, error) {
	contentStr := string(originalXML)

	// Skip the XML declaration if present
	searchStart := 0
	if xmlDeclEnd := strings.Index(contentStr, "?>"); xmlDeclEnd != -1 && strings.HasPrefix(strings.TrimSpace(contentStr), "<?xml") {
		searchStart = xmlDeclEnd + 2
	}

	// Find the opening root tag (starts after XML declaration)
	rootTagStart := strings.Index(contentStr[searchStart:], "<")
	if rootTagStart == -1 {
		return nil, fmt.Errorf("malformed XML: no root tag found")
	}
	rootTagStart += searchStart

	// Find the end of the opening tag
	openTagEnd := strings.Index(contentStr[rootTagStart:], ">")
	if openTagEnd == -1 {
		return nil, fmt.Errorf("malformed XML: no opening tag end found")
	}
	openTagEnd += rootTagStart

	// Extract the root element name for the closing tag
	name := contentStr[rootTagStart+1 : openTagEnd]
	if idx := strings.IndexAny(name, " \t\r\n/"); idx != -1 {
		name = name[:idx]
	}
	if name == "" {
		return nil, fmt.Errorf("malformed XML: empty root tag name")
	}

	result := []byte(xmlDeclaration)
	result = append(result, contentStr[rootTagStart:openTagEnd+1]...)
	result = append(result, doc.BodyXML()...)
	result = append(result, "</"+name+">"...)

	return result, nil
}

// ReplaceDocumentXML rebuilds the archive, copying every entry of the source
// container verbatim and substituting only the primary XML payload.
func ReplaceDocumentXML(source []byte, documentXML []byte) ([]byte, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(source), int64(len(source)))
	if err != nil {
		return nil, fmt.Errorf("failed to read source zip: %w", err)
	}

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	for _, file := range zipReader.File {
		fw, err := w.Create(file.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", file.Name, err)
		}

		if file.Name == documentPath {
			if _, err := fw.Write(documentXML); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", file.Name, err)
			}
			continue
		}

		fr, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
		}
		if _, err := io.Copy(fw, fr); err != nil {
			fr.Close()
			return nil, fmt.Errorf("failed to copy %s: %w", file.Name, err)
		}
		fr.Close()
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFileAtomic writes data to path via a temporary file in the same
// directory and a rename, so a partially written output never replaces a
// valid prior one.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".redline-*")
	if err != nil {
		return NewDocumentError("write", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return NewDocumentError("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return NewDocumentError("write", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return NewDocumentError("write", path, err)
	}
	return nil
}
