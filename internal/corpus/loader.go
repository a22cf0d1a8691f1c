// Package corpus reads and classifies the files of an R documentation corpus.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileKind selects the chunking strategy for a corpus file.
type FileKind string

const (
	KindProse FileKind = "prose" // plain Markdown documentation
	KindCode  FileKind = "code"  // R source files
	KindMixed FileKind = "mixed" // R Markdown / Quarto literate documents
)

// ErrUnsupportedKind is returned for extensions outside the supported set.
var ErrUnsupportedKind = errors.New("unsupported file kind")

// SourceFile is a fully read corpus file tagged with its kind.
// The path is recorded relative to the content root so chunk IDs stay
// stable when the corpus moves between machines.
type SourceFile struct {
	Path string
	Kind FileKind
	Text string
}

// Classify maps a file name to its kind by extension.
func Classify(path string) (FileKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return KindProse, nil
	case ".r":
		return KindCode, nil
	case ".rmd", ".qmd":
		return KindMixed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, filepath.Ext(path))
	}
}

// Load reads the file at path atomically and returns it classified.
// The stored path is relative to root.
func Load(root, path string) (*SourceFile, error) {
	kind, err := Classify(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	return &SourceFile{
		Path: filepath.ToSlash(rel),
		Kind: kind,
		Text: string(data),
	}, nil
}
