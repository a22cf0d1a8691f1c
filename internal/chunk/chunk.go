// Package chunk splits corpus files into retrieval-ready units, selecting a
// strategy per file kind: header-aware splitting for prose, boundary-aware
// windowing for code, and a two-tier combination for mixed documents.
package chunk

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/corpus"
)

// ErrInvalidConfig reports an unusable chunk size/overlap combination.
var ErrInvalidConfig = errors.New("invalid chunk configuration")

// Params controls chunk sizing for all strategies.
type Params struct {
	Size    int // maximum chunk length in bytes; cuts never split a rune
	Overlap int // bytes shared between adjacent size-split chunks
}

// Validate rejects configurations that cannot make progress. Overlap must be
// strictly smaller than size; both checks run before any file is processed.
func (p Params) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, p.Size)
	}
	if p.Overlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrInvalidConfig, p.Overlap)
	}
	if p.Overlap >= p.Size {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", ErrInvalidConfig, p.Overlap, p.Size)
	}
	return nil
}

// Chunk is the atomic unit stored and retrieved: bounded text plus provenance.
type Chunk struct {
	Text       string
	Source     string          // path relative to the content root
	HeaderPath string          // "# Section > ## Subsection" for prose, empty otherwise
	Index      int             // position within the file (0, 1, 2...)
	Kind       corpus.FileKind
}

// idNamespace seeds deterministic chunk IDs. Changing it invalidates every
// existing index.
var idNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

// StableID returns a reproducible UUID derived from (source, index), so
// re-ingesting an unchanged file overwrites its previous points instead of
// duplicating them.
func (c Chunk) StableID() string {
	return uuid.NewSHA1(idNamespace, []byte(c.Source+"#"+strconv.Itoa(c.Index))).String()
}

// Strategy reports which splitter actually produced a file's chunks. It only
// differs from the file kind for mixed documents that fall back to the code
// path.
type Strategy string

const (
	StrategyProse Strategy = "prose"
	StrategyCode  Strategy = "code"
)

// Splitter converts source files into chunks. It holds the markdown parser so
// repeated prose splits reuse one goldmark instance.
type Splitter struct {
	prose *proseSplitter
}

// NewSplitter creates a splitter covering all supported file kinds.
func NewSplitter() *Splitter {
	return &Splitter{prose: newProseSplitter()}
}

// Split dispatches to the strategy matching the file kind.
func (s *Splitter) Split(file *corpus.SourceFile, params Params) ([]Chunk, Strategy, error) {
	if err := params.Validate(); err != nil {
		return nil, "", err
	}

	switch file.Kind {
	case corpus.KindProse:
		chunks, err := s.splitProse(file, params)
		return chunks, StrategyProse, err
	case corpus.KindCode:
		return splitCode(file, params), StrategyCode, nil
	case corpus.KindMixed:
		return s.splitMixed(file, params)
	default:
		return nil, "", fmt.Errorf("no chunking strategy for kind %q", file.Kind)
	}
}
