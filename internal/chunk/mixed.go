package chunk

import (
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/corpus"
)

// splitMixed handles R Markdown and Quarto documents. It tries the structural
// prose path first, treating embedded code fences as opaque section text. A
// document with no markdown headers (for example a knitr script that is all
// code chunks) falls back to the code splitter on the raw text. The returned
// Strategy makes the chosen path observable to callers and tests.
func (s *Splitter) splitMixed(file *corpus.SourceFile, params Params) ([]Chunk, Strategy, error) {
	sections, headed, err := s.prose.sections([]byte(file.Text))
	if err != nil {
		return nil, "", err
	}
	if !headed {
		return splitCode(file, params), StrategyCode, nil
	}
	return chunksFromSections(file, sections, params), StrategyProse, nil
}
