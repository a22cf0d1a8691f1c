package chunk

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/corpus"
)

// section is a structural slice of a markdown document with its header
// hierarchy.
type section struct {
	headerPath string
	text       string
}

// proseSplitter parses markdown and cuts it at H1/H2 boundaries.
type proseSplitter struct {
	parser goldmark.Markdown
}

func newProseSplitter() *proseSplitter {
	return &proseSplitter{
		parser: goldmark.New(
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// splitProse chunks a prose document: header sections first, then any section
// larger than params.Size is re-split by the windowed code splitter. Sub-chunks
// inherit the parent section's header path, so a chunk never silently spans two
// sections.
func (s *Splitter) splitProse(file *corpus.SourceFile, params Params) ([]Chunk, error) {
	sections, _, err := s.prose.sections([]byte(file.Text))
	if err != nil {
		return nil, err
	}
	return chunksFromSections(file, sections, params), nil
}

func chunksFromSections(file *corpus.SourceFile, sections []section, params Params) []Chunk {
	var chunks []Chunk
	for _, sec := range sections {
		for _, piece := range windows(sec.text, params) {
			chunks = append(chunks, Chunk{
				Text:       piece,
				Source:     file.Path,
				HeaderPath: sec.headerPath,
				Index:      len(chunks),
				Kind:       file.Kind,
			})
		}
	}
	return chunks
}

// sections splits markdown at H1 and H2 boundaries, each section carrying its
// header hierarchy. The boolean reports whether any headers were found; a
// headerless document yields a single section with an empty header path, and
// an empty document yields none.
func (p *proseSplitter) sections(source []byte) ([]section, bool, error) {
	reader := text.NewReader(source)
	doc := p.parser.Parser().Parse(reader)

	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(2), // split at H1 and H2 only, deeper headers stay inline
		toc.Compact(true),
	)
	if err != nil {
		return nil, false, fmt.Errorf("inspect toc: %w", err)
	}

	if len(tree.Items) == 0 {
		if strings.TrimSpace(string(source)) == "" {
			return nil, false, nil
		}
		return []section{{text: string(source)}}, false, nil
	}

	var sections []section
	p.collect(doc, source, tree.Items, nil, &sections)
	return sections, true, nil
}

// collect recursively walks TOC items, slicing section content out of source.
func (p *proseSplitter) collect(doc ast.Node, source []byte, items toc.Items, ancestors []string, sections *[]section) {
	for i, item := range items {
		path := append(ancestors, string(item.Title))

		headerNode := findHeaderByID(doc, string(item.ID))
		if headerNode == nil {
			continue
		}

		start := headerNode.Lines().At(0)
		var end text.Segment
		if i+1 < len(items) {
			if next := findHeaderByID(doc, string(items[i+1].ID)); next != nil {
				end = next.Lines().At(0)
			}
		} else {
			end = nextHeaderBoundary(doc, headerNode, headerNode.(*ast.Heading).Level)
		}

		*sections = append(*sections, section{
			headerPath: formatHeaderPath(path),
			text:       sliceContent(source, start, end),
		})

		if len(item.Items) > 0 {
			p.collect(doc, source, item.Items, path, sections)
		}
	}
}

// formatHeaderPath renders a hierarchy as "# Section > ## Subsection".
func formatHeaderPath(path []string) string {
	parts := make([]string, len(path))
	for i, title := range path {
		parts[i] = strings.Repeat("#", i+1) + " " + title
	}
	return strings.Join(parts, " > ")
}

// findHeaderByID locates a heading node by its auto-generated ID.
func findHeaderByID(node ast.Node, id string) ast.Node {
	var found ast.Node
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			headingID, ok := n.(*ast.Heading).AttributeString("id")
			if ok && string(headingID.([]byte)) == id {
				found = n
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return found
}

// nextHeaderBoundary finds the first heading after current at the same or a
// higher level. Returns a zero segment when the section runs to EOF.
func nextHeaderBoundary(root, current ast.Node, level int) text.Segment {
	var boundary ast.Node
	passedCurrent := false

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}
		if !passedCurrent {
			if n == current {
				passedCurrent = true
			}
			return ast.WalkContinue, nil
		}
		if n.(*ast.Heading).Level <= level {
			boundary = n
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if boundary != nil {
		return boundary.Lines().At(0)
	}
	return text.Segment{}
}

// sliceContent extracts the text between two line segments, or to EOF when no
// end boundary exists.
func sliceContent(source []byte, start, end text.Segment) string {
	if end.Start == 0 && end.Stop == 0 {
		return strings.TrimSpace(string(source[start.Start:]))
	}
	return strings.TrimSpace(string(source[start.Start:end.Start]))
}
