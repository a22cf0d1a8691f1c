package chunk

import (
	"strings"
	"testing"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/corpus"
)

func mixedFile(text string) *corpus.SourceFile {
	return &corpus.SourceFile{Path: "vignettes/intro.Rmd", Kind: corpus.KindMixed, Text: text}
}

// TestSplitMixed_WithHeaders verifies a headed R Markdown document takes the
// prose path, with code fences kept opaque inside their sections.
func TestSplitMixed_WithHeaders(t *testing.T) {
	input := "# Introduction\n\nThis vignette shows basic usage.\n\n" +
		"## Setup\n\n```{r}\nlibrary(dplyr)\nstarwars |> filter(species == \"Droid\")\n```\n\n" +
		"## Results\n\nDroids only.\n"

	chunks, strategy, err := NewSplitter().Split(mixedFile(input), loose)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if strategy != StrategyProse {
		t.Fatalf("expected prose strategy for headed document, got %q", strategy)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	setup := chunks[1]
	if setup.HeaderPath != "# Introduction > ## Setup" {
		t.Errorf("setup chunk HeaderPath: got %q", setup.HeaderPath)
	}
	if !strings.Contains(setup.Text, "library(dplyr)") {
		t.Errorf("code fence missing from its section: %q", setup.Text)
	}
}

// TestSplitMixed_NoHeaders verifies a headerless document falls back to the
// code splitter, and that the fallback is reported.
func TestSplitMixed_NoHeaders(t *testing.T) {
	input := "```{r}\n" + strings.Repeat("x <- rnorm(100)\n", 40) + "```\n"

	chunks, strategy, err := NewSplitter().Split(mixedFile(input), Params{Size: 200, Overlap: 20})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if strategy != StrategyCode {
		t.Fatalf("expected code strategy fallback, got %q", strategy)
	}
	if len(chunks) < 2 {
		t.Errorf("expected the long headerless document to be windowed, got %d chunk(s)", len(chunks))
	}
	for _, c := range chunks {
		if c.HeaderPath != "" {
			t.Errorf("fallback chunks carry no header path, got %q", c.HeaderPath)
		}
	}
}

// TestSplitMixed_CommentHashesAreNotHeaders verifies R comments inside fences
// do not trigger the prose path.
func TestSplitMixed_CommentHashesAreNotHeaders(t *testing.T) {
	input := "```{r}\n# this is an R comment, not a markdown header\ny <- 1\n```\n"

	_, strategy, err := NewSplitter().Split(mixedFile(input), loose)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if strategy != StrategyCode {
		t.Errorf("fenced comments should not count as structure, got %q", strategy)
	}
}

// TestSplitMixed_Empty verifies an empty mixed file yields nothing.
func TestSplitMixed_Empty(t *testing.T) {
	chunks, _, err := NewSplitter().Split(mixedFile(""), loose)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}
