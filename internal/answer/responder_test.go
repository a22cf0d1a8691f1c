package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/retrieve"
)

// scriptedGenerator fails the first failures calls, then answers.
type scriptedGenerator struct {
	failures int
	calls    int
	prompts  []string
}

func (g *scriptedGenerator) Complete(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.calls <= g.failures {
		return "", errors.New("connection reset")
	}
	return "Use filter() from dplyr.", nil
}

func sampleContext() retrieve.Context {
	return retrieve.Context{Entries: []retrieve.ContextEntry{
		{
			Text:       "filter() subsets rows matching a condition.",
			Source:     "docs/filter.md",
			HeaderPath: "# filter > ## Usage",
			Score:      0.91,
		},
		{
			Text:   "filter <- function(.data, ...) UseMethod(\"filter\")",
			Source: "R/filter.R",
			Score:  0.84,
		},
	}}
}

func TestBuildPrompt_TagsProvenance(t *testing.T) {
	prompt := BuildPrompt("How do I use filter?", sampleContext())

	assert.Contains(t, prompt, "[Source: docs/filter.md | Section: # filter > ## Usage]")
	assert.Contains(t, prompt, "[Source: R/filter.R]")
	assert.Contains(t, prompt, "filter() subsets rows matching a condition.")
	assert.Contains(t, prompt, "Question:\nHow do I use filter?")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt("q", sampleContext())
	b := BuildPrompt("q", sampleContext())
	assert.Equal(t, a, b)
}

func TestBuildPrompt_EmptyContext(t *testing.T) {
	prompt := BuildPrompt("How do I use dplyr's filter function?", retrieve.Context{})
	assert.Contains(t, prompt, "no relevant context was found")
	assert.Contains(t, prompt, "How do I use dplyr's filter function?")
}

func TestAnswer_Success(t *testing.T) {
	gen := &scriptedGenerator{}
	r := New(gen, nil)

	got, err := r.Answer(context.Background(), "How do I use filter?", sampleContext())
	require.NoError(t, err)
	assert.Equal(t, "Use filter() from dplyr.", got)
	assert.Equal(t, 1, gen.calls)
}

func TestAnswer_RetriesOnceOnTransientFailure(t *testing.T) {
	gen := &scriptedGenerator{failures: 1}
	r := New(gen, nil)

	got, err := r.Answer(context.Background(), "How do I use filter?", sampleContext())
	require.NoError(t, err)
	assert.Equal(t, "Use filter() from dplyr.", got)
	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, gen.prompts[0], gen.prompts[1], "the retry reuses the same prompt")
}

func TestAnswer_PersistentFailure(t *testing.T) {
	gen := &scriptedGenerator{failures: 10}
	r := New(gen, nil)

	_, err := r.Answer(context.Background(), "anything", sampleContext())
	require.ErrorIs(t, err, ErrGenerationUnavailable)
	assert.Equal(t, 2, gen.calls, "exactly one bounded retry")
}

func TestAnswer_NoRetryAfterDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &scriptedGenerator{failures: 10}
	r := New(gen, nil)

	_, err := r.Answer(ctx, "anything", sampleContext())
	require.ErrorIs(t, err, ErrGenerationUnavailable)
	assert.Equal(t, 1, gen.calls, "no retry once the caller's context is done")
}

func TestAnswer_EmptyContextStillAnswers(t *testing.T) {
	gen := &scriptedGenerator{}
	r := New(gen, nil)

	got, err := r.Answer(context.Background(), "How do I use dplyr's filter function?", retrieve.Context{})
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}
