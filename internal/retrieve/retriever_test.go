package retrieve

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/storage"
)

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, storage.VectorDimension)
	}
	return out, nil
}

type stubSearcher struct {
	results []*storage.ScoredChunk
	err     error
}

func (s *stubSearcher) SearchChunks(context.Context, []float32, int) ([]*storage.ScoredChunk, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func scoredChunk(id, source, content string, score float64) *storage.ScoredChunk {
	return &storage.ScoredChunk{
		Chunk: &storage.IndexedChunk{ID: id, Source: source, Content: content},
		Score: score,
	}
}

func TestRetrieve_OrderAndBudget(t *testing.T) {
	// 100-char contents are 25 estimated tokens each.
	content := strings.Repeat("r", 100)
	searcher := &stubSearcher{results: []*storage.ScoredChunk{
		scoredChunk("a", "docs/filter.md", content, 0.92),
		scoredChunk("b", "R/filter.R", content, 0.81),
		scoredChunk("c", "R/mutate.R", content, 0.60),
	}}

	r := New(&stubEmbedder{}, searcher, nil)
	ctx, err := r.Retrieve(context.Background(), "how does filter work?", 5, 55)
	require.NoError(t, err)

	// Budget of 55 tokens fits two 25-token entries; the third is never
	// partially included.
	require.Len(t, ctx.Entries, 2)
	assert.Equal(t, "docs/filter.md", ctx.Entries[0].Source)
	assert.Equal(t, "R/filter.R", ctx.Entries[1].Source)
	assert.LessOrEqual(t, ctx.Tokens(), 55)
}

func TestRetrieve_DeduplicatesByChunkID(t *testing.T) {
	searcher := &stubSearcher{results: []*storage.ScoredChunk{
		scoredChunk("a", "docs/filter.md", "best instance", 0.9),
		scoredChunk("b", "R/filter.R", "other chunk", 0.8),
		scoredChunk("a", "docs/filter.md", "duplicate instance", 0.7),
	}}

	r := New(&stubEmbedder{}, searcher, nil)
	ctx, err := r.Retrieve(context.Background(), "filter", 5, 1000)
	require.NoError(t, err)

	require.Len(t, ctx.Entries, 2)
	assert.Equal(t, "best instance", ctx.Entries[0].Text, "the highest-scored duplicate wins")
	assert.Equal(t, "other chunk", ctx.Entries[1].Text, "rank order is preserved")
}

func TestRetrieve_LowSimilarityStillReturnsContext(t *testing.T) {
	searcher := &stubSearcher{results: []*storage.ScoredChunk{
		scoredChunk("a", "R/unrelated.R", "x <- read.csv(path)", 0.08),
	}}

	r := New(&stubEmbedder{}, searcher, nil)
	ctx, err := r.Retrieve(context.Background(), "How do I use dplyr's filter function?", 5, 1000)
	require.NoError(t, err)
	assert.NotEmpty(t, ctx.Entries, "low-similarity candidates are still context, not an error")
}

func TestRetrieve_EmptyIndex(t *testing.T) {
	r := New(&stubEmbedder{}, &stubSearcher{}, nil)
	ctx, err := r.Retrieve(context.Background(), "anything", 5, 1000)
	require.NoError(t, err)
	assert.Empty(t, ctx.Entries)
}

func TestRetrieve_EmbedTimeout(t *testing.T) {
	r := New(&stubEmbedder{err: context.DeadlineExceeded}, &stubSearcher{}, nil)
	_, err := r.Retrieve(context.Background(), "anything", 5, 1000)
	require.ErrorIs(t, err, ErrCollaboratorTimeout)
}

func TestRetrieve_SearchTimeout(t *testing.T) {
	searcher := &stubSearcher{err: context.DeadlineExceeded}
	r := New(&stubEmbedder{}, searcher, nil)
	_, err := r.Retrieve(context.Background(), "anything", 5, 1000)
	require.ErrorIs(t, err, ErrCollaboratorTimeout)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("a", 100)))
}
