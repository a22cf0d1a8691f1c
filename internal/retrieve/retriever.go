// Package retrieve turns a free-text question into a bounded, relevant
// context window: embed the question, query the index, drop duplicates and
// accumulate whole entries under a token budget.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/storage"
)

// ErrCollaboratorTimeout reports that a retrieval collaborator, embedding or
// index, did not answer within the caller's deadline.
var ErrCollaboratorTimeout = errors.New("collaborator timed out")

// Embedder produces the question vector. It must be the same model used at
// ingestion time.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Searcher is the nearest-neighbour contract of the vector index.
type Searcher interface {
	SearchChunks(ctx context.Context, embedding []float32, limit int) ([]*storage.ScoredChunk, error)
}

// ContextEntry is one retrieved chunk, with provenance, forwarded to
// generation.
type ContextEntry struct {
	Text       string
	Source     string
	HeaderPath string
	Score      float64
}

// Context is the ordered context window for one question. It is built fresh
// per query and never persisted.
type Context struct {
	Entries []ContextEntry
}

// Tokens estimates the combined token count of all entries.
func (c Context) Tokens() int {
	total := 0
	for _, e := range c.Entries {
		total += EstimateTokens(e.Text)
	}
	return total
}

// EstimateTokens approximates token count at four characters per token.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}

// Retriever assembles context windows from the vector index.
type Retriever struct {
	embedder Embedder
	index    Searcher
	logger   *slog.Logger
}

// New creates a Retriever.
func New(embedder Embedder, index Searcher, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{embedder: embedder, index: index, logger: logger}
}

// Retrieve embeds the question, fetches up to k candidates and accumulates
// them in descending similarity order until the next would exceed
// tokenBudget. Candidates sharing a chunk ID are collapsed to their
// highest-scored instance; an entry is never partially included.
func (r *Retriever) Retrieve(ctx context.Context, question string, k, tokenBudget int) (Context, error) {
	embeddings, err := r.embedder.GenerateEmbeddings(ctx, []string{question})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Context{}, fmt.Errorf("%w: embedding question: %v", ErrCollaboratorTimeout, err)
		}
		return Context{}, fmt.Errorf("embed question: %w", err)
	}

	candidates, err := r.index.SearchChunks(ctx, embeddings[0], k)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Context{}, fmt.Errorf("%w: querying index: %v", ErrCollaboratorTimeout, err)
		}
		return Context{}, fmt.Errorf("query index: %w", err)
	}

	// Candidates arrive highest score first, so the first occurrence of a
	// chunk ID is also its best-scored instance.
	seen := make(map[string]bool, len(candidates))
	used := 0
	var entries []ContextEntry
	for _, c := range candidates {
		if seen[c.Chunk.ID] {
			continue
		}
		seen[c.Chunk.ID] = true

		cost := EstimateTokens(c.Chunk.Content)
		if used+cost > tokenBudget {
			break
		}
		used += cost
		entries = append(entries, ContextEntry{
			Text:       c.Chunk.Content,
			Source:     c.Chunk.Source,
			HeaderPath: c.Chunk.HeaderPath,
			Score:      c.Score,
		})
	}

	r.logger.Debug("assembled context",
		"candidates", len(candidates), "entries", len(entries), "tokens", used)
	return Context{Entries: entries}, nil
}
