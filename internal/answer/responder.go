// Package answer formats a grounded prompt from a question and its retrieved
// context and delegates to the generation collaborator.
package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/retrieve"
)

// ErrGenerationUnavailable reports that the generation collaborator failed
// even after the bounded retry.
var ErrGenerationUnavailable = errors.New("generation collaborator unavailable")

// Generator is the opaque text completion collaborator.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Responder answers questions from retrieved context.
type Responder struct {
	generator Generator
	logger    *slog.Logger
}

// New creates a Responder.
func New(generator Generator, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{generator: generator, logger: logger}
}

const preamble = "You are an expert R programmer and data scientist. Use the provided " +
	"context about R packages to answer the user's question. The context includes both " +
	"documentation and code from various R packages. If the context does not cover the " +
	"question, say so instead of guessing, and cite the sources you relied on."

// BuildPrompt renders the deterministic prompt for a question and its
// context. Each context entry is tagged with its source path and section so
// the answer can reference provenance.
func BuildPrompt(question string, ctx retrieve.Context) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\nContext:\n")

	if len(ctx.Entries) == 0 {
		b.WriteString("(no relevant context was found in the knowledge base)\n")
	}
	for _, e := range ctx.Entries {
		b.WriteString("[Source: ")
		b.WriteString(e.Source)
		if e.HeaderPath != "" {
			b.WriteString(" | Section: ")
			b.WriteString(e.HeaderPath)
		}
		b.WriteString("]\n")
		b.WriteString(e.Text)
		b.WriteString("\n\n")
	}

	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// Answer generates an answer for the question grounded in ctx. A transient
// generation failure is retried exactly once; persistent failure surfaces as
// ErrGenerationUnavailable. An empty context still produces an answer.
func (r *Responder) Answer(ctx context.Context, question string, retrieved retrieve.Context) (string, error) {
	prompt := BuildPrompt(question, retrieved)

	text, err := r.generator.Complete(ctx, prompt)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		// The caller's deadline is gone; retrying cannot succeed.
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	r.logger.Warn("generation failed, retrying once", "error", err)
	text, err = r.generator.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	return text, nil
}
