// Package ingest drives the build-time pipeline: walk a content directory,
// chunk each supported file, embed the chunks and upsert them into the vector
// index with deterministic IDs.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/chunk"
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/corpus"
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/storage"
)

// Embedder supplies vectors for chunk texts.
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Index receives persisted chunks. Upserting a chunk ID that already exists
// must overwrite it.
type Index interface {
	UpsertChunks(ctx context.Context, chunks []*storage.IndexedChunk) error
}

// errFatal marks failures that invalidate the whole run (collaborator or
// index trouble) as opposed to per-file failures, which are isolated.
var errFatal = errors.New("ingestion aborted")

// SkippedFile records a file the run could not ingest and why.
type SkippedFile struct {
	Path   string
	Reason string
}

// Report summarises one ingestion run.
type Report struct {
	FilesSeen     int
	ChunksCreated int
	FilesSkipped  []SkippedFile
	Duration      time.Duration
}

// Pipeline orchestrates loading, chunking, embedding and storage.
type Pipeline struct {
	splitter *chunk.Splitter
	params   chunk.Params
	embedder Embedder
	index    Index
	logger   *slog.Logger
}

// NewPipeline validates the chunk parameters and assembles the pipeline.
// Invalid parameters fail here, before any file is touched.
func NewPipeline(params chunk.Params, embedder Embedder, index Index, logger *slog.Logger) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		splitter: chunk.NewSplitter(),
		params:   params,
		embedder: embedder,
		index:    index,
		logger:   logger,
	}, nil
}

// Ingest walks root recursively and ingests every supported file. Per-file
// failures (unsupported kind, unreadable file) are recorded in the report and
// do not abort the run; embedding or index failures do, returning the partial
// report alongside the error.
func (p *Pipeline) Ingest(ctx context.Context, root string) (*Report, error) {
	start := time.Now()
	report := &Report{}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		report.FilesSeen++
		created, err := p.ingestFile(ctx, root, path)
		if err != nil {
			if errors.Is(err, errFatal) {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			p.logger.Warn("skipping file", "path", rel, "reason", err)
			report.FilesSkipped = append(report.FilesSkipped, SkippedFile{
				Path:   filepath.ToSlash(rel),
				Reason: err.Error(),
			})
			return nil
		}
		report.ChunksCreated += created
		return nil
	})

	report.Duration = time.Since(start)
	if walkErr != nil {
		return report, fmt.Errorf("ingest %s: %w", root, walkErr)
	}

	p.logger.Info("ingestion complete",
		"files", report.FilesSeen,
		"chunks", report.ChunksCreated,
		"skipped", len(report.FilesSkipped),
		"duration", report.Duration,
	)
	return report, nil
}

// ingestFile runs the full pipeline for one file and returns the number of
// chunks created. Load and chunk failures are isolatable; embedding and
// upsert failures are wrapped as fatal.
func (p *Pipeline) ingestFile(ctx context.Context, root, path string) (int, error) {
	file, err := corpus.Load(root, path)
	if err != nil {
		return 0, err
	}

	chunks, strategy, err := p.splitter.Split(file, p.params)
	if err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}
	if len(chunks) == 0 {
		p.logger.Debug("empty file", "path", file.Path)
		return 0, nil
	}
	p.logger.Debug("chunked file",
		"path", file.Path, "kind", file.Kind, "strategy", strategy, "chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := p.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: embed %s: %w", errFatal, file.Path, err)
	}

	indexed := make([]*storage.IndexedChunk, len(chunks))
	for i, c := range chunks {
		indexed[i] = &storage.IndexedChunk{
			ID:         c.StableID(),
			Source:     c.Source,
			HeaderPath: c.HeaderPath,
			ChunkIndex: c.Index,
			FileKind:   string(c.Kind),
			Content:    c.Text,
			Embedding:  embeddings[i],
		}
	}

	if err := p.index.UpsertChunks(ctx, indexed); err != nil {
		return 0, fmt.Errorf("%w: store %s: %w", errFatal, file.Path, err)
	}
	return len(chunks), nil
}
