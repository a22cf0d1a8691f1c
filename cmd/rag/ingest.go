package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/chunk"
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/config"
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/embedding"
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/ingest"
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/storage"
)

var (
	ingestContentDir   string
	ingestChunkSize    int
	ingestChunkOverlap int
	ingestCollection   string
	ingestClear        bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Chunk and index a local documentation tree",
	Long: `Walks a content directory, splits every supported file (.md, .R, .Rmd, .qmd)
into chunks, embeds them and upserts them into Qdrant.

Re-running over an unchanged tree is a no-op: chunk IDs are derived from
source path and position, so existing points are overwritten in place.

Environment variables:
  QDRANT_HOST    Qdrant hostname (default: localhost)
  QDRANT_PORT    Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY OpenAI API key for embeddings (required)`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestContentDir, "content-dir", "", "Directory to ingest (default from config)")
	ingestCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 0, "Maximum chunk size in characters (default from config)")
	ingestCmd.Flags().IntVar(&ingestChunkOverlap, "chunk-overlap", 0, "Overlap between adjacent chunks (default from config)")
	ingestCmd.Flags().StringVar(&ingestCollection, "collection", "", "Qdrant collection name (default from config)")
	ingestCmd.Flags().BoolVar(&ingestClear, "clear", false, "Clear the collection before ingesting")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	contentDir := cfg.ContentDir
	if ingestContentDir != "" {
		contentDir = ingestContentDir
	}
	params := chunk.Params{Size: cfg.Chunk.Size, Overlap: *cfg.Chunk.Overlap}
	if cmd.Flags().Changed("chunk-size") {
		params.Size = ingestChunkSize
	}
	if cmd.Flags().Changed("chunk-overlap") {
		params.Overlap = ingestChunkOverlap
	}
	collection := cfg.Qdrant.Collection
	if ingestCollection != "" {
		collection = ingestCollection
	}

	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.Qdrant.Host, cfg.Qdrant.Port)
	store, err := storage.NewQdrantStorage(cfg.Qdrant.Host, cfg.Qdrant.Port, collection)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	if ingestClear {
		fmt.Println("Clearing existing collection...")
		if err := store.ClearCollection(ctx); err != nil {
			return fmt.Errorf("failed to clear collection: %w", err)
		}
	}

	embeddingClient, err := embedding.NewClient()
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, cfg.Embedding.Model, cfg.Embedding.BatchSize)

	pipeline, err := ingest.NewPipeline(params, embedder, store, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	fmt.Printf("Ingesting %s...\n", contentDir)
	report, err := pipeline.Ingest(ctx, contentDir)
	if report != nil {
		fmt.Println()
		fmt.Println("Ingest report:")
		fmt.Printf("  Files: %d\n", report.FilesSeen)
		fmt.Printf("  Chunks: %d\n", report.ChunksCreated)
		fmt.Printf("  Duration: %s\n", report.Duration.Round(time.Millisecond))
		if len(report.FilesSkipped) > 0 {
			fmt.Println("  Skipped:")
			for _, skipped := range report.FilesSkipped {
				fmt.Printf("    - %s: %s\n", skipped.Path, skipped.Reason)
			}
		}
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	count, err := store.Count(ctx)
	if err == nil {
		fmt.Printf("  Indexed points: %d\n", count)
	}

	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Millisecond))

	return nil
}
