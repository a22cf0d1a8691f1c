package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/answer"
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/config"
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/embedding"
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/retrieve"
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/storage"
	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/tui"
)

var (
	queryQuestion    string
	queryTopK        int
	queryTokenBudget int
	queryCollection  string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Answer questions from the knowledge base",
	Long: `Retrieves the most relevant chunks for a question and generates an answer
grounded in them.

With --question the answer is printed once and the command exits. Without
it an interactive session opens and keeps answering until Ctrl+C.

Environment variables:
  QDRANT_HOST    Qdrant hostname (default: localhost)
  QDRANT_PORT    Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY OpenAI API key for embeddings and generation (required)`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryQuestion, "question", "q", "", "Question to answer (omit for an interactive session)")
	queryCmd.Flags().IntVar(&queryTopK, "top-k", 0, "Number of chunks to retrieve (default from config)")
	queryCmd.Flags().IntVar(&queryTokenBudget, "token-budget", 0, "Token budget for retrieved context (default from config)")
	queryCmd.Flags().StringVar(&queryCollection, "collection", "", "Qdrant collection name (default from config)")
}

// askService wires retrieval and generation behind the one-question interface
// both query modes share.
type askService struct {
	retriever   *retrieve.Retriever
	responder   *answer.Responder
	topK        int
	tokenBudget int
	timeout     time.Duration
}

func (s *askService) Ask(question string) (*tui.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	retrieved, err := s.retriever.Retrieve(ctx, question, s.topK, s.tokenBudget)
	if err != nil {
		return nil, err
	}
	text, err := s.responder.Answer(ctx, question, retrieved)
	if err != nil {
		return nil, err
	}

	result := &tui.Result{Answer: text}
	for _, entry := range retrieved.Entries {
		src := entry.Source
		if entry.HeaderPath != "" {
			src += " | " + entry.HeaderPath
		}
		result.Sources = append(result.Sources, fmt.Sprintf("%s (score %.3f)", src, entry.Score))
	}
	return result, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	topK := cfg.Retrieval.TopK
	if cmd.Flags().Changed("top-k") {
		topK = queryTopK
	}
	tokenBudget := cfg.Retrieval.TokenBudget
	if cmd.Flags().Changed("token-budget") {
		tokenBudget = queryTokenBudget
	}
	collection := cfg.Qdrant.Collection
	if queryCollection != "" {
		collection = queryCollection
	}

	store, err := storage.NewQdrantStorage(cfg.Qdrant.Host, cfg.Qdrant.Port, collection)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer store.Close()

	embeddingClient, err := embedding.NewClient()
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, cfg.Embedding.Model, cfg.Embedding.BatchSize)

	logger := slog.Default()
	retriever := retrieve.New(embedder, store, logger)
	generator := answer.NewOpenAIGenerator(embeddingClient, cfg.Chat.Model)
	responder := answer.New(generator, logger)

	service := &askService{
		retriever:   retriever,
		responder:   responder,
		topK:        topK,
		tokenBudget: tokenBudget,
		timeout:     time.Duration(cfg.Retrieval.TimeoutSecs) * time.Second,
	}

	if queryQuestion != "" {
		result, err := service.Ask(queryQuestion)
		if err != nil {
			return err
		}
		fmt.Println(result.Answer)
		if len(result.Sources) > 0 {
			fmt.Println()
			fmt.Println("Sources:")
			for _, src := range result.Sources {
				fmt.Printf("  - %s\n", src)
			}
		}
		return nil
	}

	program := tea.NewProgram(tui.New(service), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}
