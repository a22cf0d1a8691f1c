package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/config"
	ghclient "github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/github"
)

var (
	fetchRepo       string
	fetchPath       string
	fetchContentDir string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download documentation from a GitHub repository",
	Long: `Downloads every supported file (.md, .R, .Rmd, .qmd) from a repository
subtree into the local content directory, ready for ingestion.

Environment variables:
  GITHUB_TOKEN   GitHub token for higher rate limits (optional)`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchRepo, "repo", "", "Repository in OWNER/NAME form (required)")
	fetchCmd.Flags().StringVar(&fetchPath, "path", "", "Subtree to fetch (default: repository root)")
	fetchCmd.Flags().StringVar(&fetchContentDir, "content-dir", "", "Destination directory (default from config)")
	_ = fetchCmd.MarkFlagRequired("repo")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	owner, repo, ok := strings.Cut(fetchRepo, "/")
	if !ok || owner == "" || repo == "" {
		return fmt.Errorf("invalid --repo %q: expected OWNER/NAME", fetchRepo)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dest := cfg.ContentDir
	if fetchContentDir != "" {
		dest = fetchContentDir
	}

	client, err := ghclient.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}
	fetcher := ghclient.NewFetcher(client, owner, repo, fetchPath)

	fmt.Printf("Fetching %s/%s/%s into %s...\n", owner, repo, fetchPath, dest)
	result, err := fetcher.FetchTree(ctx, dest)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Fetch complete!")
	fmt.Printf("  Files: %d\n", len(result.Files))
	fmt.Printf("  Skipped: %d\n", result.FilesSkipped)
	if result.CommitSHA != "" {
		fmt.Printf("  Commit: %s\n", result.CommitSHA)
	}
	fmt.Printf("  Duration: %s\n", time.Since(start).Round(time.Millisecond))

	return nil
}
