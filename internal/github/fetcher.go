package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/google/go-github/v81/github"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/corpus"
)

// FetchedFile is a single corpus file downloaded from a repository.
type FetchedFile struct {
	Path    string // Relative path within the fetched subtree
	Content string // Full file content
	SHA     string // File's Git blob SHA
}

// FetchResult summarizes a FetchTree run.
type FetchResult struct {
	Files        []string // Relative paths of files written to the destination
	FilesSkipped int      // Files in the subtree with unsupported extensions
	CommitSHA    string   // Latest commit affecting the subtree, when resolvable
}

// Fetcher downloads documentation trees from GitHub repositories into a
// local content directory so they can be ingested.
type Fetcher struct {
	client   *Client
	owner    string
	repo     string
	basePath string
}

// NewFetcher creates a fetcher for a repository subtree. basePath may be
// empty to fetch from the repository root.
func NewFetcher(client *Client, owner, repo, basePath string) *Fetcher {
	return &Fetcher{
		client:   client,
		owner:    owner,
		repo:     repo,
		basePath: basePath,
	}
}

// FetchTree lists the configured subtree, downloads every supported file
// and writes it under dest, preserving the relative directory layout.
func (f *Fetcher) FetchTree(ctx context.Context, dest string) (*FetchResult, error) {
	result := &FetchResult{}

	files, skipped, err := f.listFilesRecursive(ctx, f.basePath, "")
	if err != nil {
		return nil, err
	}
	result.FilesSkipped = skipped

	for _, relPath := range files {
		fetched, err := f.FetchFile(ctx, relPath)
		if err != nil {
			return nil, err
		}

		target := filepath.Join(dest, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", relPath, err)
		}
		if err := os.WriteFile(target, []byte(fetched.Content), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", relPath, err)
		}

		result.Files = append(result.Files, relPath)
	}

	// Best effort. A missing commit SHA never fails the fetch.
	if sha, err := f.LatestCommitSHA(ctx); err == nil {
		result.CommitSHA = sha
	}

	return result, nil
}

// listFilesRecursive traverses the subtree and collects relative paths of
// files whose extension maps to a supported corpus kind.
func (f *Fetcher) listFilesRecursive(ctx context.Context, fullPath, relativePath string) ([]string, int, error) {
	var files []string
	skipped := 0

	_, dirContents, _, err := f.client.Repositories.GetContents(
		ctx,
		f.owner,
		f.repo,
		fullPath,
		nil,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get contents of %s: %w", fullPath, err)
	}

	for _, item := range dirContents {
		if item.Type == nil || item.Name == nil {
			continue
		}

		itemRelPath := path.Join(relativePath, *item.Name)

		switch *item.Type {
		case "file":
			if _, err := corpus.Classify(*item.Name); err == nil {
				files = append(files, itemRelPath)
			} else {
				skipped++
			}

		case "dir":
			itemFullPath := path.Join(fullPath, *item.Name)
			subFiles, subSkipped, err := f.listFilesRecursive(ctx, itemFullPath, itemRelPath)
			if err != nil {
				return nil, 0, err
			}
			files = append(files, subFiles...)
			skipped += subSkipped
		}
	}

	return files, skipped, nil
}

// FetchFile fetches the content of a single file in the subtree.
func (f *Fetcher) FetchFile(ctx context.Context, relativePath string) (*FetchedFile, error) {
	fullPath := path.Join(f.basePath, relativePath)

	fileContent, _, _, err := f.client.Repositories.GetContents(
		ctx,
		f.owner,
		f.repo,
		fullPath,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get content of %s: %w", fullPath, err)
	}

	if fileContent == nil {
		return nil, fmt.Errorf("no file content returned for %s", fullPath)
	}

	content, err := base64.StdEncoding.DecodeString(*fileContent.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content of %s: %w", fullPath, err)
	}

	return &FetchedFile{
		Path:    relativePath,
		Content: string(content),
		SHA:     *fileContent.SHA,
	}, nil
}

// LatestCommitSHA retrieves the SHA of the most recent commit affecting the subtree.
func (f *Fetcher) LatestCommitSHA(ctx context.Context) (string, error) {
	commits, _, err := f.client.Repositories.ListCommits(
		ctx,
		f.owner,
		f.repo,
		&github.CommitsListOptions{
			Path: f.basePath,
			ListOptions: github.ListOptions{
				PerPage: 1,
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to get latest commit: %w", err)
	}

	if len(commits) == 0 {
		return "", fmt.Errorf("no commits found for path %s", f.basePath)
	}

	if commits[0].SHA == nil {
		return "", fmt.Errorf("commit SHA is nil")
	}

	return *commits[0].SHA, nil
}
