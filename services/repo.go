package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dir-syncer/config"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RepoInitializer creates the baseline repository after a download.
type RepoInitializer interface {
	Init(dir string) error
}

// GitRepoInitializer initializes a repository with go-git and commits the
// whole working tree once.
type GitRepoInitializer struct {
	AuthorName  string
	AuthorEmail string
	Message     string
}

func NewGitRepoInitializer(gitConfig config.GitConfig) *GitRepoInitializer {
	return &GitRepoInitializer{
		AuthorName:  gitConfig.AuthorName,
		AuthorEmail: gitConfig.AuthorEmail,
		Message:     gitConfig.Message,
	}
}

// Init is a no-op when dir already holds a repository.
func (g *GitRepoInitializer) Init(dir string) error {
	if _, err := git.PlainOpen(dir); err == nil {
		slog.Info("Git-Repository existiert bereits", "verzeichnis", dir)
		return nil
	} else if !errors.Is(err, git.ErrRepositoryNotExists) {
		return fmt.Errorf("fehler beim Öffnen des Git-Repositories: %w", err)
	}

	slog.Info("Erstelle Git-Repository", "verzeichnis", dir)

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return fmt.Errorf("git init fehlgeschlagen: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("fehler beim Öffnen des Worktrees: %w", err)
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("git add fehlgeschlagen: %w", err)
	}

	hash, err := worktree.Commit(g.Message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  g.AuthorName,
			Email: g.AuthorEmail,
			When:  time.Now(),
		},
		AllowEmptyCommits: true,
	})
	if err != nil {
		return fmt.Errorf("git commit fehlgeschlagen: %w", err)
	}

	slog.Info("Git-Repository erstellt", "verzeichnis", dir, "commit", hash.String())
	return nil
}
