// Package index refreshes the dependency-name index from a git repository.
package index

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"
)

const (
	RepoURL    = "https://github.com/arc-language/ubrew"
	RepoBranch = "main"
	// IndexDir is where the index lives inside RepoURL
	IndexDir   = "pkg/registry/deps"
)

// Options configures a sync
type Options struct {
	RepoURL  string    // defaults to RepoURL
	Branch   string    // defaults to RepoBranch
	IndexDir string    // index directory inside the checkout, defaults to IndexDir
	Progress io.Writer // git progress (discarded if nil)
	Logger   *zap.SugaredLogger
}

// Sync clones the index repository and installs its index tree into
// <cacheDir>/deps, where the dependency registry looks before its
// built-in entries
func Sync(ctx context.Context, cacheDir string, opts Options) error {
	if opts.RepoURL == "" {
		opts.RepoURL = RepoURL
	}
	if opts.Branch == "" {
		opts.Branch = RepoBranch
	}
	if opts.IndexDir == "" {
		opts.IndexDir = IndexDir
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	tempDir, err := os.MkdirTemp("", "ubrew-index-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	opts.Logger.Infof("Updating dependency index from %s...", opts.RepoURL)

	_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL:           opts.RepoURL,
		ReferenceName: plumbing.NewBranchReferenceName(opts.Branch),
		SingleBranch:  true,
		Depth:         1,
		Progress:      opts.Progress,
	})
	if err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}

	n, err := Install(tempDir, opts.IndexDir, cacheDir)
	if err != nil {
		return err
	}

	opts.Logger.Infof("Dependency index updated: %d entries", n)
	return nil
}

// Install replaces <cacheDir>/deps with the indexDir tree of a checkout
// and returns the number of entries installed
func Install(checkout, indexDir, cacheDir string) (int, error) {
	src := filepath.Join(checkout, filepath.FromSlash(indexDir))
	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, fmt.Errorf("reading deps registry: %w", err)
	}

	dst := filepath.Join(cacheDir, "deps")
	staging := dst + ".new"
	if err := os.RemoveAll(staging); err != nil {
		return 0, fmt.Errorf("clearing staging dir: %w", err)
	}
	if err := copyDir(src, staging); err != nil {
		os.RemoveAll(staging)
		return 0, fmt.Errorf("copying deps registry: %w", err)
	}
	if err := os.RemoveAll(dst); err != nil {
		return 0, fmt.Errorf("removing old deps registry: %w", err)
	}
	if err := os.Rename(staging, dst); err != nil {
		return 0, fmt.Errorf("installing deps registry: %w", err)
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() {
			count++
		}
	}
	return count, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}
