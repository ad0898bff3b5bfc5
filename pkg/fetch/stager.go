// pkg/fetch/stager.go
package fetch

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"
)

// Stager fetches a download and unpacks it into a temporary directory for
// the duration of a callback
type Stager struct {
	Fetcher  *Fetcher
	WorkDir  string    // parent of staging directories (os.TempDir() if empty)
	Progress io.Writer // git clone progress (discarded if nil)
	Logger   *zap.SugaredLogger
}

// NewStager creates a Stager
func NewStager(fetcher *Fetcher, workDir string, logger *zap.SugaredLogger) *Stager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Stager{Fetcher: fetcher, WorkDir: workDir, Logger: logger}
}

// Stage stages a descriptor resource and calls fn with its build directory
func (s *Stager) Stage(ctx context.Context, r descriptor.Resource, fn func(dir string) error) error {
	return s.StageURL(ctx, r.Name, r.URL, r.Checksum, fn)
}

// StageURL fetches, verifies and unpacks rawURL, then calls fn inside it.
// The staging directory is removed afterwards.
func (s *Stager) StageURL(ctx context.Context, name, rawURL, checksum string, fn func(dir string) error) error {
	archive, err := s.Fetcher.Fetch(ctx, name, rawURL, checksum)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", name, err)
	}

	tmp, err := os.MkdirTemp(s.WorkDir, name+"-stage-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	root, err := Unpack(archive, tmp)
	if err != nil {
		return fmt.Errorf("unpacking %s: %w", name, err)
	}

	s.Logger.Debugf("Staged %s in %s", name, root)
	return fn(root)
}

// StageHead clones the tip of a repository and calls fn inside the checkout
func (s *Stager) StageHead(ctx context.Context, name, repoURL string, fn func(dir string) error) error {
	tmp, err := os.MkdirTemp(s.WorkDir, name+"-head-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := CloneHead(ctx, repoURL, tmp, s.Progress); err != nil {
		return err
	}

	s.Logger.Debugf("Cloned %s into %s", repoURL, tmp)
	return fn(tmp)
}

// CloneHead makes a shallow clone of the default branch of repoURL
func CloneHead(ctx context.Context, repoURL, dest string, progress io.Writer) error {
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:          repoURL,
		SingleBranch: true,
		Depth:        1,
		Progress:     progress,
	})
	if err != nil {
		return fmt.Errorf("git clone %s: %w", repoURL, err)
	}
	return nil
}
