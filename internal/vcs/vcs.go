// Package vcs checks out recipe sources kept in version control.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Git checks out git sources with shallow fetches.
type Git struct {
	// Path is the git executable. Empty means "git" from PATH.
	Path string
}

// Sync leaves dir checked out at ref of remote and returns the commit it
// points to. ref can be a branch, a tag or a commit hash. A missing dir is
// created and initialized; an existing checkout is updated in place.
// Submodules listed in .gitmodules are checked out too.
func (g *Git) Sync(ctx context.Context, remote, ref, dir string) (string, error) {
	if err := g.ensureInit(ctx, dir); err != nil {
		return "", err
	}
	if err := g.run(ctx, dir, "fetch", "--quiet", "--depth", "1", remote, ref); err != nil {
		return "", fmt.Errorf("fetch %s %s: %w", remote, ref, err)
	}
	if err := g.run(ctx, dir, "checkout", "--quiet", "--force", "FETCH_HEAD"); err != nil {
		return "", fmt.Errorf("checkout %s: %w", ref, err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".gitmodules")); err == nil {
		if err := g.run(ctx, dir, "submodule", "update", "--quiet", "--init", "--recursive", "--depth", "1"); err != nil {
			return "", fmt.Errorf("submodules: %w", err)
		}
	}
	return g.Rev(ctx, dir)
}

// Rev returns the commit checked out in dir.
func (g *Git) Rev(ctx context.Context, dir string) (string, error) {
	out, err := g.output(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("rev-parse: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (g *Git) ensureInit(ctx context.Context, dir string) error {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return g.run(ctx, dir, "init", "--quiet")
}

func (g *Git) run(ctx context.Context, dir string, args ...string) error {
	_, err := g.output(ctx, dir, args...)
	return err
}

func (g *Git) output(ctx context.Context, dir string, args ...string) (string, error) {
	git := g.Path
	if git == "" {
		git = "git"
	}
	cmd := exec.CommandContext(ctx, git, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s", msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
