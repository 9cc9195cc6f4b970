// Package autotools derives compiler flag environments from recipe settings
// and drives configure/make builds with them.
package autotools

import (
	"context"
	"os"
	"path/filepath"

	"github.com/goplus/llarhub/formula"
	"github.com/goplus/llarhub/pkgs/buildsys"
)

// AutoTools wraps common Autotools build steps with chainable configuration.
type AutoTools struct {
	sourceDir  string
	buildDir   string
	installDir string
	env        map[string]string
}

var _ buildsys.BuildSystem = (*AutoTools)(nil)

// New creates an AutoTools helper whose commands see the flags of
// NewEnvironment(ctx).
func New(ctx *formula.Context) *AutoTools {
	a := &AutoTools{
		sourceDir:  ctx.SourceDir,
		buildDir:   ctx.BuildDir,
		installDir: ctx.PackageDir,
		env:        NewEnvironment(ctx).Vars(),
	}
	if a.buildDir == "" {
		a.buildDir = ctx.SourceDir
	}
	return a
}

func (a *AutoTools) Source(dir string) {
	a.sourceDir = dir
}

func (a *AutoTools) InstallDir(dir string) {
	a.installDir = dir
}

func (a *AutoTools) Env(key, value string) {
	a.env[key] = value
}

// Use exposes an installed dependency rooted at dir.
func (a *AutoTools) Use(dir string) {
	buildsys.UseDir(dir)
}

// Configure runs <source>/configure --prefix=<install> from the build dir.
func (a *AutoTools) Configure(ctx context.Context, args ...string) error {
	if err := os.MkdirAll(a.buildDir, 0o755); err != nil {
		return err
	}
	configArgs := []string{}
	if a.installDir != "" {
		configArgs = append(configArgs, "--prefix="+a.installDir)
	}
	configArgs = append(configArgs, args...)
	return buildsys.Run(ctx, a.buildDir, filepath.Join(a.sourceDir, "configure"), configArgs, a.env)
}

// Build runs make (or the provided command) in the build directory.
func (a *AutoTools) Build(ctx context.Context, args ...string) error {
	if len(args) == 0 {
		args = []string{"make"}
	}
	return buildsys.Run(ctx, a.buildDir, args[0], args[1:], a.env)
}

// Install runs make install (or the provided command) in the build directory.
func (a *AutoTools) Install(ctx context.Context, args ...string) error {
	if len(args) == 0 {
		args = []string{"make", "install"}
	}
	return buildsys.Run(ctx, a.buildDir, args[0], args[1:], a.env)
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (a *AutoTools) OutputDir() string {
	if a.installDir != "" {
		return a.installDir
	}
	return a.buildDir
}
