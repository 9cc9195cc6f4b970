// Package build runs the phases of a recipe against a build profile and
// keeps the resulting packages in a workspace cache.
package build

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/goplus/llarhub/formula"
	"github.com/goplus/llarhub/internal/env"
	"github.com/goplus/llarhub/internal/files"
	"github.com/goplus/llarhub/internal/profile"
	"github.com/goplus/llarhub/pkgs/buildsys"
	"github.com/goplus/llarhub/pkgs/mod/module"
	"github.com/goplus/llarhub/pkgs/mod/versions"
)

var (
	// ErrMissingDependency is returned when a recipe requires a package the
	// profile does not provide.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrNotBuilt is returned by Info for packages not in the cache.
	ErrNotBuilt = errors.New("package not built")
)

// PackageInfoFile is written into every package dir.
const PackageInfoFile = "package_info.json"

// Options configures a Builder.
type Options struct {
	WorkspaceDir string
	Profile      *profile.Profile
	Logger       *log.Logger
	Stdout       io.Writer
	Stderr       io.Writer

	// Force rebuilds packages found in the cache.
	Force bool
}

// Builder runs recipes.
type Builder struct {
	opts Options
}

// Result describes a built package.
type Result struct {
	Ref        module.Ref       `json:"ref"`
	PackageID  string           `json:"package_id"`
	PackageDir string           `json:"package_dir"`
	Cached     bool             `json:"cached"`
	Info       *formula.CppInfo `json:"info"`
}

// NewBuilder returns a Builder. A nil Profile means profile.Default, a nil
// Logger means log.Default.
func NewBuilder(opts Options) *Builder {
	if opts.Profile == nil {
		opts.Profile = profile.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Builder{opts: opts}
}

// plan is everything known about a build before running any external tool.
type plan struct {
	recipe    *formula.Recipe
	versions  *versions.File
	version   string
	cfg       formula.Config
	deps      map[string]formula.Dependency
	packageID string
}

func (b *Builder) plan(r *formula.Recipe, version string) (*plan, error) {
	vf, err := versions.Parse(r.Name+"/versions.yml", r.Versions)
	if err != nil {
		return nil, err
	}
	if version == "" {
		if version = vf.Latest(); version == "" {
			return nil, fmt.Errorf("%s: no versions available", r.Name)
		}
	} else if _, _, err := vf.Lookup(version); err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name, err)
	}

	opts, err := r.ResolveOptions(b.opts.Profile.Options)
	if err != nil {
		return nil, fmt.Errorf("configure: %w", err)
	}
	cfg := r.Configure(formula.Config{Settings: b.opts.Profile.FormulaSettings(), Options: opts})

	logger := b.opts.Logger.With("recipe", r.Name, "version", version)
	if err := r.Validate(cfg, logger); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	deps, err := b.dependencies(r, cfg, version, logger)
	if err != nil {
		return nil, fmt.Errorf("require: %w", err)
	}
	return &plan{
		recipe:    r,
		versions:  vf,
		version:   version,
		cfg:       cfg,
		deps:      deps,
		packageID: r.PackageID(cfg),
	}, nil
}

// dependencies maps the requirements of r to the packages of the profile.
// Host requirements must be provided; tool and test requirements are used
// when provided.
func (b *Builder) dependencies(r *formula.Recipe, cfg formula.Config, version string, logger *log.Logger) (map[string]formula.Dependency, error) {
	deps := map[string]formula.Dependency{}
	for _, req := range r.Requirements(cfg, version) {
		name := req.Ref.Name
		dep, ok := b.opts.Profile.Dependencies[name]
		if !ok {
			if req.Kind != formula.Host {
				logger.Debug("optional requirement not provided", "ref", req.Ref, "kind", req.Kind)
				continue
			}
			return nil, fmt.Errorf("%s requires %s: %w", r.Name, req.Ref, ErrMissingDependency)
		}
		if !req.Ref.IsRange() && dep.Version != "" && dep.Version != req.Ref.Version {
			logger.Warn("dependency version differs from requirement", "ref", req.Ref, "provided", dep.Version)
		}
		for opt, want := range r.DependencyOptions[name] {
			if got, ok := dep.Options[opt]; ok && !strings.EqualFold(got, want) {
				return nil, formula.Invalid(r.Name, fmt.Sprintf("requires %s:%s=%s, profile provides %s", name, opt, want, got))
			}
		}
		version := dep.Version
		if version == "" {
			version = req.Ref.Version
		}
		deps[name] = formula.Dependency{
			Ref:        module.Ref{Name: name, Version: version},
			PackageDir: dep.PackageDir,
			Options:    formula.NewOptions(dep.Options),
		}
	}
	return deps, nil
}

// context returns the phase context of p rooted in the workspace.
func (b *Builder) context(ctx context.Context, p *plan) *formula.Context {
	versionDir, err := module.EscapeVersion(p.version)
	if err != nil {
		versionDir = p.version
	}
	root := filepath.Join(b.cacheDir(p.recipe.Name), versionDir)
	fctx := &formula.Context{
		Name:          p.recipe.Name,
		Version:       p.version,
		Config:        p.cfg,
		SourceDir:     filepath.Join(root, "src"),
		BuildDir:      filepath.Join(root, "build", p.packageID),
		GeneratorsDir: filepath.Join(root, "generators", p.packageID),
		PackageDir:    filepath.Join(root, "package", p.packageID),
		Exports:       p.recipe.Exports,
		Versions:      p.versions,
		Dependencies:  p.deps,
		Logger:        b.opts.Logger.With("recipe", p.recipe.Name, "version", p.version),
		Stdout:        b.opts.Stdout,
		Stderr:        b.opts.Stderr,
	}
	return fctx.WithContext(ctx)
}

// Create builds version of r (the latest when empty) for the profile and
// returns the package. A cached package is reused unless Options.Force.
func (b *Builder) Create(ctx context.Context, r *formula.Recipe, version string) (*Result, error) {
	restore := saveEnv()
	defer restore()

	p, err := b.plan(r, version)
	if err != nil {
		return nil, err
	}
	fctx := b.context(ctx, p)
	logger := fctx.Log()

	cache, err := b.loadCache(r.Name)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}
	if entry, ok := cache.get(p.version, p.packageID); ok && !b.opts.Force {
		if _, err := os.Stat(entry.PackageDir); err == nil {
			logger.Info("package found in cache", "package_id", p.packageID)
			fctx.PackageDir = entry.PackageDir
			return b.finish(fctx, p, true)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(p.deps)) {
		if dir := p.deps[name].PackageDir; dir != "" {
			logger.Debug("using dependency", "name", name, "dir", dir)
			buildsys.UseDir(dir)
		}
	}

	phases := []struct {
		name string
		run  func() error
	}{
		{"source", func() error { return b.source(fctx, p) }},
		{"generate", func() error { return r.Generate(fctx) }},
		{"build", func() error { return r.Build(fctx) }},
		{"package", func() error {
			if err := os.RemoveAll(fctx.PackageDir); err != nil {
				return err
			}
			if err := os.MkdirAll(fctx.PackageDir, 0o755); err != nil {
				return err
			}
			return r.Package(fctx)
		}},
	}
	for _, phase := range phases {
		if err := runPhase(logger, phase.name, phase.run); err != nil {
			return nil, err
		}
	}

	res, err := b.finish(fctx, p, false)
	if err != nil {
		return nil, err
	}
	cache.set(p.version, p.packageID, &packageEntry{PackageDir: fctx.PackageDir, BuildTime: time.Now()})
	if err := b.saveCache(r.Name, cache); err != nil {
		return nil, fmt.Errorf("save cache: %w", err)
	}
	return res, nil
}

// Info runs the package info phase of version of r against the cached
// package built for the profile.
func (b *Builder) Info(ctx context.Context, r *formula.Recipe, version string) (*Result, error) {
	p, err := b.plan(r, version)
	if err != nil {
		return nil, err
	}
	cache, err := b.loadCache(r.Name)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}
	entry, ok := cache.get(p.version, p.packageID)
	if !ok {
		return nil, fmt.Errorf("%s/%s (package id %s): %w", r.Name, p.version, p.packageID, ErrNotBuilt)
	}
	fctx := b.context(ctx, p)
	fctx.PackageDir = entry.PackageDir
	return b.finish(fctx, p, true)
}

// source fetches the sources of the version once, runs the source hook and
// applies the manifest patches. The tree is shared by every package id of
// the version.
func (b *Builder) source(fctx *formula.Context, p *plan) error {
	marker := filepath.Join(fctx.SourceDir, ".llarhub-source")
	if _, err := os.Stat(marker); err == nil {
		fctx.Log().Debug("sources already fetched", "dir", fctx.SourceDir)
		return nil
	}
	if err := os.RemoveAll(fctx.SourceDir); err != nil {
		return err
	}
	if err := os.MkdirAll(fctx.SourceDir, 0o755); err != nil {
		return err
	}
	downloads, err := env.DownloadDir(b.opts.WorkspaceDir)
	if err != nil {
		return err
	}
	srcs, _, err := p.versions.Lookup(p.version)
	if err != nil {
		return err
	}
	for _, src := range srcs {
		fctx.Log().Info("fetching", "url", src.URL, "git", src.Git)
	}
	if err := files.Fetch(fctx.Context(), srcs, fctx.SourceDir, downloads); err != nil {
		return err
	}
	if err := p.recipe.Source(fctx); err != nil {
		return err
	}
	if err := files.ApplyPatches(fctx); err != nil {
		return err
	}
	return os.WriteFile(marker, []byte(p.version+"\n"), 0o644)
}

// finish runs the package info phase and records package_info.json.
func (b *Builder) finish(fctx *formula.Context, p *plan, cached bool) (*Result, error) {
	var info *formula.CppInfo
	err := runPhase(fctx.Log(), "package_info", func() error {
		var err error
		info, err = p.recipe.PackageInfo(fctx)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(fctx.PackageDir, PackageInfoFile), data, 0o644)
	})
	if err != nil {
		return nil, err
	}
	return &Result{
		Ref:        module.Ref{Name: p.recipe.Name, Version: p.version},
		PackageID:  p.packageID,
		PackageDir: fctx.PackageDir,
		Cached:     cached,
		Info:       info,
	}, nil
}

func runPhase(logger *log.Logger, name string, run func() error) error {
	start := time.Now()
	logger.Info("running phase", "phase", name)
	if err := run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	logger.Debug("phase done", "phase", name, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
